// AngelaMos | 2026
// handler.go

package tag

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/querystack/querystack/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tags", func(r chi.Router) {
		r.Get("/", h.ListTags)
		r.Get("/{tagID}", h.GetTag)
	})
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	params := ListTagsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Sort:     r.URL.Query().Get("sort"),
	}

	tags, total, err := h.service.ListTags(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToTagResponseList(tags),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	tagID := chi.URLParam(r, "tagID")

	tag, err := h.service.GetTag(r.Context(), tagID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "tag")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTagResponse(tag))
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
