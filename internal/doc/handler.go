// AngelaMos | 2026
// handler.go

package doc

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/docs", func(r chi.Router) {
		r.Get("/", h.ListDocs)

		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/{docID}", h.GetDoc)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.CreateDoc)
			r.Put("/{docID}", h.UpdateDoc)
			r.Delete("/{docID}", h.DeleteDoc)
			r.Get("/mine", h.ListMyDocs)
		})
	})
}

func (h *Handler) CreateDoc(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateDocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	doc, err := h.service.CreateDoc(r.Context(), userID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToDocResponse(doc))
}

func (h *Handler) GetDoc(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	viewerID := middleware.GetUserID(r.Context())

	doc, err := h.service.GetDoc(r.Context(), docID, viewerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "doc")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToDocResponse(doc))
}

func (h *Handler) ListDocs(w http.ResponseWriter, r *http.Request) {
	params := ListDocsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Sort:     r.URL.Query().Get("sort"),
	}

	docs, total, err := h.service.ListDocs(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(w, ToDocResponseList(docs), params.Page, params.PageSize, total)
}

func (h *Handler) ListMyDocs(w http.ResponseWriter, r *http.Request) {
	params := ListDocsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Sort:     r.URL.Query().Get("sort"),
		AuthorID: middleware.GetUserID(r.Context()),
	}

	docs, total, err := h.service.ListDocs(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(w, ToDocResponseList(docs), params.Page, params.PageSize, total)
}

func (h *Handler) UpdateDoc(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	role := middleware.GetUserRole(r.Context())
	docID := chi.URLParam(r, "docID")

	var req UpdateDocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	doc, err := h.service.UpdateDoc(r.Context(), userID, role, docID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "doc")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "only the author can edit this doc")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToDocResponse(doc))
}

func (h *Handler) DeleteDoc(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	role := middleware.GetUserRole(r.Context())
	docID := chi.URLParam(r, "docID")

	if err := h.service.DeleteDoc(r.Context(), userID, role, docID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "doc")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "only the author can delete this doc")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
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
