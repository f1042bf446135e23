// AngelaMos | 2026
// handler.go

package jobs

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/querystack/querystack/internal/core"
)

const maxQueryLength = 200

// Searcher is what the HTTP layer needs from the listings client.
type Searcher interface {
	Search(ctx context.Context, query string, page int) ([]Listing, error)
}

type Handler struct {
	client Searcher
}

func NewHandler(client Searcher) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes mounts the job board behind authentication and the pro
// membership gate.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, requirePro func(http.Handler) http.Handler,
) {
	r.Route("/jobs", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(requirePro)
		r.Get("/", h.SearchJobs)
	})
}

func (h *Handler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		core.BadRequest(w, "query is required")
		return
	}
	if len(query) > maxQueryLength {
		core.BadRequest(w, "query is too long")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			core.BadRequest(w, "page must be a positive integer")
			return
		}
		page = parsed
	}

	listings, err := h.client.Search(r.Context(), query, page)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]any{
		"listings": listings,
		"page":     page,
	})
}
