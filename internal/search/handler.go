// AngelaMos | 2026
// handler.go

package search

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/interaction"
	"github.com/querystack/querystack/internal/middleware"
	"github.com/querystack/querystack/internal/worker"
)

const maxPageSize = 50

type ResultResponse struct {
	ID        string              `json:"id"`
	Kind      string              `json:"kind"`
	Title     string              `json:"title"`
	Author    string              `json:"author,omitempty"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"`
}

type Handler struct {
	index        *Index
	interactions *interaction.Service
	pool         *worker.Pool
}

func NewHandler(
	index *Index,
	interactions *interaction.Service,
	pool *worker.Pool,
) *Handler {
	return &Handler{
		index:        index,
		interactions: interactions,
		pool:         pool,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/search", h.Search)
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		core.BadRequest(w, "query parameter 'q' is required")
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind != "" && kind != KindQuestion && kind != KindDoc {
		core.BadRequest(w, "kind must be 'question' or 'doc'")
		return
	}

	page := parseIntQuery(r, "page", 1)
	pageSize := parseIntQuery(r, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = 20
	}

	results, total, err := h.index.Search(
		query,
		kind,
		pageSize,
		(page-1)*pageSize,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.recordSearchInteraction(r.Context(), results)

	resp := make([]ResultResponse, 0, len(results))
	for _, res := range results {
		resp = append(resp, ResultResponse{
			ID:        res.ID,
			Kind:      res.Kind,
			Title:     res.Title,
			Author:    res.Author,
			Score:     res.Score,
			Fragments: res.Fragments,
		})
	}

	core.Paginated(w, resp, page, pageSize, total)
}

// recordSearchInteraction logs a search interaction against the top question
// hit, feeding the recommendation signal without touching reputation.
func (h *Handler) recordSearchInteraction(ctx context.Context, results []*Result) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return
	}

	var topQuestionID string
	for _, res := range results {
		if res.Kind == KindQuestion {
			topQuestionID = res.ID
			break
		}
	}
	if topQuestionID == "" {
		return
	}

	h.pool.Submit(worker.Task{
		Name: "interaction.search",
		Run: func(taskCtx context.Context) error {
			_, err := h.interactions.Record(taskCtx, interaction.Input{
				ActorID:    userID,
				Action:     interaction.ActionSearch,
				TargetKind: interaction.KindQuestion,
				TargetID:   topQuestionID,
				AuthorID:   userID,
			})
			return err
		},
	})
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
