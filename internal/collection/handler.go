// AngelaMos | 2026
// handler.go

package collection

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/middleware"
	"github.com/querystack/querystack/internal/question"
	"github.com/querystack/querystack/internal/tag"
)

type ToggleSaveRequest struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
}

type ToggleSaveResponse struct {
	Saved bool `json:"saved"`
}

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
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/collections", func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/toggle", h.ToggleSave)
		r.Get("/", h.ListSaved)
		r.Get("/status/{questionID}", h.GetStatus)
	})
}

func (h *Handler) ToggleSave(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ToggleSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	saved, err := h.service.ToggleSave(r.Context(), userID, req.QuestionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "question")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToggleSaveResponse{Saved: saved})
}

func (h *Handler) ListSaved(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	page := parseIntQuery(r, "page", 1)
	pageSize := parseIntQuery(r, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}

	questions, tagsByQuestion, total, err := h.service.ListSaved(
		r.Context(),
		userID,
		page,
		pageSize,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	resp := make([]question.QuestionResponse, 0, len(questions))
	for i := range questions {
		var tags []tag.Tag
		if byQuestion, ok := tagsByQuestion[questions[i].ID]; ok {
			tags = byQuestion
		}
		resp = append(resp, question.ToQuestionResponse(&questions[i], tags))
	}

	core.Paginated(w, resp, page, pageSize, total)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	questionID := chi.URLParam(r, "questionID")

	saved, err := h.service.IsSaved(r.Context(), userID, questionID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToggleSaveResponse{Saved: saved})
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
