// AngelaMos | 2026
// handler.go

package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/middleware"
	"github.com/querystack/querystack/internal/tag"
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
	r.Route("/questions", func(r chi.Router) {
		r.Get("/", h.ListQuestions)

		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/{questionID}", h.GetQuestion)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.CreateQuestion)
			r.Put("/{questionID}", h.UpdateQuestion)
			r.Delete("/{questionID}", h.DeleteQuestion)
		})
	})
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	question, tags, err := h.service.CreateQuestion(r.Context(), userID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToQuestionResponse(question, tags))
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionID")
	viewerID := middleware.GetUserID(r.Context())

	question, tags, err := h.service.GetQuestion(r.Context(), questionID, viewerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "question")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToQuestionResponse(question, tags))
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	params := ListQuestionsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Filter:   r.URL.Query().Get("filter"),
		TagID:    r.URL.Query().Get("tag_id"),
		AuthorID: r.URL.Query().Get("author_id"),
		Search:   r.URL.Query().Get("search"),
	}

	questions, tagsByQuestion, total, err := h.service.ListQuestions(
		r.Context(),
		params,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	resp := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		var tags []tag.Tag
		if byQuestion, ok := tagsByQuestion[questions[i].ID]; ok {
			tags = byQuestion
		}
		resp = append(resp, ToQuestionResponse(&questions[i], tags))
	}

	params.Normalize()
	core.Paginated(w, resp, params.Page, params.PageSize, total)
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	role := middleware.GetUserRole(r.Context())
	questionID := chi.URLParam(r, "questionID")

	var req UpdateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	question, tags, err := h.service.UpdateQuestion(
		r.Context(),
		userID,
		role,
		questionID,
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "question")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "only the author can edit this question")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToQuestionResponse(question, tags))
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	role := middleware.GetUserRole(r.Context())
	questionID := chi.URLParam(r, "questionID")

	err := h.service.DeleteQuestion(r.Context(), userID, role, questionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "question")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "only the author can delete this question")
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
