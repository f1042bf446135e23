// AngelaMos | 2026
// handler.go

package answer

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
	authenticator func(http.Handler) http.Handler,
) {
	r.Get("/questions/{questionID}/answers", h.ListAnswers)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/questions/{questionID}/answers", h.CreateAnswer)
		r.Put("/answers/{answerID}", h.UpdateAnswer)
		r.Delete("/answers/{answerID}", h.DeleteAnswer)
	})
}

func (h *Handler) CreateAnswer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	questionID := chi.URLParam(r, "questionID")

	var req CreateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	answer, err := h.service.CreateAnswer(r.Context(), userID, questionID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "question")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToAnswerResponse(answer))
}

func (h *Handler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionID")

	params := ListAnswersParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Sort:     r.URL.Query().Get("sort"),
	}

	answers, total, err := h.service.ListAnswers(r.Context(), questionID, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToAnswerResponseList(answers),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) UpdateAnswer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	role := middleware.GetUserRole(r.Context())
	answerID := chi.URLParam(r, "answerID")

	var req UpdateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	answer, err := h.service.UpdateAnswer(r.Context(), userID, role, answerID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "answer")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "only the author can edit this answer")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToAnswerResponse(answer))
}

func (h *Handler) DeleteAnswer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	role := middleware.GetUserRole(r.Context())
	answerID := chi.URLParam(r, "answerID")

	err := h.service.DeleteAnswer(r.Context(), userID, role, answerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "answer")
			return
		}
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "only the author can delete this answer")
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
