// AngelaMos | 2026
// handler.go

package vote

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/interaction"
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
	r.Route("/votes", func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/", h.CastVote)
		r.Get("/status", h.GetVoteStatus)
	})
}

func (h *Handler) CastVote(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.Cast(
		r.Context(),
		userID,
		interaction.TargetKind(req.TargetKind),
		req.TargetID,
		VoteType(req.VoteType),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "vote target")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid vote")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, VoteResponse{
		Status:    string(result.Status),
		VoteType:  string(result.VoteType),
		Upvotes:   result.Upvotes,
		Downvotes: result.Downvotes,
	})
}

func (h *Handler) GetVoteStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	kind := r.URL.Query().Get("target_kind")
	targetID := r.URL.Query().Get("target_id")

	if kind == "" || targetID == "" {
		core.BadRequest(w, "target_kind and target_id are required")
		return
	}

	vote, err := h.service.GetVoteStatus(
		r.Context(),
		userID,
		interaction.TargetKind(kind),
		targetID,
	)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid target kind")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	resp := VoteStatusResponse{}
	if vote != nil {
		resp.HasUpvoted = vote.VoteType == TypeUpvote
		resp.HasDownvoted = vote.VoteType == TypeDownvote
	}

	core.OK(w, resp)
}
