// AngelaMos | 2026
// handler.go

package billing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/querystack/querystack/internal/auth"
	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/middleware"
)

// EmailLookup resolves the account email handed to Stripe when a customer
// record is first created.
type EmailLookup interface {
	GetByID(ctx context.Context, id string) (*auth.UserInfo, error)
}

type Handler struct {
	service   *Service
	users     EmailLookup
	validator *validator.Validate
}

func NewHandler(service *Service, users EmailLookup) *Handler {
	return &Handler{
		service:   service,
		users:     users,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/billing", func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/membership", h.GetMembership)
		r.Post("/checkout", h.Checkout)
		r.Post("/portal", h.Portal)
		r.Post("/cancel", h.Cancel)
		r.Post("/reactivate", h.Reactivate)
	})
}

func (h *Handler) GetMembership(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	membership, isPro, err := h.service.GetMembership(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	if membership == nil {
		core.OK(w, MembershipResponse{
			Status:   "none",
			PlanType: "",
			IsPro:    false,
		})
		return
	}

	core.OK(w, ToMembershipResponse(membership, isPro))
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	info, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	url, err := h.service.Checkout(
		r.Context(),
		userID,
		info.Email,
		PlanType(req.PlanType),
	)
	if err != nil {
		if errors.Is(err, ErrAlreadySubscribed) {
			core.JSONError(
				w,
				core.NewAppError(
					err,
					"membership is already active",
					http.StatusConflict,
					"ALREADY_SUBSCRIBED",
				),
			)
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid plan type")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CheckoutResponse{URL: url})
}

func (h *Handler) Portal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req PortalRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			core.BadRequest(w, core.FormatValidationError(err))
			return
		}
	}

	url, err := h.service.Portal(r.Context(), userID, req.ReturnURL)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "membership")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, PortalResponse{URL: url})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.setCancel(w, r, true)
}

func (h *Handler) Reactivate(w http.ResponseWriter, r *http.Request) {
	h.setCancel(w, r, false)
}

func (h *Handler) setCancel(
	w http.ResponseWriter,
	r *http.Request,
	cancel bool,
) {
	userID := middleware.GetUserID(r.Context())

	var err error
	if cancel {
		err = h.service.Cancel(r.Context(), userID)
	} else {
		err = h.service.Reactivate(r.Context(), userID)
	}
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "membership")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
