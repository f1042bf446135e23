// AngelaMos | 2026
// webhook.go

package billing

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/querystack/querystack/internal/core"
)

const webhookBodyLimit = 1 << 16

// WebhookHandler terminates Stripe webhook deliveries. It is mounted
// outside the authenticated router; the Stripe-Signature header is the
// only credential accepted.
type WebhookHandler struct {
	service       *Service
	webhookSecret string
	logger        *slog.Logger
}

func NewWebhookHandler(
	service *Service,
	webhookSecret string,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		service:       service,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		core.JSONError(w, core.ValidationError("unable to read payload"))
		return
	}

	event, err := webhook.ConstructEvent(
		payload,
		r.Header.Get("Stripe-Signature"),
		h.webhookSecret,
	)
	if err != nil {
		h.logger.Warn("stripe webhook signature rejected", "error", err)
		core.JSONError(w, core.ValidationError("invalid signature"))
		return
	}

	if err := h.dispatch(r, event); err != nil {
		h.logger.Error("stripe webhook failed",
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err)
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]string{"received": "true"})
}

func (h *WebhookHandler) dispatch(r *http.Request, event stripe.Event) error {
	ctx := r.Context()

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return err
		}
		return h.service.ApplyCheckoutCompleted(ctx, &session)

	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		return h.service.ApplySubscriptionChange(ctx, &sub)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		return h.service.ApplySubscriptionDeleted(ctx, &sub)

	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return err
		}
		return h.service.ApplyPaymentSucceeded(ctx, &invoice)

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return err
		}
		return h.service.ApplyPaymentFailed(ctx, &invoice)

	default:
		// Acknowledge event types we do not track so Stripe stops retrying.
		h.logger.Debug("stripe webhook ignored", "event_type", event.Type)
		return nil
	}
}
