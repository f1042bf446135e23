// AngelaMos | 2026
// service.go

package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stripe/stripe-go/v81"

	"github.com/querystack/querystack/internal/config"
	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/middleware"
)

var ErrAlreadySubscribed = errors.New("active membership already exists")

type Service struct {
	repo    Repository
	stripe  StripeClient
	cfg     config.StripeConfig
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(
	db *sqlx.DB,
	stripeClient StripeClient,
	cfg config.StripeConfig,
	baseURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    NewRepository(db),
		stripe:  stripeClient,
		cfg:     cfg,
		baseURL: baseURL,
		logger:  logger,
		now:     time.Now,
	}
}

// NewServiceWithRepository wires fakes in tests.
func NewServiceWithRepository(
	repo Repository,
	stripeClient StripeClient,
	cfg config.StripeConfig,
	baseURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		stripe:  stripeClient,
		cfg:     cfg,
		baseURL: baseURL,
		logger:  logger,
		now:     time.Now,
	}
}

// IsPro recomputes pro access from the membership row on every call.
// Nothing is cached in tokens or sessions, so a lapsed subscription loses
// pro-gated access on the next request.
func (s *Service) IsPro(ctx context.Context, userID string) (bool, error) {
	membership, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return membership.IsPro(s.now()), nil
}

func (s *Service) GetMembership(
	ctx context.Context,
	userID string,
) (*ProMembership, bool, error) {
	membership, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return membership, membership.IsPro(s.now()), nil
}

// Checkout starts a subscription checkout for the chosen plan and returns
// the hosted payment URL. A user with a currently-active membership is
// rejected; the Stripe customer is reused when one exists.
func (s *Service) Checkout(
	ctx context.Context,
	userID, email string,
	planType PlanType,
) (string, error) {
	if !planType.Valid() {
		return "", fmt.Errorf(
			"checkout: invalid plan type %q: %w",
			planType,
			core.ErrInvalidInput,
		)
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return "", err
	}

	if existing != nil && existing.IsPro(s.now()) {
		return "", ErrAlreadySubscribed
	}

	var customerID string
	if existing != nil {
		customerID = existing.StripeCustomerID
	} else {
		customerID, err = s.stripe.CreateCustomer(ctx, email, userID)
		if err != nil {
			return "", err
		}
	}

	priceID := s.cfg.MonthlyPriceID
	if planType == PlanYearly {
		priceID = s.cfg.YearlyPriceID
	}

	return s.stripe.CreateCheckoutSession(
		ctx,
		customerID,
		priceID,
		userID,
		planType,
		s.baseURL+"/billing/success",
		s.baseURL+"/billing/canceled",
	)
}

func (s *Service) Portal(
	ctx context.Context,
	userID, returnURL string,
) (string, error) {
	membership, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	if returnURL == "" {
		returnURL = s.baseURL
	}

	return s.stripe.CreatePortalSession(ctx, membership.StripeCustomerID, returnURL)
}

// Cancel schedules the subscription to lapse at period end. Access stays
// pro until the paid period runs out.
func (s *Service) Cancel(ctx context.Context, userID string) error {
	return s.setCancelAtPeriodEnd(ctx, userID, true)
}

func (s *Service) Reactivate(ctx context.Context, userID string) error {
	return s.setCancelAtPeriodEnd(ctx, userID, false)
}

func (s *Service) setCancelAtPeriodEnd(
	ctx context.Context,
	userID string,
	cancel bool,
) error {
	membership, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if membership.StripeSubscriptionID == nil {
		return fmt.Errorf("no subscription: %w", core.ErrNotFound)
	}

	if err := s.stripe.SetCancelAtPeriodEnd(
		ctx,
		*membership.StripeSubscriptionID,
		cancel,
	); err != nil {
		return err
	}

	// Mirror locally; the subscription.updated webhook will confirm.
	return s.repo.UpdateByUserID(ctx, userID, MembershipUpdate{
		CancelAtPeriodEnd: &cancel,
	})
}

// ApplyCheckoutCompleted seeds the membership row when checkout finishes.
// The subscription events that follow fill in authoritative state, so
// this only has to land customer and subscription identifiers.
func (s *Service) ApplyCheckoutCompleted(
	ctx context.Context,
	session *stripe.CheckoutSession,
) error {
	userID := session.Metadata["user_id"]
	if userID == "" {
		return fmt.Errorf(
			"checkout.session.completed: missing user_id metadata: %w",
			core.ErrInvalidInput,
		)
	}

	var subscriptionID *string
	if session.Subscription != nil {
		subscriptionID = &session.Subscription.ID
	}

	var customerID string
	if session.Customer != nil {
		customerID = session.Customer.ID
	}

	planType := PlanType(session.Metadata["plan_type"])
	if !planType.Valid() {
		planType = PlanMonthly
	}

	now := s.now()

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return err
	}

	if existing != nil {
		return s.repo.UpdateByUserID(ctx, userID, MembershipUpdate{
			StripeSubscriptionID: subscriptionID,
		})
	}

	return s.repo.Upsert(ctx, &ProMembership{
		ID:                   uuid.New().String(),
		UserID:               userID,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: subscriptionID,
		StripePriceID:        "",
		Status:               StatusIncomplete,
		CurrentPeriodStart:   now,
		CurrentPeriodEnd:     now,
		PlanType:             planType,
		Amount:               0,
		Currency:             "usd",
	})
}

// ApplySubscriptionChange handles customer.subscription.created and
// customer.subscription.updated. Field-level and keyed by subscription id,
// so replaying the same event converges on the same row.
func (s *Service) ApplySubscriptionChange(
	ctx context.Context,
	sub *stripe.Subscription,
) error {
	status := mapSubscriptionStatus(sub.Status)
	periodStart := time.Unix(sub.CurrentPeriodStart, 0).UTC()
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	cancelAtPeriodEnd := sub.CancelAtPeriodEnd

	update := MembershipUpdate{
		Status:             &status,
		CurrentPeriodStart: &periodStart,
		CurrentPeriodEnd:   &periodEnd,
		CancelAtPeriodEnd:  &cancelAtPeriodEnd,
	}

	if len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		price := sub.Items.Data[0].Price
		update.StripePriceID = &price.ID
		update.Amount = &price.UnitAmount

		currency := string(price.Currency)
		update.Currency = &currency

		if price.Recurring != nil {
			planType := PlanMonthly
			if price.Recurring.Interval == stripe.PriceRecurringIntervalYear {
				planType = PlanYearly
			}
			update.PlanType = &planType
		}
	}

	err := s.repo.UpdateBySubscriptionID(ctx, sub.ID, update)
	if !errors.Is(err, core.ErrNotFound) {
		return err
	}

	// Row not linked to this subscription yet: the subscription event
	// raced ahead of checkout.session.completed. Fall back to the user
	// id carried in subscription metadata.
	userID := sub.Metadata["user_id"]
	if userID == "" {
		return fmt.Errorf(
			"subscription %s: no membership row and no user_id metadata: %w",
			sub.ID,
			core.ErrNotFound,
		)
	}

	subID := sub.ID
	update.StripeSubscriptionID = &subID

	err = s.repo.UpdateByUserID(ctx, userID, update)
	if !errors.Is(err, core.ErrNotFound) {
		return err
	}

	var customerID string
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}

	membership := &ProMembership{
		ID:                   uuid.New().String(),
		UserID:               userID,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: &subID,
		Status:               status,
		CurrentPeriodStart:   periodStart,
		CurrentPeriodEnd:     periodEnd,
		CancelAtPeriodEnd:    cancelAtPeriodEnd,
		PlanType:             PlanMonthly,
		Currency:             "usd",
	}
	if update.StripePriceID != nil {
		membership.StripePriceID = *update.StripePriceID
	}
	if update.Amount != nil {
		membership.Amount = *update.Amount
	}
	if update.Currency != nil {
		membership.Currency = *update.Currency
	}
	if update.PlanType != nil {
		membership.PlanType = *update.PlanType
	}

	return s.repo.Upsert(ctx, membership)
}

// ApplySubscriptionDeleted forces canceled + cancel_at_period_end=false
// regardless of prior state.
func (s *Service) ApplySubscriptionDeleted(
	ctx context.Context,
	sub *stripe.Subscription,
) error {
	status := StatusCanceled
	cancelAtPeriodEnd := false

	err := s.repo.UpdateBySubscriptionID(ctx, sub.ID, MembershipUpdate{
		Status:            &status,
		CancelAtPeriodEnd: &cancelAtPeriodEnd,
	})
	if errors.Is(err, core.ErrNotFound) {
		// Nothing to cancel locally; acknowledge rather than retry.
		s.logger.Warn("subscription.deleted for unknown subscription",
			"subscription_id", sub.ID)
		return nil
	}

	return err
}

// ApplyPaymentSucceeded marks the membership active and advances the paid
// period from the invoice line.
func (s *Service) ApplyPaymentSucceeded(
	ctx context.Context,
	invoice *stripe.Invoice,
) error {
	if invoice.Subscription == nil {
		return nil
	}

	status := StatusActive
	update := MembershipUpdate{Status: &status}

	if invoice.Lines != nil && len(invoice.Lines.Data) > 0 {
		line := invoice.Lines.Data[0]
		if line.Period != nil {
			periodStart := time.Unix(line.Period.Start, 0).UTC()
			periodEnd := time.Unix(line.Period.End, 0).UTC()
			update.CurrentPeriodStart = &periodStart
			update.CurrentPeriodEnd = &periodEnd
		}
	}

	err := s.repo.UpdateBySubscriptionID(ctx, invoice.Subscription.ID, update)
	if errors.Is(err, core.ErrNotFound) {
		s.logger.Warn("payment_succeeded for unknown subscription",
			"subscription_id", invoice.Subscription.ID)
		return nil
	}

	return err
}

// ApplyPaymentFailed downgrades the membership to past_due. The pro gate
// goes dark immediately because IsPro recomputes per request.
func (s *Service) ApplyPaymentFailed(
	ctx context.Context,
	invoice *stripe.Invoice,
) error {
	if invoice.Subscription == nil {
		return nil
	}

	status := StatusPastDue

	err := s.repo.UpdateBySubscriptionID(
		ctx,
		invoice.Subscription.ID,
		MembershipUpdate{Status: &status},
	)
	if errors.Is(err, core.ErrNotFound) {
		s.logger.Warn("payment_failed for unknown subscription",
			"subscription_id", invoice.Subscription.ID)
		return nil
	}

	return err
}

func mapSubscriptionStatus(status stripe.SubscriptionStatus) Status {
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return StatusActive
	case stripe.SubscriptionStatusPastDue:
		return StatusPastDue
	case stripe.SubscriptionStatusCanceled:
		return StatusCanceled
	case stripe.SubscriptionStatusUnpaid:
		return StatusUnpaid
	default:
		return StatusIncomplete
	}
}

var _ middleware.ProChecker = (*Service)(nil)
