// AngelaMos | 2026
// service_test.go

package billing

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v81"

	"github.com/querystack/querystack/internal/config"
	"github.com/querystack/querystack/internal/core"
)

type fakeRepository struct {
	byUser map[string]*ProMembership
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byUser: make(map[string]*ProMembership)}
}

func (f *fakeRepository) GetByUserID(
	_ context.Context,
	userID string,
) (*ProMembership, error) {
	m, ok := f.byUser[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeRepository) GetBySubscriptionID(
	_ context.Context,
	subscriptionID string,
) (*ProMembership, error) {
	for _, m := range f.byUser {
		if m.StripeSubscriptionID != nil &&
			*m.StripeSubscriptionID == subscriptionID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepository) Upsert(
	_ context.Context,
	membership *ProMembership,
) error {
	copied := *membership
	f.byUser[membership.UserID] = &copied
	return nil
}

func (f *fakeRepository) UpdateByUserID(
	_ context.Context,
	userID string,
	update MembershipUpdate,
) error {
	m, ok := f.byUser[userID]
	if !ok {
		return core.ErrNotFound
	}
	applyUpdate(m, update)
	return nil
}

func (f *fakeRepository) UpdateBySubscriptionID(
	_ context.Context,
	subscriptionID string,
	update MembershipUpdate,
) error {
	for _, m := range f.byUser {
		if m.StripeSubscriptionID != nil &&
			*m.StripeSubscriptionID == subscriptionID {
			applyUpdate(m, update)
			return nil
		}
	}
	return core.ErrNotFound
}

func applyUpdate(m *ProMembership, update MembershipUpdate) {
	if update.StripeSubscriptionID != nil {
		m.StripeSubscriptionID = update.StripeSubscriptionID
	}
	if update.StripePriceID != nil {
		m.StripePriceID = *update.StripePriceID
	}
	if update.Status != nil {
		m.Status = *update.Status
	}
	if update.CurrentPeriodStart != nil {
		m.CurrentPeriodStart = *update.CurrentPeriodStart
	}
	if update.CurrentPeriodEnd != nil {
		m.CurrentPeriodEnd = *update.CurrentPeriodEnd
	}
	if update.CancelAtPeriodEnd != nil {
		m.CancelAtPeriodEnd = *update.CancelAtPeriodEnd
	}
	if update.PlanType != nil {
		m.PlanType = *update.PlanType
	}
	if update.Amount != nil {
		m.Amount = *update.Amount
	}
	if update.Currency != nil {
		m.Currency = *update.Currency
	}
}

type fakeStripeClient struct {
	customersCreated int
	cancelCalls      []bool
	checkoutURL      string
}

func (f *fakeStripeClient) CreateCustomer(
	_ context.Context,
	_, _ string,
) (string, error) {
	f.customersCreated++
	return fmt.Sprintf("cus_fake_%d", f.customersCreated), nil
}

func (f *fakeStripeClient) CreateCheckoutSession(
	_ context.Context,
	_, _, _ string,
	_ PlanType,
	_, _ string,
) (string, error) {
	if f.checkoutURL == "" {
		return "https://checkout.stripe.test/session", nil
	}
	return f.checkoutURL, nil
}

func (f *fakeStripeClient) CreatePortalSession(
	_ context.Context,
	_, _ string,
) (string, error) {
	return "https://billing.stripe.test/portal", nil
}

func (f *fakeStripeClient) SetCancelAtPeriodEnd(
	_ context.Context,
	_ string,
	cancel bool,
) error {
	f.cancelCalls = append(f.cancelCalls, cancel)
	return nil
}

func newTestService(repo Repository, stripeClient StripeClient) *Service {
	return NewServiceWithRepository(
		repo,
		stripeClient,
		config.StripeConfig{
			MonthlyPriceID: "price_monthly",
			YearlyPriceID:  "price_yearly",
		},
		"https://querystack.test",
		slog.New(slog.DiscardHandler),
	)
}

func strPtr(s string) *string { return &s }

func activeMembership(userID, subscriptionID string) *ProMembership {
	now := time.Now().UTC()
	return &ProMembership{
		ID:                   "membership-" + userID,
		UserID:               userID,
		StripeCustomerID:     "cus_" + userID,
		StripeSubscriptionID: strPtr(subscriptionID),
		StripePriceID:        "price_monthly",
		Status:               StatusActive,
		CurrentPeriodStart:   now.Add(-24 * time.Hour),
		CurrentPeriodEnd:     now.Add(29 * 24 * time.Hour),
		PlanType:             PlanMonthly,
		Amount:               999,
		Currency:             "usd",
	}
}

func TestIsProFalseWithoutMembership(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeStripeClient{})

	isPro, err := svc.IsPro(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("IsPro: %v", err)
	}
	if isPro {
		t.Fatal("expected no pro access without a membership row")
	}
}

func TestIsProTrueForActiveMembership(t *testing.T) {
	repo := newFakeRepository()
	repo.byUser["user-1"] = activeMembership("user-1", "sub_1")
	svc := newTestService(repo, &fakeStripeClient{})

	isPro, err := svc.IsPro(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("IsPro: %v", err)
	}
	if !isPro {
		t.Fatal("expected pro access for an active, unexpired membership")
	}
}

func TestIsProFalseWhenPeriodLapsed(t *testing.T) {
	repo := newFakeRepository()
	m := activeMembership("user-1", "sub_1")
	m.CurrentPeriodEnd = time.Now().UTC().Add(-time.Hour)
	repo.byUser["user-1"] = m
	svc := newTestService(repo, &fakeStripeClient{})

	isPro, err := svc.IsPro(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("IsPro: %v", err)
	}
	if isPro {
		t.Fatal("status active but period lapsed must not grant pro access")
	}
}

func TestCheckoutRejectsActiveMembership(t *testing.T) {
	repo := newFakeRepository()
	repo.byUser["user-1"] = activeMembership("user-1", "sub_1")
	svc := newTestService(repo, &fakeStripeClient{})

	_, err := svc.Checkout(
		context.Background(),
		"user-1",
		"a@example.com",
		PlanMonthly,
	)
	if err != ErrAlreadySubscribed {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
}

func TestCheckoutReusesExistingCustomer(t *testing.T) {
	repo := newFakeRepository()
	m := activeMembership("user-1", "sub_1")
	m.Status = StatusCanceled
	repo.byUser["user-1"] = m

	stripeClient := &fakeStripeClient{}
	svc := newTestService(repo, stripeClient)

	url, err := svc.Checkout(
		context.Background(),
		"user-1",
		"a@example.com",
		PlanYearly,
	)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if url == "" {
		t.Fatal("expected a checkout URL")
	}
	if stripeClient.customersCreated != 0 {
		t.Fatalf(
			"expected existing customer to be reused, created %d",
			stripeClient.customersCreated,
		)
	}
}

func TestCancelMirrorsFlagLocally(t *testing.T) {
	repo := newFakeRepository()
	repo.byUser["user-1"] = activeMembership("user-1", "sub_1")

	stripeClient := &fakeStripeClient{}
	svc := newTestService(repo, stripeClient)

	if err := svc.Cancel(context.Background(), "user-1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if len(stripeClient.cancelCalls) != 1 || !stripeClient.cancelCalls[0] {
		t.Fatalf("expected one SetCancelAtPeriodEnd(true) call, got %v",
			stripeClient.cancelCalls)
	}
	if !repo.byUser["user-1"].CancelAtPeriodEnd {
		t.Fatal("expected cancel_at_period_end mirrored locally")
	}
	if repo.byUser["user-1"].Status != StatusActive {
		t.Fatal("cancel at period end must not change status")
	}
}

func subscriptionEvent(id, userID string) *stripe.Subscription {
	now := time.Now().UTC()
	return &stripe.Subscription{
		ID:                 id,
		Status:             stripe.SubscriptionStatusActive,
		CurrentPeriodStart: now.Add(-time.Hour).Unix(),
		CurrentPeriodEnd:   now.Add(30 * 24 * time.Hour).Unix(),
		CancelAtPeriodEnd:  false,
		Metadata: map[string]string{
			"user_id":   userID,
			"plan_type": "monthly",
		},
		Customer: &stripe.Customer{ID: "cus_" + userID},
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{
					Price: &stripe.Price{
						ID:         "price_monthly",
						UnitAmount: 999,
						Currency:   stripe.CurrencyUSD,
						Recurring: &stripe.PriceRecurring{
							Interval: stripe.PriceRecurringIntervalMonth,
						},
					},
				},
			},
		},
	}
}

func TestSubscriptionChangeSeedsRowFromMetadata(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeStripeClient{})

	sub := subscriptionEvent("sub_new", "user-1")
	if err := svc.ApplySubscriptionChange(context.Background(), sub); err != nil {
		t.Fatalf("ApplySubscriptionChange: %v", err)
	}

	m, ok := repo.byUser["user-1"]
	if !ok {
		t.Fatal("expected a membership row seeded from subscription metadata")
	}
	if m.StripeSubscriptionID == nil || *m.StripeSubscriptionID != "sub_new" {
		t.Fatalf("subscription id = %v, want sub_new", m.StripeSubscriptionID)
	}
	if m.Status != StatusActive {
		t.Fatalf("status = %s, want active", m.Status)
	}
	if m.Amount != 999 || m.Currency != "usd" {
		t.Fatalf("amount/currency = %d/%s, want 999/usd", m.Amount, m.Currency)
	}
}

func TestSubscriptionChangeReplayIsIdempotent(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeStripeClient{})

	sub := subscriptionEvent("sub_1", "user-1")
	if err := svc.ApplySubscriptionChange(context.Background(), sub); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	first := *repo.byUser["user-1"]

	if err := svc.ApplySubscriptionChange(context.Background(), sub); err != nil {
		t.Fatalf("replay: %v", err)
	}

	second := *repo.byUser["user-1"]
	if first != second {
		t.Fatalf("replayed event changed the row:\nfirst:  %+v\nsecond: %+v",
			first, second)
	}
}

func TestSubscriptionDeletedForcesCanceled(t *testing.T) {
	repo := newFakeRepository()
	m := activeMembership("user-1", "sub_1")
	m.CancelAtPeriodEnd = true
	repo.byUser["user-1"] = m

	svc := newTestService(repo, &fakeStripeClient{})

	err := svc.ApplySubscriptionDeleted(
		context.Background(),
		&stripe.Subscription{ID: "sub_1"},
	)
	if err != nil {
		t.Fatalf("ApplySubscriptionDeleted: %v", err)
	}

	got := repo.byUser["user-1"]
	if got.Status != StatusCanceled {
		t.Fatalf("status = %s, want canceled", got.Status)
	}
	if got.CancelAtPeriodEnd {
		t.Fatal("expected cancel_at_period_end reset to false")
	}
}

func TestSubscriptionDeletedUnknownSubscriptionIsAcknowledged(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeStripeClient{})

	err := svc.ApplySubscriptionDeleted(
		context.Background(),
		&stripe.Subscription{ID: "sub_ghost"},
	)
	if err != nil {
		t.Fatalf("expected unknown subscription to be acknowledged, got %v", err)
	}
}

func TestPaymentFailedMarksPastDue(t *testing.T) {
	repo := newFakeRepository()
	repo.byUser["user-1"] = activeMembership("user-1", "sub_1")
	svc := newTestService(repo, &fakeStripeClient{})

	err := svc.ApplyPaymentFailed(context.Background(), &stripe.Invoice{
		Subscription: &stripe.Subscription{ID: "sub_1"},
	})
	if err != nil {
		t.Fatalf("ApplyPaymentFailed: %v", err)
	}

	if repo.byUser["user-1"].Status != StatusPastDue {
		t.Fatalf("status = %s, want past_due", repo.byUser["user-1"].Status)
	}

	isPro, err := svc.IsPro(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("IsPro: %v", err)
	}
	if isPro {
		t.Fatal("past_due membership must not grant pro access")
	}
}

func TestPaymentSucceededActivatesAndAdvancesPeriod(t *testing.T) {
	repo := newFakeRepository()
	m := activeMembership("user-1", "sub_1")
	m.Status = StatusPastDue
	repo.byUser["user-1"] = m

	svc := newTestService(repo, &fakeStripeClient{})

	periodStart := time.Now().UTC().Truncate(time.Second)
	periodEnd := periodStart.Add(30 * 24 * time.Hour)

	err := svc.ApplyPaymentSucceeded(context.Background(), &stripe.Invoice{
		Subscription: &stripe.Subscription{ID: "sub_1"},
		Lines: &stripe.InvoiceLineItemList{
			Data: []*stripe.InvoiceLineItem{
				{
					Period: &stripe.Period{
						Start: periodStart.Unix(),
						End:   periodEnd.Unix(),
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("ApplyPaymentSucceeded: %v", err)
	}

	got := repo.byUser["user-1"]
	if got.Status != StatusActive {
		t.Fatalf("status = %s, want active", got.Status)
	}
	if !got.CurrentPeriodEnd.Equal(periodEnd) {
		t.Fatalf("period end = %v, want %v", got.CurrentPeriodEnd, periodEnd)
	}
}

func TestCheckoutCompletedSeedsIncompleteRow(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeStripeClient{})

	session := &stripe.CheckoutSession{
		Customer:     &stripe.Customer{ID: "cus_user-1"},
		Subscription: &stripe.Subscription{ID: "sub_1"},
		Metadata: map[string]string{
			"user_id":   "user-1",
			"plan_type": "yearly",
		},
	}

	if err := svc.ApplyCheckoutCompleted(context.Background(), session); err != nil {
		t.Fatalf("ApplyCheckoutCompleted: %v", err)
	}

	m, ok := repo.byUser["user-1"]
	if !ok {
		t.Fatal("expected a seeded membership row")
	}
	if m.Status != StatusIncomplete {
		t.Fatalf("status = %s, want incomplete", m.Status)
	}
	if m.PlanType != PlanYearly {
		t.Fatalf("plan = %s, want yearly", m.PlanType)
	}
	if m.StripeCustomerID != "cus_user-1" {
		t.Fatalf("customer = %s, want cus_user-1", m.StripeCustomerID)
	}
}
