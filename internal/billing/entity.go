// AngelaMos | 2026
// entity.go

package billing

import (
	"time"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusCanceled   Status = "canceled"
	StatusPastDue    Status = "past_due"
	StatusUnpaid     Status = "unpaid"
	StatusIncomplete Status = "incomplete"
)

type PlanType string

const (
	PlanMonthly PlanType = "monthly"
	PlanYearly  PlanType = "yearly"
)

func (p PlanType) Valid() bool {
	return p == PlanMonthly || p == PlanYearly
}

type ProMembership struct {
	ID                   string    `db:"id"`
	UserID               string    `db:"user_id"`
	StripeCustomerID     string    `db:"stripe_customer_id"`
	StripeSubscriptionID *string   `db:"stripe_subscription_id"`
	StripePriceID        string    `db:"stripe_price_id"`
	Status               Status    `db:"status"`
	CurrentPeriodStart   time.Time `db:"current_period_start"`
	CurrentPeriodEnd     time.Time `db:"current_period_end"`
	CancelAtPeriodEnd    bool      `db:"cancel_at_period_end"`
	PlanType             PlanType  `db:"plan_type"`
	Amount               int64     `db:"amount"`
	Currency             string    `db:"currency"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

// IsPro reports whether the membership grants pro access right now. A
// membership past its paid period is not pro regardless of status.
func (m *ProMembership) IsPro(now time.Time) bool {
	return m.Status == StatusActive && m.CurrentPeriodEnd.After(now)
}
