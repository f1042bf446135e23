// AngelaMos | 2026
// repository.go

package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/querystack/querystack/internal/core"
)

const membershipColumns = `
	id, user_id, stripe_customer_id, stripe_subscription_id, stripe_price_id,
	status, current_period_start, current_period_end, cancel_at_period_end,
	plan_type, amount, currency, created_at, updated_at`

// MembershipUpdate is a partial, field-level update applied by webhook
// handlers. Nil fields are left untouched, which is what makes replayed
// events idempotent.
type MembershipUpdate struct {
	StripeSubscriptionID *string
	StripePriceID        *string
	Status               *Status
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    *bool
	PlanType             *PlanType
	Amount               *int64
	Currency             *string
}

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*ProMembership, error)
	GetBySubscriptionID(
		ctx context.Context,
		subscriptionID string,
	) (*ProMembership, error)
	Upsert(ctx context.Context, membership *ProMembership) error
	UpdateByUserID(
		ctx context.Context,
		userID string,
		update MembershipUpdate,
	) error
	UpdateBySubscriptionID(
		ctx context.Context,
		subscriptionID string,
		update MembershipUpdate,
	) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(
	ctx context.Context,
	userID string,
) (*ProMembership, error) {
	query := `SELECT ` + membershipColumns + `
		FROM pro_memberships WHERE user_id = $1`

	var membership ProMembership
	err := r.db.GetContext(ctx, &membership, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get membership: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}

	return &membership, nil
}

func (r *repository) GetBySubscriptionID(
	ctx context.Context,
	subscriptionID string,
) (*ProMembership, error) {
	query := `SELECT ` + membershipColumns + `
		FROM pro_memberships WHERE stripe_subscription_id = $1`

	var membership ProMembership
	err := r.db.GetContext(ctx, &membership, query, subscriptionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get membership: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}

	return &membership, nil
}

// Upsert inserts the membership or refreshes the existing row for the
// user. One membership row per user, ever; Stripe identifiers move onto
// it as subscriptions come and go.
func (r *repository) Upsert(
	ctx context.Context,
	membership *ProMembership,
) error {
	query := `
		INSERT INTO pro_memberships (
			id, user_id, stripe_customer_id, stripe_subscription_id,
			stripe_price_id, status, current_period_start, current_period_end,
			cancel_at_period_end, plan_type, amount, currency
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (user_id) DO UPDATE SET
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			stripe_price_id = EXCLUDED.stripe_price_id,
			status = EXCLUDED.status,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			plan_type = EXCLUDED.plan_type,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		membership.ID,
		membership.UserID,
		membership.StripeCustomerID,
		membership.StripeSubscriptionID,
		membership.StripePriceID,
		membership.Status,
		membership.CurrentPeriodStart,
		membership.CurrentPeriodEnd,
		membership.CancelAtPeriodEnd,
		membership.PlanType,
		membership.Amount,
		membership.Currency,
	).Scan(&membership.CreatedAt, &membership.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}

	return nil
}

func (r *repository) UpdateByUserID(
	ctx context.Context,
	userID string,
	update MembershipUpdate,
) error {
	return r.update(ctx, "user_id", userID, update)
}

func (r *repository) UpdateBySubscriptionID(
	ctx context.Context,
	subscriptionID string,
	update MembershipUpdate,
) error {
	return r.update(ctx, "stripe_subscription_id", subscriptionID, update)
}

func (r *repository) update(
	ctx context.Context,
	keyColumn, keyValue string,
	update MembershipUpdate,
) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{keyValue}
	argIdx := 2

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if update.StripeSubscriptionID != nil {
		addSet("stripe_subscription_id", *update.StripeSubscriptionID)
	}
	if update.StripePriceID != nil {
		addSet("stripe_price_id", *update.StripePriceID)
	}
	if update.Status != nil {
		addSet("status", *update.Status)
	}
	if update.CurrentPeriodStart != nil {
		addSet("current_period_start", *update.CurrentPeriodStart)
	}
	if update.CurrentPeriodEnd != nil {
		addSet("current_period_end", *update.CurrentPeriodEnd)
	}
	if update.CancelAtPeriodEnd != nil {
		addSet("cancel_at_period_end", *update.CancelAtPeriodEnd)
	}
	if update.PlanType != nil {
		addSet("plan_type", *update.PlanType)
	}
	if update.Amount != nil {
		addSet("amount", *update.Amount)
	}
	if update.Currency != nil {
		addSet("currency", *update.Currency)
	}

	query := fmt.Sprintf(
		"UPDATE pro_memberships SET %s WHERE %s = $1",
		strings.Join(sets, ", "),
		keyColumn,
	)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update membership: %w", core.ErrNotFound)
	}

	return nil
}
