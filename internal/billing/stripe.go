// AngelaMos | 2026
// stripe.go

package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// StripeClient is the slice of the Stripe API the billing service calls.
// The webhook path never needs it; event payloads carry everything.
type StripeClient interface {
	CreateCustomer(ctx context.Context, email, userID string) (string, error)
	CreateCheckoutSession(
		ctx context.Context,
		customerID, priceID, userID string,
		planType PlanType,
		successURL, cancelURL string,
	) (string, error)
	CreatePortalSession(
		ctx context.Context,
		customerID, returnURL string,
	) (string, error)
	SetCancelAtPeriodEnd(
		ctx context.Context,
		subscriptionID string,
		cancel bool,
	) error
}

type stripeClient struct {
	api *client.API
}

func NewStripeClient(secretKey string) StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeClient{api: api}
}

func (c *stripeClient) CreateCustomer(
	ctx context.Context,
	email, userID string,
) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata("user_id", userID)

	customer, err := c.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe customer: %w", err)
	}

	return customer.ID, nil
}

func (c *stripeClient) CreateCheckoutSession(
	ctx context.Context,
	customerID, priceID, userID string,
	planType PlanType,
	successURL, cancelURL string,
) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:   stripe.String(customerID),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id":   userID,
				"plan_type": string(planType),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("user_id", userID)
	params.AddMetadata("plan_type", string(planType))

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	return session.URL, nil
}

func (c *stripeClient) CreatePortalSession(
	ctx context.Context,
	customerID, returnURL string,
) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	session, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}

	return session.URL, nil
}

func (c *stripeClient) SetCancelAtPeriodEnd(
	ctx context.Context,
	subscriptionID string,
	cancel bool,
) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(cancel),
	}
	params.Context = ctx

	if _, err := c.api.Subscriptions.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	return nil
}
