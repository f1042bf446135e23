// AngelaMos | 2026
// dto.go

package billing

import "time"

type CheckoutRequest struct {
	PlanType string `json:"plan_type" validate:"required,oneof=monthly yearly"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type PortalRequest struct {
	ReturnURL string `json:"return_url" validate:"omitempty,url"`
}

type PortalResponse struct {
	URL string `json:"url"`
}

type MembershipResponse struct {
	Status             string    `json:"status"`
	PlanType           string    `json:"plan_type"`
	IsPro              bool      `json:"is_pro"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CancelAtPeriodEnd  bool      `json:"cancel_at_period_end"`
	Amount             int64     `json:"amount"`
	Currency           string    `json:"currency"`
}

func ToMembershipResponse(m *ProMembership, isPro bool) MembershipResponse {
	return MembershipResponse{
		Status:             string(m.Status),
		PlanType:           string(m.PlanType),
		IsPro:              isPro,
		CurrentPeriodStart: m.CurrentPeriodStart,
		CurrentPeriodEnd:   m.CurrentPeriodEnd,
		CancelAtPeriodEnd:  m.CancelAtPeriodEnd,
		Amount:             m.Amount,
		Currency:           m.Currency,
	}
}
