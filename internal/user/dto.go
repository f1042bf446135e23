// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty"          validate:"omitempty,min=1,max=100"`
	Bio          *string `json:"bio,omitempty"           validate:"omitempty,max=1000"`
	Image        *string `json:"image,omitempty"         validate:"omitempty,url,max=500"`
	Location     *string `json:"location,omitempty"      validate:"omitempty,max=100"`
	PortfolioURL *string `json:"portfolio_url,omitempty" validate:"omitempty,url,max=500"`
}

type ProfileResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio,omitempty"`
	Image        string    `json:"image,omitempty"`
	Location     string    `json:"location,omitempty"`
	PortfolioURL string    `json:"portfolio_url,omitempty"`
	Reputation   int       `json:"reputation"`
	CreatedAt    time.Time `json:"created_at"`
}

// OwnProfileResponse additionally exposes the email, only ever returned
// to the account holder.
type OwnProfileResponse struct {
	ProfileResponse
	Email string `json:"email"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Sort     string `json:"sort"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	if p.Sort != SortReputation && p.Sort != SortNewest {
		p.Sort = SortReputation
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

const (
	SortReputation = "reputation"
	SortNewest     = "newest"
)

func ToProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Bio:          u.Bio,
		Image:        u.Image,
		Location:     u.Location,
		PortfolioURL: u.PortfolioURL,
		Reputation:   u.Reputation,
		CreatedAt:    u.CreatedAt,
	}
}

func ToOwnProfileResponse(u *User) OwnProfileResponse {
	return OwnProfileResponse{
		ProfileResponse: ToProfileResponse(u),
		Email:           u.Email,
	}
}

func ToProfileResponseList(users []User) []ProfileResponse {
	responses := make([]ProfileResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToProfileResponse(&u))
	}
	return responses
}
