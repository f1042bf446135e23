// AngelaMos | 2026
// pro.go

package middleware

import (
	"context"
	"net/http"

	"github.com/querystack/querystack/internal/core"
)

type ProChecker interface {
	IsPro(ctx context.Context, userID string) (bool, error)
}

// RequirePro gates a route on an active, unexpired pro membership. The
// check runs against the membership store on every request; a membership
// can lapse between renewals, so nothing cached in the token is trusted.
func RequirePro(checker ProChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			isPro, err := checker.IsPro(r.Context(), userID)
			if err != nil {
				core.InternalServerError(w, err)
				return
			}

			if !isPro {
				core.JSONError(
					w,
					core.ForbiddenError("pro membership required"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
