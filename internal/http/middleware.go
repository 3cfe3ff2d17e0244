package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
)

// MockAuthMiddleware simulates the hosted identity provider (replace with
// real session validation). It resolves the member id and tier into the
// request context; the core only ever reads the resolved tier.
func MockAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// In production: validate the session token from the Authorization
		// header and read the member's id and tier from the identity service.
		userID := r.Header.Get("X-User-ID")
		tier := domain.Tier(r.Header.Get("X-Member-Tier"))
		if tier == "" {
			tier = domain.TierGuest
		}

		ctx := context.WithValue(r.Context(), "user_id", userID)
		ctx = context.WithValue(ctx, "member_tier", tier)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), "request_id", requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getUserIDFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value("user_id").(string); ok {
		return userID
	}
	return ""
}

func getTierFromContext(ctx context.Context) domain.Tier {
	if tier, ok := ctx.Value("member_tier").(domain.Tier); ok {
		return tier
	}
	return domain.TierGuest
}
