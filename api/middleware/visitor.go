package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danhewitt/motorline-backend/pkg/logger"
)

const (
	// SourceCookieName carries the anonymous visitor identifier that keys
	// the favourites set and links leads to their browsing session.
	SourceCookieName = "ml_source_id"

	sourceCookieMaxAge = 365 * 24 * time.Hour
)

// Visitor ensures every public request carries a source id. Missing or
// blank cookies get a fresh uuid, re-issued on the response.
func Visitor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sourceID := ""
			if cookie, err := r.Cookie(SourceCookieName); err == nil {
				sourceID = strings.TrimSpace(cookie.Value)
			}
			if sourceID == "" {
				sourceID = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     SourceCookieName,
				Value:    sourceID,
				Path:     "/",
				MaxAge:   int(sourceCookieMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), ctxSourceID, sourceID)
			if logg != nil {
				ctx = logg.WithSourceID(ctx, sourceID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
