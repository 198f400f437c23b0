package middleware

import (
	"net/http"

	"github.com/givemapp/givem/internal/session"
)

// RequireAuth is the authentication gate. It verifies the signed session
// cookie without touching storage; requests with no identity are sent to
// the login route and never reach the handler.
func RequireAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sessions.UserID(r)
			if userID == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := session.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
