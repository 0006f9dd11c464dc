package middleware

import (
	"net/http"

	"github.com/kalamantia/larder/internal/auth"
	"github.com/kalamantia/larder/internal/flash"
	"github.com/kalamantia/larder/internal/store"
)

const sessionCookieName = "larder_session"

// RequireAuth validates the session cookie, resolves the user record,
// and populates AuthContext. Anything less redirects to the login page
// with a one-time notice.
func RequireAuth(sessions *store.SessionStore, cat store.Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r)
				return
			}

			sess, err := sessions.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				redirectToLogin(w, r)
				return
			}

			user, err := cat.GetUser(sess.UserID)
			if err != nil || user == nil {
				redirectToLogin(w, r)
				return
			}

			ac := auth.AuthContext{
				UserID:    user.ID,
				Email:     user.Email,
				Name:      user.Name,
				SessionID: sess.ID,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	flash.Set(w, "You must log in to view that page.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
