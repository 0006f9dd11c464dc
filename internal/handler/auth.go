package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/kalamantia/larder/internal/auth"
	"github.com/kalamantia/larder/internal/flash"
)

const (
	sessionCookieName = "larder_session"
	stateCookieName   = "larder_oauth_state"
)

// LoginPage renders the sign-in page with any pending notice.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", map[string]any{
		"Title":  "Sign in",
		"Notice": flash.Pop(w, r),
	})
}

// GoogleLogin starts the OAuth code flow. The CSRF state is pinned in a
// short-lived cookie and checked in the callback.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	state := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusSeeOther)
}

// GoogleCallback finishes the code flow: verifies the state, exchanges
// the code for identity claims, finds or creates the user, and opens a
// browser session.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != r.FormValue("state") {
		h.failLogin(w, r, "state mismatch", err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Path: "/", MaxAge: -1})

	code := r.FormValue("code")
	if code == "" {
		h.failLogin(w, r, "missing code", nil)
		return
	}

	claims, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.failLogin(w, r, "code exchange", err)
		return
	}

	user, err := h.cat.GetUserByEmail(claims.Email)
	if err != nil {
		h.failLogin(w, r, "lookup user", err)
		return
	}
	if user == nil {
		user, err = h.cat.CreateUser(claims.Name, claims.Email)
		if err != nil {
			h.failLogin(w, r, "create user", err)
			return
		}
	}

	sess, err := h.sessions.Create(user.ID)
	if err != nil {
		h.failLogin(w, r, "create session", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Info("user logged in", "user_id", user.ID, "email", user.Email)
	http.Redirect(w, r, "/pantry/", http.StatusSeeOther)
}

func (h *Handler) failLogin(w http.ResponseWriter, r *http.Request, step string, err error) {
	h.logger.Warn("login failed", "step", step, "error", err)
	flash.Set(w, "Sign-in failed. Please try again.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout deletes the current session and clears the cookie. Runs behind
// RequireAuth.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok {
		if err := h.sessions.Delete(ac.SessionID); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
