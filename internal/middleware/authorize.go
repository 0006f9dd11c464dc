package middleware

import (
	"net/http"
	"strconv"

	"github.com/kalamantia/larder/internal/auth"
	"github.com/kalamantia/larder/internal/flash"
	"github.com/kalamantia/larder/internal/model"
	"github.com/kalamantia/larder/internal/store"
)

// Decision is the outcome of an authorization check for one
// (user, pantry) pair.
type Decision int

const (
	Authorized Decision = iota
	NotFound
	Forbidden
)

// Authorize decides whether the user may act on the pantry: the pantry
// must exist and be in the user's authorized set (owned or shared).
// It is a pure decision; callers render the redirects.
func Authorize(cat store.Catalog, userID, pantryID int64) (Decision, *model.Pantry, error) {
	pantry, err := cat.GetPantry(pantryID)
	if err != nil {
		return Forbidden, nil, err
	}
	if pantry == nil {
		return NotFound, nil, nil
	}
	authorized, err := cat.AuthorizedPantries(userID)
	if err != nil {
		return Forbidden, nil, err
	}
	for _, p := range authorized {
		if p.ID == pantryID {
			return Authorized, pantry, nil
		}
	}
	return Forbidden, nil, nil
}

// RequirePantry guards pantry-scoped routes. It resolves {pantry_id}
// from the path, runs Authorize for the authenticated user, and on
// success stores the pantry in the request context. Runs inside
// RequireAuth.
func RequirePantry(cat store.Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, ok := auth.FromContext(r.Context())
			if !ok {
				redirectToLogin(w, r)
				return
			}

			pantryID, err := strconv.ParseInt(r.PathValue("pantry_id"), 10, 64)
			if err != nil {
				http.NotFound(w, r)
				return
			}

			decision, pantry, err := Authorize(cat, ac.UserID, pantryID)
			if err != nil {
				http.Error(w, "Internal error", http.StatusInternalServerError)
				return
			}
			switch decision {
			case NotFound:
				http.NotFound(w, r)
			case Forbidden:
				flash.Set(w, "You do not have access to that page.")
				http.Redirect(w, r, "/pantry/", http.StatusSeeOther)
			default:
				ctx := auth.WithPantry(r.Context(), *pantry)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}
