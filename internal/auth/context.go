package auth

import (
	"context"

	"github.com/kalamantia/larder/internal/model"
)

type userKey struct{}
type pantryKey struct{}

// AuthContext carries the identity resolved from the session cookie.
type AuthContext struct {
	UserID    int64
	Email     string
	Name      string
	SessionID int64
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, userKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(userKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

// WithPantry stores the pantry resolved by the authorization guard so
// handlers do not re-fetch or re-check it.
func WithPantry(ctx context.Context, p model.Pantry) context.Context {
	return context.WithValue(ctx, pantryKey{}, p)
}

func PantryFromContext(ctx context.Context) (model.Pantry, bool) {
	p, ok := ctx.Value(pantryKey{}).(model.Pantry)
	return p, ok
}
