package auth

import (
	"context"
	"testing"

	"github.com/kalamantia/larder/internal/model"
)

func TestAuthContextRoundTrip(t *testing.T) {
	ac := AuthContext{UserID: 7, Email: "a@example.com", Name: "A", SessionID: 3}
	ctx := WithAuth(context.Background(), ac)

	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext present")
	}
	if got != ac {
		t.Errorf("got %+v, want %+v", got, ac)
	}
	if UserID(ctx) != 7 {
		t.Errorf("UserID = %d, want 7", UserID(ctx))
	}
}

func TestFromContextMissing(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no AuthContext on empty context")
	}
	if UserID(context.Background()) != 0 {
		t.Error("UserID on empty context should be 0")
	}
}

func TestPantryContextRoundTrip(t *testing.T) {
	p := model.Pantry{ID: 2, Name: "Pantry_B", OwnerID: 1}
	ctx := WithPantry(context.Background(), p)

	got, ok := PantryFromContext(ctx)
	if !ok {
		t.Fatal("expected pantry present")
	}
	if got.ID != 2 || got.Name != "Pantry_B" {
		t.Errorf("got %+v, want %+v", got, p)
	}

	if _, ok := PantryFromContext(context.Background()); ok {
		t.Error("expected no pantry on empty context")
	}
}
