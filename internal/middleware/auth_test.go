package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kalamantia/larder/internal/auth"
	"github.com/kalamantia/larder/internal/database"
	"github.com/kalamantia/larder/internal/store"
)

func newTestStores(t *testing.T) (store.Catalog, *store.SessionStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewSQLCatalog(db), store.NewSessionStore(db)
}

func TestRequireAuthNoCookie(t *testing.T) {
	cat, sessions := newTestStores(t)

	handler := RequireAuth(sessions, cat)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called without a session")
	}))

	req := httptest.NewRequest("GET", "/pantry/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	cat, sessions := newTestStores(t)

	handler := RequireAuth(sessions, cat)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called with a bogus token")
	}))

	req := httptest.NewRequest("GET", "/pantry/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "bogus"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestRequireAuthValidSession(t *testing.T) {
	cat, sessions := newTestStores(t)

	user, err := cat.CreateUser("Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	sess, err := sessions.Create(user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var got auth.AuthContext
	handler := RequireAuth(sessions, cat)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("auth context missing")
		}
		got = ac
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/pantry/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.UserID != user.ID || got.Email != "ada@example.com" {
		t.Errorf("auth context = %+v, want user %d", got, user.ID)
	}
}
