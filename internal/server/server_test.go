package server

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/kalamantia/larder/internal/database"
	"github.com/kalamantia/larder/internal/oauth"
	"github.com/kalamantia/larder/internal/store"
)

type fixture struct {
	router   http.Handler
	db       *sql.DB
	cat      store.Catalog
	sessions *store.SessionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(db, oauth.Config{}, logger)
	return &fixture{
		router:   srv.Router(),
		db:       db,
		cat:      store.NewSQLCatalog(db),
		sessions: store.NewSessionStore(db),
	}
}

// login creates a user and an active session, returning the user id and
// the session cookie.
func (f *fixture) login(t *testing.T, name, email string) (int64, *http.Cookie) {
	t.Helper()
	user, err := f.cat.CreateUser(name, email)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	sess, err := f.sessions.Create(user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return user.ID, &http.Cookie{Name: "larder_session", Value: sess.Token}
}

func (f *fixture) get(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) postForm(t *testing.T, path string, cookie *http.Cookie, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.get(t, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/", "/pantry/", "/pantry/1/", "/shares/"} {
		rec := f.get(t, path, nil)
		if rec.Code != http.StatusSeeOther {
			t.Errorf("GET %s: status = %d, want 303", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Errorf("GET %s: Location = %q, want /login", path, loc)
		}
	}
}

func TestPantryCreateAndList(t *testing.T) {
	f := newFixture(t)
	_, cookie := f.login(t, "Ada", "ada@example.com")

	rec := f.postForm(t, "/pantry/add/", cookie, url.Values{"name": {"Kitchen"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create: status = %d, want 303, body %s", rec.Code, rec.Body.String())
	}

	rec = f.get(t, "/pantry/", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("index: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Kitchen") {
		t.Error("index should list the new pantry")
	}

	rec = f.get(t, "/pantry/json/", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("json: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"name":"Kitchen"`) {
		t.Errorf("json body = %s", rec.Body.String())
	}
}

func TestPantryDuplicateRerendersForm(t *testing.T) {
	f := newFixture(t)
	_, cookie := f.login(t, "Ada", "ada@example.com")

	f.postForm(t, "/pantry/add/", cookie, url.Values{"name": {"Kitchen"}})
	rec := f.postForm(t, "/pantry/add/", cookie, url.Values{"name": {"Kitchen"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate: status = %d, want 200 re-rendered form", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "You already have a pantry with that name. Please choose another.") {
		t.Errorf("body should carry the duplicate message, got %s", rec.Body.String())
	}
}

func TestPantryAuthorizationGuard(t *testing.T) {
	f := newFixture(t)
	_, ownerCookie := f.login(t, "Ada", "ada@example.com")
	_, otherCookie := f.login(t, "Eve", "eve@example.com")

	f.postForm(t, "/pantry/add/", ownerCookie, url.Values{"name": {"Kitchen"}})

	rec := f.get(t, "/pantry/1/", otherCookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("outsider: status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/pantry/" {
		t.Errorf("outsider Location = %q, want /pantry/", loc)
	}

	rec = f.get(t, "/pantry/999/", ownerCookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing pantry: status = %d, want 404", rec.Code)
	}

	rec = f.get(t, "/pantry/1/", ownerCookie)
	if rec.Code != http.StatusOK {
		t.Errorf("owner: status = %d, want 200", rec.Code)
	}
}

func TestOwnerOnlyPantryEdit(t *testing.T) {
	f := newFixture(t)
	_, ownerCookie := f.login(t, "Ada", "ada@example.com")
	otherID, otherCookie := f.login(t, "Bob", "bob@example.com")

	f.postForm(t, "/pantry/add/", ownerCookie, url.Values{"name": {"Kitchen"}})
	if err := f.cat.SharePantry(1, otherID); err != nil {
		t.Fatalf("share: %v", err)
	}

	// Shared user can view
	if rec := f.get(t, "/pantry/1/", otherCookie); rec.Code != http.StatusOK {
		t.Errorf("shared view: status = %d, want 200", rec.Code)
	}
	// but cannot edit or delete
	if rec := f.get(t, "/pantry/1/edit/", otherCookie); rec.Code != http.StatusSeeOther {
		t.Errorf("shared edit: status = %d, want 303", rec.Code)
	}
	if rec := f.postForm(t, "/pantry/1/delete/", otherCookie, nil); rec.Code != http.StatusSeeOther {
		t.Errorf("shared delete: status = %d, want 303", rec.Code)
	}
	if p, _ := f.cat.GetPantry(1); p == nil {
		t.Fatal("pantry should survive a non-owner delete attempt")
	}
}

func TestCategoryAndItemFlow(t *testing.T) {
	f := newFixture(t)
	_, cookie := f.login(t, "Ada", "ada@example.com")

	f.postForm(t, "/pantry/add/", cookie, url.Values{"name": {"Kitchen"}})
	rec := f.postForm(t, "/pantry/1/category/add/", cookie, url.Values{"name": {"spices"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create category: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = f.postForm(t, "/pantry/1/category/1/item/add/", cookie, url.Values{
		"name":        {"salt"},
		"description": {"fine grained"},
		"quantity":    {"3"},
		"price":       {"1.50"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create item: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = f.get(t, "/pantry/1/category/1/", cookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "salt") {
		t.Errorf("item index: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = f.get(t, "/pantry/1/category/1/item/1/json/", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("item json: status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"name":"salt"`) || !strings.Contains(body, `"quantity":3`) {
		t.Errorf("item json body = %s", body)
	}
}

func TestCategoryPathIsPinnedToPantry(t *testing.T) {
	f := newFixture(t)
	_, cookie := f.login(t, "Ada", "ada@example.com")

	f.postForm(t, "/pantry/add/", cookie, url.Values{"name": {"One"}})
	f.postForm(t, "/pantry/add/", cookie, url.Values{"name": {"Two"}})
	f.postForm(t, "/pantry/1/category/add/", cookie, url.Values{"name": {"spices"}})

	// Category 1 belongs to pantry 1; reaching it through pantry 2 is a 404
	rec := f.get(t, "/pantry/2/category/1/", cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-pantry category: status = %d, want 404", rec.Code)
	}
}

func TestShareRequestFlow(t *testing.T) {
	f := newFixture(t)
	_, ownerCookie := f.login(t, "Ada", "ada@example.com")
	recipientID, recipientCookie := f.login(t, "Bob", "bob@example.com")

	f.postForm(t, "/pantry/add/", ownerCookie, url.Values{"name": {"Kitchen"}})

	rec := f.postForm(t, "/pantry/1/share/", ownerCookie, url.Values{"email": {"bob@example.com"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("send share: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = f.get(t, "/shares/", recipientCookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Kitchen") {
		t.Fatalf("shares page: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = f.postForm(t, "/shares/1/accept", recipientCookie, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("accept: status = %d", rec.Code)
	}

	pantries, err := f.cat.AuthorizedPantries(recipientID)
	if err != nil {
		t.Fatalf("authorized pantries: %v", err)
	}
	if len(pantries) != 1 || pantries[0].Name != "Kitchen" {
		t.Errorf("recipient authorized = %v, want Kitchen", pantries)
	}
	if req, _ := f.cat.GetShareRequest(1); req != nil {
		t.Error("share request should be removed after accept")
	}
}

func TestShareSendUnknownEmail(t *testing.T) {
	f := newFixture(t)
	_, cookie := f.login(t, "Ada", "ada@example.com")
	f.postForm(t, "/pantry/add/", cookie, url.Values{"name": {"Kitchen"}})

	rec := f.postForm(t, "/pantry/1/share/", cookie, url.Values{"email": {"ghost@example.com"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want re-rendered form", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No user with that email address.") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestShareAcceptWrongRecipient(t *testing.T) {
	f := newFixture(t)
	_, ownerCookie := f.login(t, "Ada", "ada@example.com")
	f.login(t, "Bob", "bob@example.com")
	_, eveCookie := f.login(t, "Eve", "eve@example.com")

	f.postForm(t, "/pantry/add/", ownerCookie, url.Values{"name": {"Kitchen"}})
	f.postForm(t, "/pantry/1/share/", ownerCookie, url.Values{"email": {"bob@example.com"}})

	rec := f.postForm(t, "/shares/1/accept", eveCookie, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect away", rec.Code)
	}
	if req, _ := f.cat.GetShareRequest(1); req == nil {
		t.Error("request should survive a third party's accept attempt")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	f := newFixture(t)
	_, cookie := f.login(t, "Ada", "ada@example.com")

	rec := f.postForm(t, "/logout", cookie, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("logout: status = %d", rec.Code)
	}

	rec = f.get(t, "/pantry/", cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("after logout: status = %d Location = %q, want login redirect", rec.Code, rec.Header().Get("Location"))
	}
}
