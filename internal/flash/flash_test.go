package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSetThenPop(t *testing.T) {
	rec := httptest.NewRecorder()
	Set(rec, "You must log in to view that page.")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()

	msg := Pop(rec2, req)
	if msg != "You must log in to view that page." {
		t.Errorf("Pop = %q, want the original message", msg)
	}

	// The clearing cookie should expire immediately
	cleared := rec2.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Error("expected Pop to clear the cookie")
	}
}

func TestPopWithoutFlash(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	if msg := Pop(rec, req); msg != "" {
		t.Errorf("Pop = %q, want empty", msg)
	}
}

func TestPopBadEncoding(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "%%%not-base64"})
	rec := httptest.NewRecorder()
	if msg := Pop(rec, req); msg != "" {
		t.Errorf("Pop = %q, want empty for undecodable cookie", msg)
	}
}
