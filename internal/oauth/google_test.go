package oauth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
)

// makeIDToken builds an unsigned JWT with the given claims.
func makeIDToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return header + "." + body + "."
}

func TestParseIDToken(t *testing.T) {
	raw := makeIDToken(t, map[string]any{
		"email": "ada@example.com",
		"name":  "Ada Lovelace",
	})

	claims, err := ParseIDToken(raw)
	if err != nil {
		t.Fatalf("ParseIDToken: %v", err)
	}
	if claims.Email != "ada@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Name != "Ada Lovelace" {
		t.Errorf("Name = %q", claims.Name)
	}
}

func TestParseIDTokenNameFallsBackToEmail(t *testing.T) {
	raw := makeIDToken(t, map[string]any{"email": "ada@example.com"})

	claims, err := ParseIDToken(raw)
	if err != nil {
		t.Fatalf("ParseIDToken: %v", err)
	}
	if claims.Name != "ada@example.com" {
		t.Errorf("Name = %q, want the email fallback", claims.Name)
	}
}

func TestParseIDTokenMissingEmail(t *testing.T) {
	raw := makeIDToken(t, map[string]any{"name": "No Email"})
	if _, err := ParseIDToken(raw); err == nil {
		t.Fatal("expected error for a token without an email claim")
	}
}

func TestParseIDTokenGarbage(t *testing.T) {
	if _, err := ParseIDToken("not.a.jwt"); err == nil {
		t.Fatal("expected error for an undecodable token")
	}
}

func TestAuthCodeURL(t *testing.T) {
	c := NewClient(Config{
		ClientID:    "client-id",
		RedirectURL: "https://larder.example.com/login/google/callback",
	})

	url := c.AuthCodeURL("state-token")
	if !strings.HasPrefix(url, "https://accounts.google.com/o/oauth2/auth") {
		t.Errorf("url = %q, want the Google auth endpoint", url)
	}
	if !strings.Contains(url, "state=state-token") {
		t.Errorf("url = %q, want the state parameter", url)
	}
	if !strings.Contains(url, "client_id=client-id") {
		t.Errorf("url = %q, want the client id", url)
	}
}
