package store

import (
	"testing"

	"github.com/kalamantia/larder/internal/database"
)

func newSessionFixture(t *testing.T) (*SessionStore, Catalog) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db), NewSQLCatalog(db)
}

func TestSessionCreateAndGet(t *testing.T) {
	sessions, cat := newSessionFixture(t)

	user, err := cat.CreateUser("A", "a@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	sess, err := sessions.Create(user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(sess.Token))
	}

	got, err := sessions.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.UserID != user.ID {
		t.Errorf("session = %+v, want user %d", got, user.ID)
	}
}

func TestSessionUnknownToken(t *testing.T) {
	sessions, _ := newSessionFixture(t)

	got, err := sessions.GetByToken("deadbeef")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Errorf("session = %+v, want nil", got)
	}
}

func TestSessionDelete(t *testing.T) {
	sessions, cat := newSessionFixture(t)

	user, _ := cat.CreateUser("A", "a@example.com")
	sess, err := sessions.Create(user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := sessions.Delete(sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if got, _ := sessions.GetByToken(sess.Token); got != nil {
		t.Error("session should be gone after delete")
	}
}

func TestSessionsCascadeWithUser(t *testing.T) {
	sessions, cat := newSessionFixture(t)

	user, _ := cat.CreateUser("A", "a@example.com")
	sess, err := sessions.Create(user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := cat.DeleteUser(user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if got, _ := sessions.GetByToken(sess.Token); got != nil {
		t.Error("session should cascade away with its user")
	}
}
