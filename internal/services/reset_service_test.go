package services

import (
	"errors"
	"testing"
	"time"
)

func newUserForReset(t *testing.T, users *UserService) string {
	t.Helper()
	user, err := users.CreateUser("A", "a@x.com", "password1")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	return user.ID
}

func TestIssueAndConsume(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserService(db)
	svc := NewResetService(db)
	userID := newUserForReset(t, users)

	plaintext, record, err := svc.IssueFor(userID)
	if err != nil {
		t.Fatalf("IssueFor error: %v", err)
	}
	if plaintext == "" {
		t.Fatal("expected plaintext token")
	}
	if record.TokenHash == plaintext {
		t.Fatal("stored hash must differ from plaintext")
	}
	if got := time.Until(record.ExpiresAt); got > 31*time.Minute || got < 29*time.Minute {
		t.Fatalf("expiry window off: %v", got)
	}

	gotUserID, err := svc.Consume(plaintext)
	if err != nil {
		t.Fatalf("Consume error: %v", err)
	}
	if gotUserID != userID {
		t.Fatalf("userID mismatch: got %q want %q", gotUserID, userID)
	}
}

func TestConsume_SingleUse(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewResetService(db)
	userID := newUserForReset(t, NewUserService(db))

	plaintext, _, err := svc.IssueFor(userID)
	if err != nil {
		t.Fatalf("IssueFor error: %v", err)
	}

	if _, err := svc.Consume(plaintext); err != nil {
		t.Fatalf("first Consume error: %v", err)
	}
	if _, err := svc.Consume(plaintext); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("second Consume must fail, got %v", err)
	}
}

func TestConsume_UnknownToken(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewResetService(db)

	if _, err := svc.Consume("deadbeef"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
}

func TestConsume_Expired(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewResetService(db)
	userID := newUserForReset(t, NewUserService(db))

	plaintext, _, err := svc.IssueFor(userID)
	if err != nil {
		t.Fatalf("IssueFor error: %v", err)
	}

	// Back-date the record past its deadline.
	if _, err := db.Exec("UPDATE reset_tokens SET expires_at = ? WHERE user_id = ?", time.Now().UTC().Add(-time.Minute), userID); err != nil {
		t.Fatalf("back-date token: %v", err)
	}

	if _, err := svc.Consume(plaintext); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expired token must be rejected even with matching hash, got %v", err)
	}
}

func TestIssueFor_ReplacesPriorToken(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewResetService(db)
	userID := newUserForReset(t, NewUserService(db))

	first, _, err := svc.IssueFor(userID)
	if err != nil {
		t.Fatalf("first IssueFor error: %v", err)
	}
	second, _, err := svc.IssueFor(userID)
	if err != nil {
		t.Fatalf("second IssueFor error: %v", err)
	}

	if _, err := svc.Consume(first); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("first token must be unusable after reissue, got %v", err)
	}
	if _, err := svc.Consume(second); err != nil {
		t.Fatalf("second token must work: %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewResetService(db)
	userID := newUserForReset(t, NewUserService(db))

	if _, _, err := svc.IssueFor(userID); err != nil {
		t.Fatalf("IssueFor error: %v", err)
	}
	if _, err := db.Exec("UPDATE reset_tokens SET expires_at = ? WHERE user_id = ?", time.Now().UTC().Add(-time.Minute), userID); err != nil {
		t.Fatalf("back-date token: %v", err)
	}

	purged, err := svc.PurgeExpired()
	if err != nil {
		t.Fatalf("PurgeExpired error: %v", err)
	}
	if purged != 1 {
		t.Fatalf("purged: got %d want 1", purged)
	}
}
