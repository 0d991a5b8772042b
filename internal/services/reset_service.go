package services

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/Thonzy/Inventory-App/internal/models"
)

// resetTokenTTL is how long a reset token stays usable.
const resetTokenTTL = 30 * time.Minute

// ErrResetTokenInvalid covers unknown, expired and already-used tokens.
var ErrResetTokenInvalid = errors.New("invalid or expired reset token")

// ResetServiceProvider defines the interface for password reset tokens.
type ResetServiceProvider interface {
	IssueFor(userID string) (string, models.ResetToken, error)
	Consume(plaintext string) (string, error)
	PurgeExpired() (int64, error)
}

// ResetService mints and consumes single-use password reset tokens.
// Tokens are stored hashed; the plaintext exists only in the issuing
// response and the email it is delivered in.
type ResetService struct {
	db *sql.DB
}

// NewResetService creates a new ResetService.
func NewResetService(db *sql.DB) *ResetService {
	return &ResetService{db: db}
}

// IssueFor generates a fresh token for a user, replacing any prior one.
// Returns the plaintext token for out-of-band delivery alongside the
// stored record.
func (s *ResetService) IssueFor(userID string) (string, models.ResetToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", models.ResetToken{}, err
	}
	plaintext := hex.EncodeToString(raw)

	now := time.Now().UTC()
	record := models.ResetToken{
		UserID:    userID,
		TokenHash: hashToken(plaintext),
		CreatedAt: now,
		ExpiresAt: now.Add(resetTokenTTL),
	}

	// user_id is the primary key, so the upsert enforces at most one
	// live token per user even under concurrent requests.
	_, err := s.db.Exec(`
		INSERT INTO reset_tokens (user_id, token_hash, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			token_hash = excluded.token_hash,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		record.UserID, record.TokenHash, record.CreatedAt, record.ExpiresAt)
	if err != nil {
		return "", models.ResetToken{}, err
	}
	return plaintext, record, nil
}

// Consume validates a presented token and deletes its record, returning
// the owning user ID. A token authorizes exactly one reset: the delete
// happens in the same call as the validation.
func (s *ResetService) Consume(plaintext string) (string, error) {
	hash := hashToken(plaintext)

	var userID string
	var expiresAt time.Time
	err := s.db.QueryRow("SELECT user_id, expires_at FROM reset_tokens WHERE token_hash = ?", hash).Scan(&userID, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrResetTokenInvalid
		}
		return "", err
	}

	if time.Now().UTC().After(expiresAt) {
		return "", ErrResetTokenInvalid
	}

	if _, err := s.db.Exec("DELETE FROM reset_tokens WHERE token_hash = ?", hash); err != nil {
		return "", err
	}
	return userID, nil
}

// PurgeExpired removes tokens past their expiry, returning how many.
func (s *ResetService) PurgeExpired() (int64, error) {
	res, err := s.db.Exec("DELETE FROM reset_tokens WHERE expires_at < ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func hashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
