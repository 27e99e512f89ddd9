package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
)

// passwordChangedEpsilon is subtracted from the recorded change time so a
// session token issued immediately after the write is still judged fresh
// despite persistence latency and second-granularity JWT timestamps.
const passwordChangedEpsilon = time.Second

const defaultResetTokenTTL = 10 * time.Minute

// CredentialService owns the per-account credential material: password
// hashing and verification, password rotation, and the reset-token
// issue/redeem cycle. Only one-way hashes ever reach the store.
type CredentialService struct {
	accounts ports.AccountRepository
	cost     int
	resetTTL time.Duration
	now      func() time.Time
}

func NewCredentialService(accounts ports.AccountRepository, bcryptCost int, resetTTL time.Duration) *CredentialService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if resetTTL <= 0 {
		resetTTL = defaultResetTokenTTL
	}
	return &CredentialService{accounts: accounts, cost: bcryptCost, resetTTL: resetTTL, now: time.Now}
}

// Hash derives a salted one-way hash of plaintext at the configured cost.
func (s *CredentialService) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plaintext matches hash. A mismatch is not an error.
func (s *CredentialService) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// SetPassword rotates the account's password. The new hash, the backdated
// change timestamp and the cleared reset-token fields land in a single
// per-document update.
func (s *CredentialService) SetPassword(ctx context.Context, accountID, newPlaintext string) error {
	hash, err := s.Hash(newPlaintext)
	if err != nil {
		return err
	}
	changedAt := s.now().UTC().Add(-passwordChangedEpsilon)
	return s.accounts.SetPassword(ctx, accountID, hash, changedAt)
}

// IssueResetToken generates a high-entropy single-use token, persists only
// its sha256 hash with a fresh expiry, and returns the raw token. The raw
// value is disclosed exactly once and never stored.
func (s *CredentialService) IssueResetToken(ctx context.Context, account *domain.Account) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	rawToken := hex.EncodeToString(raw)

	expiresAt := s.now().UTC().Add(s.resetTTL)
	if err := s.accounts.SetResetToken(ctx, account.ID, hashResetToken(rawToken), expiresAt); err != nil {
		return "", err
	}
	return rawToken, nil
}

// RedeemResetToken resolves a raw token to its account. Unknown, expired and
// already-consumed tokens all yield ErrInvalidResetToken.
func (s *CredentialService) RedeemResetToken(ctx context.Context, rawToken string) (*domain.Account, error) {
	if rawToken == "" {
		return nil, domain.ErrInvalidResetToken
	}
	account, err := s.accounts.FindByResetTokenHash(ctx, hashResetToken(rawToken), s.now().UTC())
	if err != nil {
		return nil, domain.ErrInvalidResetToken
	}
	return account, nil
}

// ClearResetToken rolls back an issued token, used when the reset email
// never reached the user.
func (s *CredentialService) ClearResetToken(ctx context.Context, accountID string) error {
	return s.accounts.ClearResetToken(ctx, accountID)
}

func hashResetToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
