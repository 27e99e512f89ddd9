package service

import (
	"errors"
	"testing"
	"time"

	"github.com/trailhead/tours-api/internal/core/domain"
)

func TestTokenServiceIssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, expiresAt, err := svc.Issue("acc-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if want := issued.Add(time.Hour); !expiresAt.Equal(want) {
		t.Errorf("expiresAt = %v, want %v", expiresAt, want)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.AccountID != "acc-1" {
		t.Errorf("AccountID = %q, want %q", claims.AccountID, "acc-1")
	}
	if claims.IssuedAt.Unix() != issued.Unix() {
		t.Errorf("IssuedAt = %v, want %v", claims.IssuedAt, issued)
	}
}

func TestTokenServiceExpiry(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, _, err := svc.Issue("acc-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Still valid just inside the window.
	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("Verify inside window: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(time.Hour + time.Minute) }
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("Verify after expiry = %v, want ErrTokenExpired", err)
	}
}

func TestTokenServiceWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, _, err := issuer.Issue("acc-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrTokenSignature) {
		t.Errorf("Verify = %v, want ErrTokenSignature", err)
	}
}

func TestTokenServiceMalformed(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Errorf("Verify(%q) = %v, want ErrTokenMalformed", token, err)
		}
	}
}
