package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/trailhead/tours-api/internal/api/metrics"
	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
)

// ResetThrottle abstracts the cooldown store (Redis) limiting how often a
// reset email may be requested per address.
type ResetThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	Mark(ctx context.Context, email string) error
}

// WelcomeDispatcher abstracts the asynchronous email queue used for
// best-effort mail that needs no rollback semantics.
type WelcomeDispatcher interface {
	Enqueue(job ports.EmailJob)
}

// AuthService implements signup, login and the password lifecycle.
type AuthService struct {
	accounts    ports.AccountRepository
	credentials *CredentialService
	tokens      *TokenService
	mailer      ports.Mailer
	welcome     WelcomeDispatcher
	throttle    ResetThrottle
	log         zerolog.Logger
}

func NewAuthService(
	accounts ports.AccountRepository,
	credentials *CredentialService,
	tokens *TokenService,
	mailer ports.Mailer,
	welcome WelcomeDispatcher,
	throttle ResetThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts:    accounts,
		credentials: credentials,
		tokens:      tokens,
		mailer:      mailer,
		welcome:     welcome,
		throttle:    throttle,
		log:         log,
	}
}

func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*ports.AuthResult, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.credentials.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Name:         input.Name,
		Email:        normalizeEmail(input.Email),
		Photo:        "default.jpg",
		Role:         domain.RoleUser,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	if s.welcome != nil {
		s.welcome.Enqueue(ports.EmailJob{Kind: ports.EmailWelcome, Account: created, URL: "/me"})
	}

	s.log.Info().Str("account_id", created.ID).Msg("account created")
	return s.issueSession(created)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		// Unknown email and wrong password are indistinguishable to callers.
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.credentials.Verify(password, account.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return s.issueSession(account)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email, origin string) error {
	account, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		// Account existence is disclosed here; accepted trade-off.
		return err
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, account.Email)
		if err != nil {
			s.log.Warn().Err(err).Msg("reset throttle check failed, issuing anyway")
		} else if !allowed {
			return domain.ErrResetThrottled
		}
	}

	rawToken, err := s.credentials.IssueResetToken(ctx, account)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", origin, rawToken)
	if err := s.mailer.SendPasswordReset(ctx, account, resetURL); err != nil {
		// The token must not stay redeemable if the user never received it.
		if clearErr := s.credentials.ClearResetToken(ctx, account.ID); clearErr != nil {
			s.log.Error().Err(clearErr).Str("account_id", account.ID).Msg("reset token rollback failed")
		}
		s.log.Error().Err(err).Str("account_id", account.ID).Msg("reset email delivery failed")
		return domain.ErrDeliveryFailed
	}

	if s.throttle != nil {
		if err := s.throttle.Mark(ctx, account.Email); err != nil {
			s.log.Warn().Err(err).Msg("failed to mark reset throttle")
		}
	}

	metrics.ResetTokensIssuedTotal.Inc()
	s.log.Info().Str("account_id", account.ID).Msg("reset token issued")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) (*ports.AuthResult, error) {
	account, err := s.credentials.RedeemResetToken(ctx, rawToken)
	if err != nil {
		metrics.ResetTokensRedeemedTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if err := s.credentials.SetPassword(ctx, account.ID, newPassword); err != nil {
		return nil, err
	}

	metrics.ResetTokensRedeemedTotal.WithLabelValues("redeemed").Inc()
	s.log.Info().Str("account_id", account.ID).Msg("password reset")
	return s.issueSession(account)
}

func (s *AuthService) UpdatePassword(ctx context.Context, accountID, currentPassword, newPassword string) (*ports.AuthResult, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !s.credentials.Verify(currentPassword, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.credentials.SetPassword(ctx, account.ID, newPassword); err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", account.ID).Msg("password updated")
	return s.issueSession(account)
}

func (s *AuthService) issueSession(account *domain.Account) (*ports.AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
