package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
)

type stubMailer struct {
	resetURLs []string
	failReset bool
}

func (m *stubMailer) SendPasswordReset(_ context.Context, _ *domain.Account, resetURL string) error {
	if m.failReset {
		return errors.New("smtp unavailable")
	}
	m.resetURLs = append(m.resetURLs, resetURL)
	return nil
}

func (m *stubMailer) SendWelcome(_ context.Context, _ *domain.Account, _ string) error {
	return nil
}

type stubThrottle struct {
	blocked bool
	marked  []string
}

func (t *stubThrottle) Allow(_ context.Context, _ string) (bool, error) {
	return !t.blocked, nil
}

func (t *stubThrottle) Mark(_ context.Context, email string) error {
	t.marked = append(t.marked, email)
	return nil
}

type stubWelcome struct {
	jobs []ports.EmailJob
}

func (w *stubWelcome) Enqueue(job ports.EmailJob) {
	w.jobs = append(w.jobs, job)
}

type authFixture struct {
	repo     *stubAccountRepo
	mailer   *stubMailer
	throttle *stubThrottle
	welcome  *stubWelcome
	svc      *AuthService
}

func newAuthFixture() *authFixture {
	repo := newStubAccountRepo()
	credentials := NewCredentialService(repo, 4, 10*time.Minute)
	tokens := NewTokenService("test-secret", time.Hour)
	mailer := &stubMailer{}
	throttle := &stubThrottle{}
	welcome := &stubWelcome{}
	svc := NewAuthService(repo, credentials, tokens, mailer, welcome, throttle, zerolog.Nop())
	return &authFixture{repo: repo, mailer: mailer, throttle: throttle, welcome: welcome, svc: svc}
}

func TestAuthServiceSignup(t *testing.T) {
	f := newAuthFixture()

	result, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name:     "Lena",
		Email:    "  Lena@Example.COM ",
		Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if result.Token == "" {
		t.Error("Signup returned no session token")
	}
	if result.Account.Email != "lena@example.com" {
		t.Errorf("email = %q, want normalized lowercase", result.Account.Email)
	}
	if result.Account.Role != domain.RoleUser {
		t.Errorf("role = %q, want %q", result.Account.Role, domain.RoleUser)
	}

	stored := f.repo.accounts[result.Account.ID]
	if stored.PasswordHash == "pass1234" {
		t.Error("plaintext password was persisted")
	}
	if len(f.welcome.jobs) != 1 || f.welcome.jobs[0].Kind != ports.EmailWelcome {
		t.Errorf("welcome jobs = %+v, want one welcome job", f.welcome.jobs)
	}
}

func TestAuthServiceSignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	input := ports.SignupInput{Name: "Lena", Email: "lena@example.com", Password: "pass1234"}

	if _, err := f.svc.Signup(context.Background(), input); err != nil {
		t.Fatalf("first Signup: %v", err)
	}
	if _, err := f.svc.Signup(context.Background(), input); !errors.Is(err, domain.ErrAccountExists) {
		t.Errorf("second Signup = %v, want ErrAccountExists", err)
	}
}

func TestAuthServiceLogin(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Lena", Email: "lena@example.com", Password: "pass1234",
	}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	result, err := f.svc.Login(context.Background(), "lena@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("Login returned no session token")
	}
}

func TestAuthServiceLoginFailuresAreUniform(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Lena", Email: "lena@example.com", Password: "pass1234",
	}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	cases := map[string]struct{ email, password string }{
		"unknown email":  {"nobody@example.com", "pass1234"},
		"wrong password": {"lena@example.com", "wrong-pass"},
		"empty password": {"lena@example.com", ""},
	}
	for name, tc := range cases {
		if _, err := f.svc.Login(context.Background(), tc.email, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: Login = %v, want ErrInvalidCredentials", name, err)
		}
	}
}

func TestAuthServiceForgotPassword(t *testing.T) {
	f := newAuthFixture()
	result, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Lena", Email: "lena@example.com", Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if err := f.svc.ForgotPassword(context.Background(), "lena@example.com", "https://tours.example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	if len(f.mailer.resetURLs) != 1 {
		t.Fatalf("reset emails sent = %d, want 1", len(f.mailer.resetURLs))
	}
	url := f.mailer.resetURLs[0]
	const prefix = "https://tours.example.com/api/v1/users/resetPassword/"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("reset URL = %q, want prefix %q", url, prefix)
	}
	raw := strings.TrimPrefix(url, prefix)

	stored := f.repo.accounts[result.Account.ID]
	if stored.PasswordResetTokenHash == "" {
		t.Fatal("no reset token hash persisted")
	}
	if stored.PasswordResetTokenHash == raw {
		t.Error("raw token persisted instead of its hash")
	}
	if len(f.throttle.marked) != 1 {
		t.Errorf("throttle marks = %d, want 1", len(f.throttle.marked))
	}
}

func TestAuthServiceForgotPasswordUnknownEmail(t *testing.T) {
	f := newAuthFixture()

	err := f.svc.ForgotPassword(context.Background(), "nobody@example.com", "https://tours.example.com")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("ForgotPassword = %v, want ErrAccountNotFound", err)
	}
	if len(f.mailer.resetURLs) != 0 {
		t.Error("reset email sent for unknown address")
	}
}

func TestAuthServiceForgotPasswordThrottled(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Lena", Email: "lena@example.com", Password: "pass1234",
	}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	f.throttle.blocked = true

	err := f.svc.ForgotPassword(context.Background(), "lena@example.com", "https://tours.example.com")
	if !errors.Is(err, domain.ErrResetThrottled) {
		t.Fatalf("ForgotPassword = %v, want ErrResetThrottled", err)
	}
	if len(f.mailer.resetURLs) != 0 {
		t.Error("reset email sent while throttled")
	}
}

func TestAuthServiceForgotPasswordDeliveryFailureRollsBack(t *testing.T) {
	f := newAuthFixture()
	result, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Lena", Email: "lena@example.com", Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	f.mailer.failReset = true

	err = f.svc.ForgotPassword(context.Background(), "lena@example.com", "https://tours.example.com")
	if !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Fatalf("ForgotPassword = %v, want ErrDeliveryFailed", err)
	}

	stored := f.repo.accounts[result.Account.ID]
	if stored.PasswordResetTokenHash != "" || stored.PasswordResetExpiresAt != nil {
		t.Error("reset token state survived a failed delivery")
	}
	if len(f.throttle.marked) != 0 {
		t.Error("throttle marked despite failed delivery")
	}
}

func TestAuthServiceResetPasswordFlow(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Lena", Email: "lena@example.com", Password: "pass1234",
	}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if err := f.svc.ForgotPassword(context.Background(), "lena@example.com", "https://tours.example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	raw := strings.TrimPrefix(f.mailer.resetURLs[0], "https://tours.example.com/api/v1/users/resetPassword/")

	result, err := f.svc.ResetPassword(context.Background(), raw, "freshpass99")
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if result.Token == "" {
		t.Error("ResetPassword returned no session token")
	}

	// Old password is dead, new one works, token is spent.
	if _, err := f.svc.Login(context.Background(), "lena@example.com", "pass1234"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login with old password = %v, want ErrInvalidCredentials", err)
	}
	if _, err := f.svc.Login(context.Background(), "lena@example.com", "freshpass99"); err != nil {
		t.Errorf("Login with new password: %v", err)
	}
	if _, err := f.svc.ResetPassword(context.Background(), raw, "anotherpass1"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Errorf("second ResetPassword = %v, want ErrInvalidResetToken", err)
	}
}

func TestAuthServiceResetPasswordBadToken(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.ResetPassword(context.Background(), "bogus", "freshpass99"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Errorf("ResetPassword = %v, want ErrInvalidResetToken", err)
	}
}

func TestAuthServiceUpdatePassword(t *testing.T) {
	f := newAuthFixture()
	signed, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Name: "Lena", Email: "lena@example.com", Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, err := f.svc.UpdatePassword(context.Background(), signed.Account.ID, "wrong-pass", "freshpass99"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("UpdatePassword with wrong current = %v, want ErrInvalidCredentials", err)
	}

	result, err := f.svc.UpdatePassword(context.Background(), signed.Account.ID, "pass1234", "freshpass99")
	if err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if result.Token == "" {
		t.Error("UpdatePassword returned no session token")
	}
	if _, err := f.svc.Login(context.Background(), "lena@example.com", "freshpass99"); err != nil {
		t.Errorf("Login with new password: %v", err)
	}
}
