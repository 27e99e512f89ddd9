package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trailhead/tours-api/internal/api/middleware"
	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
)

// stubAuthService returns canned results and records the inputs it saw.
type stubAuthService struct {
	result *ports.AuthResult
	err    error

	signupInput  *ports.SignupInput
	loginEmail   string
	forgotEmail  string
	forgotOrigin string
	resetToken   string
	resetNewPass string
}

func (s *stubAuthService) Signup(_ context.Context, input ports.SignupInput) (*ports.AuthResult, error) {
	s.signupInput = &input
	return s.result, s.err
}

func (s *stubAuthService) Login(_ context.Context, email, _ string) (*ports.AuthResult, error) {
	s.loginEmail = email
	return s.result, s.err
}

func (s *stubAuthService) ForgotPassword(_ context.Context, email, origin string) error {
	s.forgotEmail = email
	s.forgotOrigin = origin
	return s.err
}

func (s *stubAuthService) ResetPassword(_ context.Context, rawToken, newPassword string) (*ports.AuthResult, error) {
	s.resetToken = rawToken
	s.resetNewPass = newPassword
	return s.result, s.err
}

func (s *stubAuthService) UpdatePassword(_ context.Context, _, _, _ string) (*ports.AuthResult, error) {
	return s.result, s.err
}

func testAuthResult() *ports.AuthResult {
	return &ports.AuthResult{
		Token:     "signed-token",
		ExpiresAt: time.Now().Add(time.Hour),
		Account:   &domain.Account{ID: "acc-1", Name: "Lena", Email: "lena@example.com", Role: domain.RoleUser},
	}
}

func newHandlerContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return envelope
}

func sessionCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAuthHandlerSignup(t *testing.T) {
	svc := &stubAuthService{result: testAuthResult()}
	h := NewAuthHandler(svc, "session")

	body := `{"name":"Lena","email":"lena@example.com","password":"pass1234","password_confirm":"pass1234"}`
	c, rec := newHandlerContext(t, http.MethodPost, "/api/v1/users/signup", body)

	if err := h.Signup(c); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope["status"] != "success" {
		t.Errorf("status field = %v, want success", envelope["status"])
	}
	if envelope["token"] != "signed-token" {
		t.Errorf("token field = %v, want signed-token", envelope["token"])
	}

	cookie := sessionCookie(rec, "session")
	if cookie == nil || cookie.Value != "signed-token" {
		t.Errorf("session cookie = %+v, want the issued token", cookie)
	}
	if cookie != nil && !cookie.HttpOnly {
		t.Error("session cookie is not http-only")
	}
	if svc.signupInput == nil || svc.signupInput.Email != "lena@example.com" {
		t.Errorf("signup input = %+v", svc.signupInput)
	}
}

func TestAuthHandlerSignupValidation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{result: testAuthResult()}, "session")

	cases := map[string]string{
		"mismatched confirm": `{"name":"Lena","email":"lena@example.com","password":"pass1234","password_confirm":"different"}`,
		"short password":     `{"name":"Lena","email":"lena@example.com","password":"short","password_confirm":"short"}`,
		"bad email":          `{"name":"Lena","email":"not-an-email","password":"pass1234","password_confirm":"pass1234"}`,
		"missing name":       `{"email":"lena@example.com","password":"pass1234","password_confirm":"pass1234"}`,
	}
	for name, body := range cases {
		c, _ := newHandlerContext(t, http.MethodPost, "/api/v1/users/signup", body)

		err := h.Signup(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusBadRequest {
			t.Errorf("%s: err = %v, want 400", name, err)
		}
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	svc := &stubAuthService{result: testAuthResult()}
	h := NewAuthHandler(svc, "session")

	body := `{"email":"lena@example.com","password":"pass1234"}`
	c, rec := newHandlerContext(t, http.MethodPost, "/api/v1/users/login", body)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if cookie := sessionCookie(rec, "session"); cookie == nil || cookie.Value != "signed-token" {
		t.Errorf("session cookie = %+v, want the issued token", cookie)
	}

	envelope := decodeEnvelope(t, rec)
	data, _ := envelope["data"].(map[string]any)
	user, _ := data["user"].(map[string]any)
	if user["email"] != "lena@example.com" {
		t.Errorf("user.email = %v, want lena@example.com", user["email"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("password hash leaked in response")
	}
}

func TestAuthHandlerLoginRejected(t *testing.T) {
	svc := &stubAuthService{err: domain.ErrInvalidCredentials}
	h := NewAuthHandler(svc, "session")

	body := `{"email":"lena@example.com","password":"wrong-pass"}`
	c, rec := newHandlerContext(t, http.MethodPost, "/api/v1/users/login", body)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login = %v, want ErrInvalidCredentials", err)
	}
	if cookie := sessionCookie(rec, "session"); cookie != nil {
		t.Error("session cookie set on failed login")
	}
}

func TestAuthHandlerLogout(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, "session")
	c, rec := newHandlerContext(t, http.MethodGet, "/api/v1/users/logout", "")

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	cookie := sessionCookie(rec, "session")
	if cookie == nil || cookie.Value != "loggedout" {
		t.Errorf("session cookie = %+v, want placeholder value", cookie)
	}
	if cookie != nil && cookie.Expires.After(time.Now().Add(time.Minute)) {
		t.Error("logout cookie lives too long")
	}
}

func TestAuthHandlerForgotPassword(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, "session")

	body := `{"email":"lena@example.com"}`
	c, rec := newHandlerContext(t, http.MethodPost, "/api/v1/users/forgotPassword", body)

	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if svc.forgotEmail != "lena@example.com" {
		t.Errorf("forwarded email = %q", svc.forgotEmail)
	}
	if svc.forgotOrigin != "http://example.com" {
		t.Errorf("forwarded origin = %q, want derived from request", svc.forgotOrigin)
	}
}

func TestAuthHandlerResetPassword(t *testing.T) {
	svc := &stubAuthService{result: testAuthResult()}
	h := NewAuthHandler(svc, "session")

	body := `{"password":"freshpass99","password_confirm":"freshpass99"}`
	c, rec := newHandlerContext(t, http.MethodPatch, "/api/v1/users/resetPassword/raw-token", body)
	c.SetParamNames("token")
	c.SetParamValues("raw-token")

	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if svc.resetToken != "raw-token" {
		t.Errorf("forwarded token = %q, want raw-token", svc.resetToken)
	}
	if svc.resetNewPass != "freshpass99" {
		t.Errorf("forwarded password = %q", svc.resetNewPass)
	}
	if cookie := sessionCookie(rec, "session"); cookie == nil || cookie.Value != "signed-token" {
		t.Errorf("session cookie = %+v, want the fresh token", cookie)
	}
}

func TestAuthHandlerUpdatePassword(t *testing.T) {
	svc := &stubAuthService{result: testAuthResult()}
	h := NewAuthHandler(svc, "session")

	body := `{"password_current":"pass1234","password":"freshpass99","password_confirm":"freshpass99"}`
	c, rec := newHandlerContext(t, http.MethodPatch, "/api/v1/users/updateMyPassword", body)
	c.Set(middleware.AccountContextKey, &domain.Account{ID: "acc-1", Role: domain.RoleUser})

	if err := h.UpdatePassword(c); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthHandlerUpdatePasswordWithoutSession(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, "session")

	body := `{"password_current":"pass1234","password":"freshpass99","password_confirm":"freshpass99"}`
	c, _ := newHandlerContext(t, http.MethodPatch, "/api/v1/users/updateMyPassword", body)

	err := h.UpdatePassword(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("UpdatePassword = %v, want 401", err)
	}
}
