package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/trailhead/tours-api/internal/api/middleware"
	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
)

type stubUserService struct {
	account       *domain.Account
	updateMeInput *ports.UpdateMeInput
	deactivatedID string
}

func (s *stubUserService) Me(_ context.Context, _ string) (*domain.Account, error) {
	return s.account, nil
}

func (s *stubUserService) UpdateMe(_ context.Context, _ string, input ports.UpdateMeInput) (*domain.Account, error) {
	s.updateMeInput = &input
	return s.account, nil
}

func (s *stubUserService) DeactivateMe(_ context.Context, accountID string) error {
	s.deactivatedID = accountID
	return nil
}

func (s *stubUserService) List(_ context.Context) ([]domain.Account, error) {
	return []domain.Account{*s.account}, nil
}

func (s *stubUserService) Get(_ context.Context, _ string) (*domain.Account, error) {
	return s.account, nil
}

func (s *stubUserService) Update(_ context.Context, _ string, _ ports.ProfilePatch) (*domain.Account, error) {
	return s.account, nil
}

func (s *stubUserService) Delete(_ context.Context, _ string) error { return nil }

func loggedInAccount() *domain.Account {
	return &domain.Account{ID: "acc-1", Name: "Lena", Email: "lena@example.com", Role: domain.RoleUser}
}

func TestUserHandlerMe(t *testing.T) {
	h := NewUserHandler(&stubUserService{account: loggedInAccount()})

	c, rec := newHandlerContext(t, http.MethodGet, "/api/v1/users/me", "")
	c.Set(middleware.AccountContextKey, loggedInAccount())

	if err := h.Me(c); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	data, _ := envelope["data"].(map[string]any)
	user, _ := data["user"].(map[string]any)
	if user["id"] != "acc-1" {
		t.Errorf("user.id = %v, want acc-1", user["id"])
	}
}

func TestUserHandlerUpdateMe(t *testing.T) {
	svc := &stubUserService{account: loggedInAccount()}
	h := NewUserHandler(svc)

	c, rec := newHandlerContext(t, http.MethodPatch, "/api/v1/users/updateMe", `{"name":"Lena B"}`)
	c.Set(middleware.AccountContextKey, loggedInAccount())

	if err := h.UpdateMe(c); err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if svc.updateMeInput == nil || svc.updateMeInput.Name == nil || *svc.updateMeInput.Name != "Lena B" {
		t.Errorf("forwarded input = %+v", svc.updateMeInput)
	}
}

func TestUserHandlerUpdateMeRejectsPasswordField(t *testing.T) {
	svc := &stubUserService{account: loggedInAccount()}
	h := NewUserHandler(svc)

	c, _ := newHandlerContext(t, http.MethodPatch, "/api/v1/users/updateMe", `{"name":"Lena B","password":"sneaky123"}`)
	c.Set(middleware.AccountContextKey, loggedInAccount())

	err := h.UpdateMe(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("UpdateMe = %v, want 400", err)
	}
	if msg, _ := httpErr.Message.(string); !strings.Contains(msg, "updateMyPassword") {
		t.Errorf("message = %q, should point at the password endpoint", msg)
	}
	if svc.updateMeInput != nil {
		t.Error("service called despite password field in payload")
	}
}

func TestUserHandlerDeleteMe(t *testing.T) {
	svc := &stubUserService{account: loggedInAccount()}
	h := NewUserHandler(svc)

	c, rec := newHandlerContext(t, http.MethodDelete, "/api/v1/users/deleteMe", "")
	c.Set(middleware.AccountContextKey, loggedInAccount())

	if err := h.DeleteMe(c); err != nil {
		t.Fatalf("DeleteMe: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if svc.deactivatedID != "acc-1" {
		t.Errorf("deactivated id = %q, want acc-1", svc.deactivatedID)
	}
}
