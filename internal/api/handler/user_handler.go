package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trailhead/tours-api/internal/core/ports"
)

// UserHandler handles profile self-service and the admin account surface.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type updateMeRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Photo *string `json:"photo" validate:"omitempty,min=1"`
	// Password fields are rejected here; password changes must go through
	// the dedicated endpoint so the credential pipeline runs.
	Password *string `json:"password" validate:"isdefault"`
}

type adminUpdateUserRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Photo *string `json:"photo" validate:"omitempty,min=1"`
	Role  *string `json:"role"  validate:"omitempty,oneof=user guide lead-guide admin"`
}

// Me returns the logged-in account.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"user": account}))
}

// UpdateMe updates the logged-in account's profile fields.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateMeRequest  true  "Profile fields"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/v1/users/updateMe [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req updateMeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Password != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "this route is not for password updates, use /updateMyPassword")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.userService.UpdateMe(c.Request().Context(), account.ID, ports.UpdateMeInput{
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"user": updated}))
}

// DeleteMe soft-deletes the logged-in account.
//
// @Summary      Deactivate own account
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Router       /api/v1/users/deleteMe [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}
	if err := h.userService.DeactivateMe(c.Request().Context(), account.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns all active accounts. Admin only.
func (h *UserHandler) List(c echo.Context) error {
	accounts, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"users": accounts}))
}

// Get returns one account by id. Admin only.
func (h *UserHandler) Get(c echo.Context) error {
	account, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"user": account}))
}

// Update patches an account, including its role. Admin only.
func (h *UserHandler) Update(c echo.Context) error {
	var req adminUpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.userService.Update(c.Request().Context(), c.Param("id"), ports.ProfilePatch{
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"user": updated}))
}

// Delete removes an account permanently. Admin only.
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.userService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
