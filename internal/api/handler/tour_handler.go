package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
)

// TourHandler handles tour CRUD.
type TourHandler struct {
	tourService ports.TourService
}

func NewTourHandler(tourService ports.TourService) *TourHandler {
	return &TourHandler{tourService: tourService}
}

type createTourRequest struct {
	Name         string  `json:"name"           validate:"required,min=10,max=40"`
	Duration     int     `json:"duration"       validate:"required,gt=0"`
	MaxGroupSize int     `json:"max_group_size" validate:"required,gt=0"`
	Difficulty   string  `json:"difficulty"     validate:"required,oneof=easy medium difficult"`
	Price        float64 `json:"price"          validate:"required,gt=0"`
	Summary      string  `json:"summary"        validate:"required"`
	Description  string  `json:"description"`
}

type updateTourRequest struct {
	Name         *string  `json:"name"           validate:"omitempty,min=10,max=40"`
	Duration     *int     `json:"duration"       validate:"omitempty,gt=0"`
	MaxGroupSize *int     `json:"max_group_size" validate:"omitempty,gt=0"`
	Difficulty   *string  `json:"difficulty"     validate:"omitempty,oneof=easy medium difficult"`
	Price        *float64 `json:"price"          validate:"omitempty,gt=0"`
	Summary      *string  `json:"summary"        validate:"omitempty,min=1"`
	Description  *string  `json:"description"`
}

// List returns all tours.
//
// @Summary      List tours
// @Tags         tours
// @Produce      json
// @Success      200  {object}  successResponse
// @Router       /api/v1/tours [get]
func (h *TourHandler) List(c echo.Context) error {
	tours, err := h.tourService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"tours": tours}))
}

// Get returns one tour by id.
//
// @Summary      Get a tour
// @Tags         tours
// @Produce      json
// @Param        id   path      string  true  "Tour id"
// @Success      200  {object}  successResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/tours/{id} [get]
func (h *TourHandler) Get(c echo.Context) error {
	tour, err := h.tourService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"tour": tour}))
}

// Create adds a new tour. Admin and lead-guide only.
//
// @Summary      Create a tour
// @Tags         tours
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTourRequest  true  "Tour details"
// @Success      201   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/v1/tours [post]
func (h *TourHandler) Create(c echo.Context) error {
	var req createTourRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tour, err := h.tourService.Create(c.Request().Context(), ports.CreateTourInput{
		Name:         req.Name,
		Duration:     req.Duration,
		MaxGroupSize: req.MaxGroupSize,
		Difficulty:   domain.TourDifficulty(req.Difficulty),
		Price:        req.Price,
		Summary:      req.Summary,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, success(map[string]any{"tour": tour}))
}

// Update patches a tour. Admin and lead-guide only.
func (h *TourHandler) Update(c echo.Context) error {
	var req updateTourRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := ports.TourPatch{
		Name:         req.Name,
		Duration:     req.Duration,
		MaxGroupSize: req.MaxGroupSize,
		Price:        req.Price,
		Summary:      req.Summary,
		Description:  req.Description,
	}
	if req.Difficulty != nil {
		d := domain.TourDifficulty(*req.Difficulty)
		patch.Difficulty = &d
	}

	tour, err := h.tourService.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"tour": tour}))
}

// Delete removes a tour. Admin and lead-guide only.
func (h *TourHandler) Delete(c echo.Context) error {
	if err := h.tourService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
