package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trailhead/tours-api/internal/core/ports"
)

// ReviewHandler handles review CRUD, both top-level and nested under tours.
type ReviewHandler struct {
	reviewService ports.ReviewService
}

func NewReviewHandler(reviewService ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type createReviewRequest struct {
	Text   string `json:"text"    validate:"required"`
	Rating int    `json:"rating"  validate:"required,min=1,max=5"`
	// TourID comes from the nested route when present; required otherwise.
	TourID string `json:"tour_id"`
}

type updateReviewRequest struct {
	Text   *string `json:"text"   validate:"omitempty,min=1"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

// List returns reviews, scoped to a tour on the nested route.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse
// @Router       /api/v1/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	reviews, err := h.reviewService.List(c.Request().Context(), c.Param("tourId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"reviews": reviews}))
}

// Get returns one review by id.
func (h *ReviewHandler) Get(c echo.Context) error {
	review, err := h.reviewService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"review": review}))
}

// Create posts a review as the logged-in account. The author binding always
// comes from the session, never from the body.
//
// @Summary      Create a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/v1/tours/{tourId}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if tourID := c.Param("tourId"); tourID != "" {
		req.TourID = tourID
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.TourID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tour_id is required")
	}

	review, err := h.reviewService.Create(c.Request().Context(), ports.CreateReviewInput{
		Text:     req.Text,
		Rating:   req.Rating,
		TourID:   req.TourID,
		AuthorID: account.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, success(map[string]any{"review": review}))
}

// Update patches a review; only its author or an admin may do so.
func (h *ReviewHandler) Update(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req updateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.reviewService.Update(c.Request().Context(), ports.MutateReviewInput{
		ReviewID:  c.Param("id"),
		AccountID: account.ID,
		Role:      account.Role,
	}, ports.ReviewPatch{Text: req.Text, Rating: req.Rating})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(map[string]any{"review": review}))
}

// Delete removes a review; only its author or an admin may do so.
func (h *ReviewHandler) Delete(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	if err := h.reviewService.Delete(c.Request().Context(), ports.MutateReviewInput{
		ReviewID:  c.Param("id"),
		AccountID: account.ID,
		Role:      account.Role,
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
