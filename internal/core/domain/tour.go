package domain

import (
	"math"
	"time"
)

// TourDifficulty grades how demanding a tour is.
type TourDifficulty string

const (
	DifficultyEasy      TourDifficulty = "easy"
	DifficultyMedium    TourDifficulty = "medium"
	DifficultyDifficult TourDifficulty = "difficult"
)

// Rating summary defaults applied when a tour has no reviews yet.
const (
	DefaultRatingsAverage  = 4.5
	DefaultRatingsQuantity = 0
)

// Tour is the core bookable product. RatingsAverage and RatingsQuantity are
// a cached summary owned by the rating aggregator; they always reflect the
// tour's current review set (or the documented defaults when it is empty).
type Tour struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Slug            string         `json:"slug"`
	Duration        int            `json:"duration"`
	MaxGroupSize    int            `json:"max_group_size"`
	Difficulty      TourDifficulty `json:"difficulty"`
	Price           float64        `json:"price"`
	Summary         string         `json:"summary"`
	Description     string         `json:"description,omitempty"`
	RatingsAverage  float64        `json:"ratings_average"`
	RatingsQuantity int64          `json:"ratings_quantity"`
	CreatedAt       time.Time      `json:"created_at"`
}

// RatingSummary is the cached count/mean derived from a tour's review set.
type RatingSummary struct {
	Quantity int64
	Average  float64
}

// DefaultRatingSummary is written back when the last review disappears.
func DefaultRatingSummary() RatingSummary {
	return RatingSummary{Quantity: DefaultRatingsQuantity, Average: DefaultRatingsAverage}
}

// RoundRating rounds a mean rating to one decimal place, matching the
// precision stored on the tour.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
