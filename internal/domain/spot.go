package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"spotmap/pkg/e"
)

type Category string

const (
	CategoryGoodPlace Category = "good-place"
	CategoryAlert     Category = "alert"
	CategoryEvent     Category = "event"
	CategoryOther     Category = "other"
)

// ParseCategory maps "" to CategoryOther and rejects anything outside the enum.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case "":
		return CategoryOther, nil
	case CategoryGoodPlace, CategoryAlert, CategoryEvent, CategoryOther:
		return c, nil
	default:
		return "", e.Validation(fmt.Sprintf("unknown category %q", s))
	}
}

type Spot struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Location    Point     `json:"location"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SpotPatch carries the fields of a partial update; nil means unchanged.
type SpotPatch struct {
	Title       *string
	Description *string
	Category    *Category
	Location    *Point
	UpdatedAt   time.Time
}

// NearbySpot is a proximity query hit.
type NearbySpot struct {
	Spot
	DistanceM float64 `json:"distanceM"`
}

type SpotFilter struct {
	Category *Category
	Author   string
}
