package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"spotmap/pkg/e"
)

// Point is a WGS 84 position, always kept in (longitude, latitude) order.
type Point struct {
	Lng float64
	Lat float64
}

func NewPoint(lng, lat float64) (Point, error) {
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return Point{}, fmt.Errorf("%w: longitude %v out of [-180,180]", e.ErrInvalidCoordinates, lng)
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return Point{}, fmt.Errorf("%w: latitude %v out of [-90,90]", e.ErrInvalidCoordinates, lat)
	}
	return Point{Lng: lng, Lat: lat}, nil
}

// NormalizePoint accepts numbers or numeric strings, as they arrive from JSON bodies and query strings.
func NormalizePoint(lng, lat any) (Point, error) {
	x, err := toCoordinate("longitude", lng)
	if err != nil {
		return Point{}, err
	}
	y, err := toCoordinate("latitude", lat)
	if err != nil {
		return Point{}, err
	}
	return NewPoint(x, y)
}

func toCoordinate(name string, v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, fmt.Errorf("%w: %s is missing", e.ErrInvalidCoordinates, name)
	case bool:
		return 0, fmt.Errorf("%w: %s is not a number", e.ErrInvalidCoordinates, name)
	case string:
		if strings.TrimSpace(t) == "" {
			return 0, fmt.Errorf("%w: %s is missing", e.ErrInvalidCoordinates, name)
		}
		v = strings.TrimSpace(t)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a number", e.ErrInvalidCoordinates, name)
	}
	return f, nil
}

type geoJSONPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSONPoint{Type: "Point", Coordinates: []float64{p.Lng, p.Lat}})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var g geoJSONPoint
	if err := json.Unmarshal(data, &g); err != nil {
		return err
	}
	if g.Type != "Point" {
		return fmt.Errorf("%w: geometry type %q", e.ErrInvalidCoordinates, g.Type)
	}
	if len(g.Coordinates) != 2 {
		return fmt.Errorf("%w: point needs [longitude, latitude], got %d values", e.ErrInvalidCoordinates, len(g.Coordinates))
	}
	pt, err := NewPoint(g.Coordinates[0], g.Coordinates[1])
	if err != nil {
		return err
	}
	*p = pt
	return nil
}
