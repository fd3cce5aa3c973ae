package route

import (
	"fmt"
	"strconv"

	"github.com/routecast/service-routes/internal/platform/domain"
)

// Position is an immutable geographic coordinate.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewPosition validates and builds a Position.
func NewPosition(lat, lng float64) (Position, error) {
	if lat < -90 || lat > 90 {
		return Position{}, domain.NewValidationError(fmt.Sprintf("latitude out of range: %v", lat))
	}
	if lng < -180 || lng > 180 {
		return Position{}, domain.NewValidationError(fmt.Sprintf("longitude out of range: %v", lng))
	}
	return Position{Lat: lat, Lng: lng}, nil
}

// String formats the position as "lat,lng", the form the directions API accepts.
func (p Position) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}
