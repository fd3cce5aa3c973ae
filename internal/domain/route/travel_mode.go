package route

import (
	"fmt"
	"strings"

	"github.com/routecast/service-routes/internal/platform/domain"
)

// TravelMode is the closed set of ways a route can be travelled.
type TravelMode string

const (
	TravelModeDriving   TravelMode = "DRIVING"
	TravelModeWalking   TravelMode = "WALKING"
	TravelModeBicycling TravelMode = "BICYCLING"
	TravelModeTransit   TravelMode = "TRANSIT"
)

var travelModes = []TravelMode{
	TravelModeDriving,
	TravelModeWalking,
	TravelModeBicycling,
	TravelModeTransit,
}

// TravelModes returns every supported mode in display order.
func TravelModes() []TravelMode {
	out := make([]TravelMode, len(travelModes))
	copy(out, travelModes)
	return out
}

// IsValid returns true if the mode is one of the supported travel modes.
func (m TravelMode) IsValid() bool {
	for _, t := range travelModes {
		if t == m {
			return true
		}
	}
	return false
}

// UsesTraffic reports whether requests in this mode ask for live-traffic timing.
func (m TravelMode) UsesTraffic() bool {
	return m == TravelModeDriving
}

// String returns the string representation of the mode.
func (m TravelMode) String() string {
	return string(m)
}

// ParseTravelMode converts a string to a TravelMode. Matching is case-insensitive.
func ParseTravelMode(s string) (TravelMode, error) {
	mode := TravelMode(strings.ToUpper(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid travel mode: %s", s))
	}
	return mode, nil
}
