package weather

import (
	"context"
	"fmt"
	"strconv"

	"github.com/routecast/service-routes/internal/domain/route"
)

// Snapshot is a point-in-time observation. Each fetch replaces the previous
// snapshot wholesale.
type Snapshot struct {
	TemperatureC    float64 `json:"temperature_c"`
	Description     string  `json:"description"`
	HumidityPercent int     `json:"humidity_percent"`
}

// String renders the snapshot the way the info panel shows it.
func (s Snapshot) String() string {
	return fmt.Sprintf("Weather at Destination: %s°C, %s, Humidity: %d%%",
		strconv.FormatFloat(s.TemperatureC, 'f', -1, 64), s.Description, s.HumidityPercent)
}

// Provider fetches current conditions at a position.
type Provider interface {
	Current(ctx context.Context, at route.Position) (*Snapshot, error)
}

// Error wraps any network or decoding failure of a weather fetch.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "weather " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
