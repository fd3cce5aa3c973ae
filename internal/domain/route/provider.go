package route

import (
	"context"
	"time"
)

// StatusOK is the only provider status that signals success.
const StatusOK = "OK"

// TrafficModelBestGuess asks the provider for its best traffic estimate.
const TrafficModelBestGuess = "best_guess"

// DrivingOptions requests live-traffic-aware timing.
type DrivingOptions struct {
	DepartureTime time.Time
	TrafficModel  string
}

// Request is what the RouteProvider is asked for.
type Request struct {
	Origin            Position
	Destination       string
	Mode              TravelMode
	ProvideAlternates bool
	DrivingOptions    *DrivingOptions
}

// NewRequest builds a provider request that always asks for alternatives and,
// for driving, adds traffic timing departing at now.
func NewRequest(origin Position, destination string, mode TravelMode, now time.Time) Request {
	req := Request{
		Origin:            origin,
		Destination:       destination,
		Mode:              mode,
		ProvideAlternates: true,
	}
	if mode.UsesTraffic() {
		req.DrivingOptions = &DrivingOptions{
			DepartureTime: now,
			TrafficModel:  TrafficModelBestGuess,
		}
	}
	return req
}

// Response is the provider's answer. Status is passed through verbatim.
type Response struct {
	Status string
	Routes []Candidate
}

// Provider computes candidate routes. Implementations return a RoutingError
// for transport failures and for any status other than StatusOK.
type Provider interface {
	Route(ctx context.Context, req Request) (*Response, error)
}
