package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"

	"github.com/routecast/service-routes/internal/domain/route"
)

const directionsPath = "/maps/api/directions/json"

// DirectionsClient is the Google Directions web service adapter.
type DirectionsClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDirectionsClient creates a new DirectionsClient.
func NewDirectionsClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *DirectionsClient {
	return &DirectionsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type textValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Summary          string `json:"summary"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance          textValue  `json:"distance"`
			Duration          textValue  `json:"duration"`
			DurationInTraffic *textValue `json:"duration_in_traffic"`
			EndLocation       latLng     `json:"end_location"`
			EndAddress        string     `json:"end_address"`
		} `json:"legs"`
	} `json:"routes"`
}

// Route implements route.Provider.
func (c *DirectionsClient) Route(ctx context.Context, req route.Request) (*route.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+directionsPath+"?"+c.query(req).Encode(), nil)
	if err != nil {
		return nil, route.NewRoutingError(route.StatusUnknownError, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, route.NewRoutingError(route.StatusUnknownError, fmt.Errorf("directions request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, route.NewRoutingError(route.StatusUnknownError,
			fmt.Errorf("directions API returned HTTP %d", resp.StatusCode))
	}

	var data directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, route.NewRoutingError(route.StatusUnknownError, fmt.Errorf("decode directions: %w", err))
	}

	if data.Status != route.StatusOK {
		c.logger.Warn("directions request rejected",
			zap.String("status", data.Status),
			zap.String("error_message", data.ErrorMessage),
			zap.String("mode", req.Mode.String()),
		)
		var cause error
		if data.ErrorMessage != "" {
			cause = errors.New(data.ErrorMessage)
		}
		return nil, route.NewRoutingError(data.Status, cause)
	}

	out := &route.Response{Status: data.Status, Routes: make([]route.Candidate, 0, len(data.Routes))}
	for i, r := range data.Routes {
		path, err := decodePath(r.OverviewPolyline.Points)
		if err != nil {
			return nil, route.NewRoutingError(route.StatusUnknownError,
				fmt.Errorf("decode polyline of route %d: %w", i, err))
		}

		legs := make([]route.Leg, len(r.Legs))
		for j, l := range r.Legs {
			legs[j] = route.Leg{
				DistanceText: l.Distance.Text,
				DurationText: l.Duration.Text,
				EndPosition:  route.Position{Lat: l.EndLocation.Lat, Lng: l.EndLocation.Lng},
				EndAddress:   l.EndAddress,
			}
			if l.DurationInTraffic != nil {
				legs[j].DurationInTrafficText = l.DurationInTraffic.Text
			}
		}

		out.Routes = append(out.Routes, route.Candidate{
			Summary:      r.Summary,
			GeometryPath: path,
			Legs:         legs,
		})
	}

	c.logger.Debug("directions received",
		zap.Int("routes", len(out.Routes)),
		zap.String("mode", req.Mode.String()),
	)
	return out, nil
}

func (c *DirectionsClient) query(req route.Request) url.Values {
	q := url.Values{}
	q.Set("origin", req.Origin.String())
	q.Set("destination", req.Destination)
	q.Set("mode", strings.ToLower(req.Mode.String()))
	if req.ProvideAlternates {
		q.Set("alternatives", "true")
	}
	if opts := req.DrivingOptions; opts != nil {
		q.Set("departure_time", strconv.FormatInt(opts.DepartureTime.Unix(), 10))
		q.Set("traffic_model", opts.TrafficModel)
	}
	q.Set("key", c.apiKey)
	return q
}

func decodePath(encoded string) ([]route.Position, error) {
	if encoded == "" {
		return nil, nil
	}
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	path := make([]route.Position, len(coords))
	for i, c := range coords {
		path[i] = route.Position{Lat: c[0], Lng: c[1]}
	}
	return path, nil
}
