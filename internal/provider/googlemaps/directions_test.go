package googlemaps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/routecast/service-routes/internal/domain/route"
)

const okBody = `{
  "status": "OK",
  "routes": [
    {
      "summary": "NH44",
      "overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@"},
      "legs": [{
        "distance": {"text": "25.1 km", "value": 25100},
        "duration": {"text": "48 mins", "value": 2880},
        "duration_in_traffic": {"text": "55 mins", "value": 3300},
        "end_location": {"lat": 17.4399, "lng": 78.4983},
        "end_address": "Secunderabad, Telangana, India"
      }]
    },
    {
      "summary": "ORR",
      "overview_polyline": {"points": ""},
      "legs": [{
        "distance": {"text": "31 km", "value": 31000},
        "duration": {"text": "44 mins", "value": 2640},
        "end_location": {"lat": 17.4399, "lng": 78.4983},
        "end_address": "Secunderabad, Telangana, India"
      }]
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *DirectionsClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewDirectionsClient(srv.URL+"/", "test-key", 2*time.Second, zap.NewNop())
}

var origin = route.Position{Lat: 17.6411, Lng: 78.4952}

func TestRoute_DrivingQuery(t *testing.T) {
	departure := time.Unix(1714550400, 0)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, directionsPath, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "17.6411,78.4952", q.Get("origin"))
		assert.Equal(t, "Secunderabad", q.Get("destination"))
		assert.Equal(t, "driving", q.Get("mode"))
		assert.Equal(t, "true", q.Get("alternatives"))
		assert.Equal(t, "1714550400", q.Get("departure_time"))
		assert.Equal(t, "best_guess", q.Get("traffic_model"))
		assert.Equal(t, "test-key", q.Get("key"))
		_, _ = w.Write([]byte(okBody))
	})

	resp, err := client.Route(context.Background(),
		route.NewRequest(origin, "Secunderabad", route.TravelModeDriving, departure))
	require.NoError(t, err)
	assert.Equal(t, route.StatusOK, resp.Status)
	require.Len(t, resp.Routes, 2)

	first := resp.Routes[0]
	assert.Equal(t, "NH44", first.Summary)
	assert.Equal(t, "25.1 km", first.DistanceText())
	assert.Equal(t, "48 mins", first.DurationText())
	assert.Equal(t, "55 mins", first.FirstLeg().DurationInTrafficText)
	assert.Equal(t, route.Position{Lat: 17.4399, Lng: 78.4983}, first.EndPosition())
	assert.Equal(t, "Secunderabad, Telangana, India", first.FirstLeg().EndAddress)

	require.Len(t, first.GeometryPath, 3)
	want := []route.Position{{Lat: 38.5, Lng: -120.2}, {Lat: 40.7, Lng: -120.95}, {Lat: 43.252, Lng: -126.453}}
	for i, p := range want {
		assert.InDelta(t, p.Lat, first.GeometryPath[i].Lat, 1e-5)
		assert.InDelta(t, p.Lng, first.GeometryPath[i].Lng, 1e-5)
	}

	assert.Empty(t, resp.Routes[1].GeometryPath)
	assert.Empty(t, resp.Routes[1].FirstLeg().DurationInTrafficText)
}

func TestRoute_NonDrivingOmitsTraffic(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "transit", q.Get("mode"))
		assert.Equal(t, "true", q.Get("alternatives"))
		assert.False(t, q.Has("departure_time"))
		assert.False(t, q.Has("traffic_model"))
		_, _ = w.Write([]byte(okBody))
	})

	_, err := client.Route(context.Background(),
		route.NewRequest(origin, "Secunderabad", route.TravelModeTransit, time.Now()))
	require.NoError(t, err)
}

func TestRoute_NonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid.","routes":[]}`))
	})

	_, err := client.Route(context.Background(),
		route.NewRequest(origin, "Secunderabad", route.TravelModeWalking, time.Now()))
	var routingErr *route.RoutingError
	require.True(t, errors.As(err, &routingErr))
	assert.Equal(t, "REQUEST_DENIED", routingErr.Status)
	assert.Equal(t, "Directions request failed due to REQUEST_DENIED", routingErr.Notice())
	assert.Contains(t, err.Error(), "API key is invalid")
}

func TestRoute_TransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":`))
		}},
		{"malformed polyline", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"OK","routes":[{"overview_polyline":{"points":"_"},"legs":[]}]}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Route(context.Background(),
				route.NewRequest(origin, "Secunderabad", route.TravelModeDriving, time.Now()))
			var routingErr *route.RoutingError
			require.True(t, errors.As(err, &routingErr))
			assert.Equal(t, route.StatusUnknownError, routingErr.Status)
		})
	}
}
