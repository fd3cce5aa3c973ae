package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/routecast/service-routes/internal/domain/route"
	"github.com/routecast/service-routes/internal/domain/weather"
)

type fakeRoutes struct {
	calls atomic.Int32
	fn    func(ctx context.Context, req route.Request) (*route.Response, error)
}

func (f *fakeRoutes) Route(ctx context.Context, req route.Request) (*route.Response, error) {
	f.calls.Add(1)
	return f.fn(ctx, req)
}

func returning(n int) *fakeRoutes {
	return &fakeRoutes{fn: func(context.Context, route.Request) (*route.Response, error) {
		return &route.Response{Status: route.StatusOK, Routes: sampleCandidates(n)}, nil
	}}
}

type fakeWeather struct {
	calls atomic.Int32
	fn    func(ctx context.Context, at route.Position) (*weather.Snapshot, error)
}

func (f *fakeWeather) Current(ctx context.Context, at route.Position) (*weather.Snapshot, error) {
	f.calls.Add(1)
	return f.fn(ctx, at)
}

func sunny() *fakeWeather {
	return &fakeWeather{fn: func(context.Context, route.Position) (*weather.Snapshot, error) {
		return &weather.Snapshot{TemperatureC: 31, Description: "clear sky", HumidityPercent: 40}, nil
	}}
}

type publishedEvent struct {
	Type string
	Key  string
	Data interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, key string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Key: key, Data: data})
}

func (p *recordingPublisher) ofType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type recordingListener struct {
	mu     sync.Mutex
	views  []SessionView
	closed []uuid.UUID
}

func (l *recordingListener) ViewChanged(view SessionView) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.views = append(l.views, view)
}

func (l *recordingListener) SessionClosed(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = append(l.closed, id)
}

func (l *recordingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.views)
}

func sampleCandidates(n int) []route.Candidate {
	out := make([]route.Candidate, n)
	for i := range out {
		out[i] = route.Candidate{
			Summary: fmt.Sprintf("via road %d", i+1),
			GeometryPath: []route.Position{
				{Lat: 17.6411, Lng: 78.4952},
				{Lat: 17.55 + float64(i)/100, Lng: 78.49},
				{Lat: 17.4399, Lng: 78.4983},
			},
			Legs: []route.Leg{{
				DistanceText: fmt.Sprintf("%d.5 km", 25+i),
				DurationText: fmt.Sprintf("%d mins", 40+i),
				EndPosition:  route.Position{Lat: 17.4399, Lng: 78.4983},
				EndAddress:   "Secunderabad, Telangana, India",
			}},
		}
	}
	return out
}
