package route

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(n int) []Candidate {
	out := make([]Candidate, n)
	for i := range out {
		out[i] = Candidate{
			GeometryPath: []Position{{Lat: float64(i), Lng: 0}, {Lat: float64(i), Lng: 1}},
			Legs: []Leg{{
				DistanceText: fmt.Sprintf("%d km", 10+i),
				DurationText: fmt.Sprintf("%d mins", 20+i),
				EndPosition:  Position{Lat: 17.44, Lng: 78.50},
			}},
		}
	}
	return out
}

func TestNewRouteSet_CapsAtMaxRoutes(t *testing.T) {
	tests := []struct {
		returned int
		want     []string
	}{
		{1, []string{"A"}},
		{2, []string{"A", "B"}},
		{3, []string{"A", "B", "C"}},
		{4, []string{"A", "B", "C", "D"}},
		{7, []string{"A", "B", "C", "D"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d routes", tt.returned), func(t *testing.T) {
			set := NewRouteSet(candidates(tt.returned))
			assert.Equal(t, len(tt.want), set.Len())
			assert.Equal(t, tt.want, set.Labels())
		})
	}
}

func TestNewRouteSet_KeepsProviderOrder(t *testing.T) {
	set := NewRouteSet(candidates(6))
	for i := 0; i < set.Len(); i++ {
		assert.Equal(t, fmt.Sprintf("%d km", 10+i), set.At(i).DistanceText())
	}
}

func TestNewRouteSet_DoesNotAliasInput(t *testing.T) {
	in := candidates(2)
	set := NewRouteSet(in)
	in[0].Summary = "changed"
	assert.Empty(t, set.At(0).Summary)
}

func TestRouteSet_NilIsEmpty(t *testing.T) {
	var set *RouteSet
	assert.Equal(t, 0, set.Len())
	assert.False(t, set.Contains(0))
	assert.Empty(t, set.Labels())

	visuals := set.Visuals(NoSelection)
	require.NotNil(t, visuals)
	assert.Empty(t, visuals)
}

func TestRouteSet_Contains(t *testing.T) {
	set := NewRouteSet(candidates(3))
	assert.True(t, set.Contains(0))
	assert.True(t, set.Contains(2))
	assert.False(t, set.Contains(3))
	assert.False(t, set.Contains(-1))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "A", Label(0))
	assert.Equal(t, "B", Label(1))
	assert.Equal(t, "D", Label(3))
}

func TestIndexForLabel(t *testing.T) {
	tests := []struct {
		label string
		index int
		ok    bool
	}{
		{"A", 0, true},
		{"b", 1, true},
		{"D", 3, true},
		{"Z", 25, true},
		{"", 0, false},
		{"AB", 0, false},
		{"1", 0, false},
	}
	for _, tt := range tests {
		index, ok := IndexForLabel(tt.label)
		assert.Equal(t, tt.ok, ok, "label %q", tt.label)
		if tt.ok {
			assert.Equal(t, tt.index, index, "label %q", tt.label)
		}
	}
}
