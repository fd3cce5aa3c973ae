package route

// Leg is a provider-defined segment of a route with aggregate metrics.
type Leg struct {
	DistanceText          string   `json:"distance_text"`
	DurationText          string   `json:"duration_text"`
	DurationInTrafficText string   `json:"duration_in_traffic_text,omitempty"`
	EndPosition           Position `json:"end_position"`
	EndAddress            string   `json:"end_address,omitempty"`
}

// Candidate is one possible path between origin and destination as returned
// by the routing provider.
type Candidate struct {
	Summary      string     `json:"summary,omitempty"`
	GeometryPath []Position `json:"geometry_path"`
	Legs         []Leg      `json:"legs"`
}

// FirstLeg returns the leg whose metrics describe the candidate.
// Candidates without legs yield a zero Leg.
func (c Candidate) FirstLeg() Leg {
	if len(c.Legs) == 0 {
		return Leg{}
	}
	return c.Legs[0]
}

// DistanceText returns the first leg's distance text.
func (c Candidate) DistanceText() string { return c.FirstLeg().DistanceText }

// DurationText returns the first leg's duration text.
func (c Candidate) DurationText() string { return c.FirstLeg().DurationText }

// EndPosition returns the first leg's end coordinates.
func (c Candidate) EndPosition() Position { return c.FirstLeg().EndPosition }

// Midpoint returns the path sample at index floor(len/2). It is not a
// geographic midpoint. An empty path falls back to the end position.
func (c Candidate) Midpoint() Position {
	if len(c.GeometryPath) == 0 {
		return c.EndPosition()
	}
	return c.GeometryPath[len(c.GeometryPath)/2]
}
