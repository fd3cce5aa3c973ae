package route

// MaxRoutes is the largest number of candidates a RouteSet displays.
const MaxRoutes = 4

// Label returns the fixed label for a route index: 0 → "A", 1 → "B", ...
func Label(index int) string {
	return string(rune('A' + index))
}

// IndexForLabel converts a label back to its index. The second return value
// is false for anything that is not a single letter A-Z.
func IndexForLabel(label string) (int, bool) {
	if len(label) != 1 {
		return 0, false
	}
	c := label[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return 0, false
	}
	return int(c - 'A'), true
}

// RouteSet is an ordered, immutable collection of up to MaxRoutes candidates.
// Labels are assigned by index and never change for the life of the set.
type RouteSet struct {
	candidates []Candidate
}

// NewRouteSet keeps the first min(len(candidates), MaxRoutes) candidates in
// provider order.
func NewRouteSet(candidates []Candidate) *RouteSet {
	n := len(candidates)
	if n > MaxRoutes {
		n = MaxRoutes
	}
	kept := make([]Candidate, n)
	copy(kept, candidates[:n])
	return &RouteSet{candidates: kept}
}

// Len returns the number of routes in the set.
func (s *RouteSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.candidates)
}

// Contains reports whether index addresses a route in the set.
func (s *RouteSet) Contains(index int) bool {
	return index >= 0 && index < s.Len()
}

// At returns the candidate at index. Callers must check Contains first.
func (s *RouteSet) At(index int) Candidate {
	return s.candidates[index]
}

// Labels returns the labels of every route in order.
func (s *RouteSet) Labels() []string {
	labels := make([]string, s.Len())
	for i := range labels {
		labels[i] = Label(i)
	}
	return labels
}

// Visuals renders every route against the given selection. A nil set renders
// as an empty, non-nil slice.
func (s *RouteSet) Visuals(sel Selection) []Visual {
	visuals := make([]Visual, s.Len())
	if s == nil {
		return visuals
	}
	for i, c := range s.candidates {
		visuals[i] = NewVisual(c, i, sel)
	}
	return visuals
}
