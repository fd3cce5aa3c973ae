package route

// Selection is an optional index into the current RouteSet.
type Selection struct {
	index int
	valid bool
}

// NoSelection is the absent selection.
var NoSelection = Selection{}

// Select returns a selection pointing at index.
func Select(index int) Selection {
	return Selection{index: index, valid: true}
}

// Index returns the selected index and whether a selection exists.
func (s Selection) Index() (int, bool) {
	return s.index, s.valid
}

// Is reports whether index is the selected route.
func (s Selection) Is(index int) bool {
	return s.valid && s.index == index
}

// Style is the stroke applied to a rendered route path.
type Style struct {
	StrokeColor   string  `json:"stroke_color"`
	StrokeOpacity float64 `json:"stroke_opacity"`
	StrokeWeight  int     `json:"stroke_weight"`
	Emphasized    bool    `json:"emphasized"`
}

// All routes share one hue; only saturation and weight mark the selection.
var (
	EmphasizedStyle = Style{StrokeColor: "#0000FF", StrokeOpacity: 0.9, StrokeWeight: 7, Emphasized: true}
	LightStyle      = Style{StrokeColor: "#9ab1ff", StrokeOpacity: 0.7, StrokeWeight: 5}
)

// StyleFor returns the style for the route at index under the given selection.
func StyleFor(index int, sel Selection) Style {
	if sel.Is(index) {
		return EmphasizedStyle
	}
	return LightStyle
}

// Marker is a clickable point on the map.
type Marker struct {
	Position Position `json:"position"`
	Label    string   `json:"label,omitempty"`
	Title    string   `json:"title,omitempty"`
}

// Visual is the display handle of one rendered route: its styled path, its
// clickable label marker and its end marker. The path and the label marker
// select the same index.
type Visual struct {
	Index       int        `json:"index"`
	Label       string     `json:"label"`
	Path        []Position `json:"path"`
	Style       Style      `json:"style"`
	LabelMarker Marker     `json:"label_marker"`
	EndMarker   Marker     `json:"end_marker"`
}

// NewVisual renders a candidate at index.
func NewVisual(c Candidate, index int, sel Selection) Visual {
	label := Label(index)
	leg := c.FirstLeg()
	return Visual{
		Index:       index,
		Label:       label,
		Path:        c.GeometryPath,
		Style:       StyleFor(index, sel),
		LabelMarker: Marker{Position: c.Midpoint(), Label: label},
		EndMarker:   Marker{Position: leg.EndPosition, Title: leg.EndAddress},
	}
}
