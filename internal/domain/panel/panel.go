package panel

import (
	"fmt"

	"github.com/routecast/service-routes/internal/domain/route"
	"github.com/routecast/service-routes/internal/domain/weather"
)

// WeatherUnavailableText replaces the weather slot when a fetch fails.
const WeatherUnavailableText = "Weather information not available."

// InfoPanel holds the text slots describing the selected route.
type InfoPanel struct {
	Distance string `json:"distance"`
	Duration string `json:"duration"`
	Weather  string `json:"weather"`
}

// DisplaySelection writes the route's metrics into the distance and duration
// slots, replacing prior content.
func (p *InfoPanel) DisplaySelection(c route.Candidate, index int) {
	label := route.Label(index)
	p.Distance = fmt.Sprintf("Route %s Distance: %s", label, c.DistanceText())
	p.Duration = fmt.Sprintf("Route %s Duration: %s", label, c.DurationText())
}

// ShowWeather writes a snapshot into the weather slot.
func (p *InfoPanel) ShowWeather(s weather.Snapshot) {
	p.Weather = s.String()
}

// WeatherUnavailable writes the fallback text into the weather slot.
func (p *InfoPanel) WeatherUnavailable() {
	p.Weather = WeatherUnavailableText
}

// Clear blanks every slot.
func (p *InfoPanel) Clear() {
	*p = InfoPanel{}
}
