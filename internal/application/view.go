package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/routecast/service-routes/internal/domain/panel"
	"github.com/routecast/service-routes/internal/domain/route"
)

// OriginView describes the user's position on the map.
type OriginView struct {
	Status   OriginStatus    `json:"status"`
	Position *route.Position `json:"position,omitempty"`
	Marker   *route.Marker   `json:"marker,omitempty"`
}

// SessionView is everything a page needs to draw a session: the origin,
// the rendered route visuals, the info panel and the last notice. Revision
// increases with every state change of the session, so of two views the one
// with the higher revision is the current one.
type SessionView struct {
	SessionID     uuid.UUID        `json:"session_id"`
	Origin        OriginView       `json:"origin"`
	Destination   string           `json:"destination,omitempty"`
	Mode          route.TravelMode `json:"mode,omitempty"`
	Routes        []route.Visual   `json:"routes"`
	Selected      *int             `json:"selected,omitempty"`
	SelectedLabel string           `json:"selected_label,omitempty"`
	Panel         panel.InfoPanel  `json:"panel"`
	Notice        string           `json:"notice,omitempty"`
	Generation    uint64           `json:"generation"`
	Revision      uint64           `json:"revision"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// EmphasizedCount returns how many visuals are drawn in the emphasized style.
func (v SessionView) EmphasizedCount() int {
	n := 0
	for _, r := range v.Routes {
		if r.Style.Emphasized {
			n++
		}
	}
	return n
}
