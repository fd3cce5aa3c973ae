package route

import (
	"errors"

	"github.com/routecast/service-routes/internal/platform/domain"
)

// User-facing notices.
const (
	NoticeMissingOrigin       = "Current location not found."
	NoticeMissingDestination  = "Please enter a destination."
	NoticeSingleRoute         = "Only one route is available."
	NoticeGeolocationMissing  = "Geolocation is not supported by this browser."
	routingFailedNoticePrefix = "Directions request failed due to "
)

// Provider statuses produced locally rather than by the provider.
const (
	StatusZeroResults  = "ZERO_RESULTS"
	StatusUnknownError = "UNKNOWN_ERROR"
)

// ErrSuperseded is returned when a route response arrives after a newer
// request has already started. The response is discarded.
var ErrSuperseded = domain.NewConflictError("route request superseded by a newer request")

// PreconditionError blocks a route request before any network call.
type PreconditionError struct {
	Notice string
}

func (e *PreconditionError) Error() string { return e.Notice }

// ErrorKind implements domain.Classified.
func (e *PreconditionError) ErrorKind() domain.ErrorKind { return domain.KindPrecondition }

// RoutingError reports a non-OK provider status or a failed provider call.
type RoutingError struct {
	Status string
	Err    error
}

// NewRoutingError creates a RoutingError for the given provider status.
func NewRoutingError(status string, cause error) *RoutingError {
	return &RoutingError{Status: status, Err: cause}
}

func (e *RoutingError) Error() string {
	if e.Err != nil {
		return e.Notice() + ": " + e.Err.Error()
	}
	return e.Notice()
}

func (e *RoutingError) Unwrap() error { return e.Err }

// Notice is the message shown to the user; it carries the raw status.
func (e *RoutingError) Notice() string { return routingFailedNoticePrefix + e.Status }

// ErrorKind implements domain.Classified.
func (e *RoutingError) ErrorKind() domain.ErrorKind { return domain.KindUpstream }

// GeolocationUnavailableError permanently blocks route requests for a session.
type GeolocationUnavailableError struct{}

func (e *GeolocationUnavailableError) Error() string { return NoticeGeolocationMissing }

// ErrorKind implements domain.Classified.
func (e *GeolocationUnavailableError) ErrorKind() domain.ErrorKind { return domain.KindUnavailable }

// NoticeFor returns the user-facing notice for err, or "" if err has none.
func NoticeFor(err error) string {
	var pre *PreconditionError
	if errors.As(err, &pre) {
		return pre.Notice
	}
	var re *RoutingError
	if errors.As(err, &re) {
		return re.Notice()
	}
	var geo *GeolocationUnavailableError
	if errors.As(err, &geo) {
		return NoticeGeolocationMissing
	}
	return ""
}
