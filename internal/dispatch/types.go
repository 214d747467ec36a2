// Package dispatch implements the location-resolution and route-planning
// pipeline behind the trip dispatch form: debounced geocoding lookups with
// token-based staleness rejection, a per-field resolution state machine,
// keyboard navigation, and a route coordinator that derives trip metrics
// from the two resolved endpoints.
package dispatch

import (
	"errors"

	"fleetops_backend/internal/geo"

	"github.com/google/uuid"
)

// FieldID names one of the planner's two location inputs.
type FieldID string

const (
	FieldOrigin      FieldID = "origin"
	FieldDestination FieldID = "destination"
)

// State is the tagged phase of a location field. Error text and a non-empty
// suggestion list are mutually exclusive because each phase owns its data.
type State string

const (
	// StateIdle: no query, no selection.
	StateIdle State = "idle"
	// StateSearching: debounce timer pending or request in flight.
	StateSearching State = "searching"
	// StateResults: suggestions visible.
	StateResults State = "results"
	// StateError: a field-local error visible instead of results.
	StateError State = "error"
	// StateResolved: a confirmed selection; terminal until the text is edited.
	StateResolved State = "resolved"
)

// ResolvedLocation is a user-confirmed place. It always corresponds exactly
// to the text currently shown in its field; any divergence nulls it.
type ResolvedLocation struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Key is a navigation input translated into state machine transitions.
type Key string

const (
	KeyArrowDown Key = "down"
	KeyArrowUp   Key = "up"
	KeyEnter     Key = "enter"
	KeyEscape    Key = "escape"
)

// FieldSnapshot is the externally visible state of one location field.
type FieldSnapshot struct {
	QueryText   string            `json:"queryText"`
	State       State             `json:"state"`
	Suggestions []geo.Suggestion  `json:"suggestions"`
	ActiveIndex int               `json:"activeIndex"`
	IsOpen      bool              `json:"isOpen"`
	IsLoading   bool              `json:"isLoading"`
	Error       string            `json:"error,omitempty"`
	Resolved    *ResolvedLocation `json:"resolved"`
}

// RouteSnapshot is the externally visible state of the route coordinator.
type RouteSnapshot struct {
	Result  *geo.RouteResult `json:"routeResult"`
	Loading bool             `json:"routeLoading"`
	Error   string           `json:"routeError,omitempty"`
}

// Snapshot is a full picture of a planner session, pushed to SSE subscribers
// after every state change.
type Snapshot struct {
	PlannerID   uuid.UUID     `json:"plannerId"`
	Origin      FieldSnapshot `json:"origin"`
	Destination FieldSnapshot `json:"destination"`
	Route       RouteSnapshot `json:"route"`
	CanDispatch bool          `json:"canDispatch"`
}

var (
	// ErrPlannerClosed is returned by operations on a torn-down planner.
	ErrPlannerClosed = errors.New("dispatch: planner closed")
	// ErrRegistryClosed is returned by Create after the registry shut down.
	ErrRegistryClosed = errors.New("dispatch: registry closed")
	// ErrUnknownField is returned for a field id other than origin/destination.
	ErrUnknownField = errors.New("dispatch: unknown field")
	// ErrIndexOutOfRange is returned for a selection or hover outside the
	// current suggestion list.
	ErrIndexOutOfRange = errors.New("dispatch: suggestion index out of range")
)
