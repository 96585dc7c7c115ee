// Package screen holds the search screen state machine: a pure reducer over
// (state, event) and a store that runs lookups through it.
package screen

import "github.com/UnknownOlympus/kataster/internal/models"

// Phase is the screen-level state.
type Phase int

const (
	PhaseIdle              Phase = iota // PhaseIdle is the state before the first search.
	PhaseLoading                        // PhaseLoading waits for the lookup of the latest search.
	PhaseDisplayingPolygon              // PhaseDisplayingPolygon shows the outline of a found parcel.
	PhaseShowingError                   // PhaseShowingError shows the not-found or transport message.
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseDisplayingPolygon:
		return "displaying_polygon"
	case PhaseShowingError:
		return "showing_error"
	default:
		return "unknown"
	}
}

// User-facing messages for the two failure classes.
const (
	MessageNotFound       = "No parcel found for this identifier."
	MessageTransportError = "Failed to fetch parcel data."
)

// State is the complete screen state. It is a value: Reduce never mutates its input.
type State struct {
	Phase      Phase
	Identifier string
	Polygon    models.Polygon
	Error      string
	Loading    bool
	// Seq is the sequence number of the latest search; results of older searches are dropped.
	Seq uint64
	// Revision increases on every accepted polygon change.
	Revision uint64
}

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// SearchStarted is dispatched when the user triggers a lookup.
type SearchStarted struct {
	Identifier string
	Seq        uint64
}

// LookupFinished carries the outcome of the search numbered Seq.
type LookupFinished struct {
	Seq    uint64
	Result models.LookupResult
}

func (SearchStarted) isEvent()  {}
func (LookupFinished) isEvent() {}

// Reduce returns the state that follows s after ev.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case SearchStarted:
		s.Phase = PhaseLoading
		s.Identifier = ev.Identifier
		s.Seq = ev.Seq
		s.Loading = true
		s.Error = ""
		if !s.Polygon.Empty() {
			s.Polygon = nil
			s.Revision++
		}
		return s

	case LookupFinished:
		if ev.Seq != s.Seq || !s.Loading {
			return s
		}
		s.Loading = false

		switch ev.Result.Status {
		case models.LookupSuccess:
			s.Phase = PhaseDisplayingPolygon
			s.Polygon = ev.Result.Polygon
			s.Revision++
		case models.LookupNotFound:
			s.Phase = PhaseShowingError
			s.Error = MessageNotFound
		default:
			s.Phase = PhaseShowingError
			s.Error = MessageTransportError
		}
		return s

	default:
		return s
	}
}
