package uldk

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/kataster/internal/models"
)

// Provider is an interface that defines a method for looking up a parcel outline.
// Lookup takes a context and a parcel identifier, and returns the parcel polygon
// or an error wrapping ErrParcelNotFound or ErrTransport.
type Provider interface {
	Lookup(ctx context.Context, identifier string) (models.Polygon, error)
}

// Lookup error classes. Every error returned by a Provider wraps exactly one of them.
var (
	// ErrParcelNotFound is returned when the service answered without a usable coordinate list.
	ErrParcelNotFound = errors.New("parcel not found")
	// ErrTransport is returned when the request could not be completed.
	ErrTransport = errors.New("parcel service unreachable")
)
