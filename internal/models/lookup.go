package models

import "time"

// LookupStatus classifies the outcome of a single parcel lookup.
type LookupStatus int

const (
	// LookupSuccess means the service answered with a parsable parcel geometry.
	LookupSuccess LookupStatus = iota
	// LookupNotFound means the service answered, but no coordinate list could be extracted.
	LookupNotFound
	// LookupTransportError means the request could not be completed at all.
	LookupTransportError
)

// String returns the label used in logs, metrics and the journal.
func (s LookupStatus) String() string {
	switch s {
	case LookupSuccess:
		return "success"
	case LookupNotFound:
		return "not_found"
	case LookupTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// ParseLookupStatus is the inverse of LookupStatus.String.
func ParseLookupStatus(label string) (LookupStatus, bool) {
	for _, status := range []LookupStatus{LookupSuccess, LookupNotFound, LookupTransportError} {
		if status.String() == label {
			return status, true
		}
	}
	return 0, false
}

// LookupResult is the tagged outcome of a parcel lookup.
// Polygon is set only for LookupSuccess, Err only for the failure statuses.
type LookupResult struct {
	Status  LookupStatus
	Polygon Polygon
	Err     error
}

// LookupRecord is a journal entry describing one completed lookup.
type LookupRecord struct {
	ID         int64         // ID is the journal row identifier.
	Identifier string        // Identifier is the parcel identifier as typed by the user.
	Status     LookupStatus  // Status is the classified outcome.
	Points     int           // Points is the number of polygon vertices on success.
	Error      string        // Error holds the failure message, empty on success.
	Duration   time.Duration // Duration is the wall time of the remote call.
	CreatedAt  time.Time     // CreatedAt is set by the database.
}
