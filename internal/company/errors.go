// Package company implements the airline's fleet-maintenance and
// booking-lifecycle engine: an in-memory, single-owner state machine
// that only moves when time is advanced explicitly.
//
// The sentinel errors below are the recoverable failure kinds surfaced
// to callers. They are always wrapped with the entity id and operation
// context, so handlers can both match with errors.Is and redisplay a
// useful message. Corrupted internal structures are programming errors
// and panic instead.
package company

import "errors"

// ErrNotFound is returned when an id does not name a live entity of the
// expected kind.
var ErrNotFound = errors.New("not found")

// ErrNoQualifiedTechnician is returned when no technician in the
// availability index is qualified for the airplane's model. The airplane
// keeps its place in the maintenance schedule; the caller retries later.
var ErrNoQualifiedTechnician = errors.New("no qualified technician")

// ErrFlightFull is returned when a commercial flight has no unoccupied
// seats left.
var ErrFlightFull = errors.New("flight full")

// ErrSeatUnavailable is returned when a requested seat label is unknown
// for the flight or already occupied.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrAlreadyRented is returned on a second purchase attempt against a
// rented flight that already has a buyer.
var ErrAlreadyRented = errors.New("already rented")

// ErrFlightAlreadyDeparted is returned when an operation needs a flight
// that has moved to the past collection, e.g. returning a ticket whose
// flight departed while the booking was still active.
var ErrFlightAlreadyDeparted = errors.New("flight already departed")

// ErrInvalidSchedule is returned for non-positive maintenance periods,
// malformed dates and negative time deltas.
var ErrInvalidSchedule = errors.New("invalid schedule")

// ErrDuplicateAssignment is returned when a technician who is still
// mid-session is asked to take another assignment.
var ErrDuplicateAssignment = errors.New("technician already assigned")
