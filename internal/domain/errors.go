package domain

import (
	"errors"
	"fmt"
)

// Sentinels for the reservation workflow. They are always wrapped in one of the
// typed errors below so callers can branch on the family or the exact cause.
var (
	ErrTripNotFound     = errors.New("trip not found")
	ErrRouteNotFound    = errors.New("route not found")
	ErrBusNotFound      = errors.New("bus not found")
	ErrBusModelNotFound = errors.New("bus model not found")
	ErrStopNotFound     = errors.New("stop not found")

	ErrReservationNotFound = errors.New("reservation not found")

	ErrInvalidFromStop = errors.New("from stop index out of range")
	ErrInvalidToStop   = errors.New("to stop index out of range")
	ErrInvalidSeat     = errors.New("seat index out of range")
	ErrInvalidRange    = errors.New("from stop index is after to stop index")

	ErrInvalidRouteStops = errors.New("route stop indices must be unique and run from 0")

	ErrSeatAlreadyReserved = errors.New("seat already reserved")
	ErrDuplicateID         = errors.New("duplicate id")
	ErrTripBusy            = errors.New("trip is locked by another request")

	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInconsistentOccupancy = errors.New("stored reservations overlap")
)

var reasons = []struct {
	err  error
	code string
}{
	{ErrTripNotFound, "trip_not_found"},
	{ErrRouteNotFound, "route_not_found"},
	{ErrBusNotFound, "bus_not_found"},
	{ErrBusModelNotFound, "bus_model_not_found"},
	{ErrStopNotFound, "stop_not_found"},
	{ErrReservationNotFound, "reservation_not_found"},
	{ErrInvalidFromStop, "invalid_from_stop"},
	{ErrInvalidToStop, "invalid_to_stop"},
	{ErrInvalidSeat, "invalid_seat"},
	{ErrInvalidRange, "invalid_range"},
	{ErrInvalidRouteStops, "invalid_route_stops"},
	{ErrSeatAlreadyReserved, "seat_already_reserved"},
	{ErrDuplicateID, "duplicate_id"},
	{ErrTripBusy, "trip_busy"},
	{ErrInvalidCredentials, "invalid_credentials"},
	{ErrInconsistentOccupancy, "internal_inconsistency"},
}

// Reason returns a stable snake_case code for the sentinel wrapped by err, or "" when none matches.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.code
		}
	}
	return ""
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// InternalError reports faults the caller cannot fix by changing the request.
type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
