package reporting

import "errors"

var (
	// ErrInvalidPeriod is returned when a reporting period cannot be resolved.
	ErrInvalidPeriod = errors.New("reporting: invalid period")
	// ErrInvalidPhase is returned for an unknown stay or entry phase.
	ErrInvalidPhase = errors.New("reporting: invalid phase")
	// ErrInvalidAmount is returned when a stay amount is not positive.
	ErrInvalidAmount = errors.New("reporting: invalid amount")
	// ErrInvalidStayTimes is returned when a stay ends before it starts.
	ErrInvalidStayTimes = errors.New("reporting: stay ends before start")
	// ErrInvalidRoomState is returned for an unknown room state.
	ErrInvalidRoomState = errors.New("reporting: invalid room state")
	// ErrRoomHasOpenStay is returned when freeing a room that still has an open stay.
	ErrRoomHasOpenStay = errors.New("reporting: room has an open stay")
	// ErrStayNotFound is returned when a stay cannot be found.
	ErrStayNotFound = errors.New("reporting: stay not found")
	// ErrQueryFailed wraps storage errors raised while reading the ledger.
	ErrQueryFailed = errors.New("reporting: query failed")
)
