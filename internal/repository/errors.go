// Package repository holds the in-memory reservation store and the
// static floor catalog, together with the error values shared with the
// service layer.  Sentinel values let handlers distinguish between
// failure scenarios without inspecting message strings.
package repository

import (
	"errors"
	"fmt"
)

// ErrSeatTaken is returned when a reserve targets a seat that already
// has an active reservation by someone else.
var ErrSeatTaken = errors.New("seat is already reserved")

// ErrNotFoundOrUnauthorized is returned when a cancel targets a seat
// with no reservation, or one whose owner does not match the caller.
// The two cases are deliberately indistinguishable to the caller so a
// cancel cannot be used to probe other users' reservations.
var ErrNotFoundOrUnauthorized = errors.New("reservation not found or unauthorized")

// AlreadyReservedError is returned when the caller already holds a
// seat.  It carries the key of the existing reservation so the client
// can offer to cancel it.
type AlreadyReservedError struct {
	SeatKey string // key of the reservation the caller already holds
}

func (e *AlreadyReservedError) Error() string {
	return fmt.Sprintf("already holding a reservation for seat %s", e.SeatKey)
}

// AsAlreadyReserved unwraps err into an *AlreadyReservedError when the
// chain contains one.
func AsAlreadyReserved(err error) (*AlreadyReservedError, bool) {
	var e *AlreadyReservedError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
