package model

import (
	"fmt"
	"time"
)

// Reservation records a single user's hold on a single seat.  At most
// one reservation exists per seat key and at most one per registration
// number at any point in time; both invariants are enforced by the
// reservation store.  The expiry timestamp is advisory only: nothing in
// the system evicts a reservation when it passes ExpiresAt, the seat
// stays occupied until the owner cancels it explicitly.
//
// Fields:
//  UserName           – display name supplied at reservation time.
//  RegistrationNumber – the caller's identity key; the true ownership
//                       credential, distinct from the display name.
//  Floor              – floor identifier the seat belongs to.
//  SeatNumber         – seat number within the floor, in textual form as
//                       supplied by the client.
//  ReservedAt         – when the reservation was created.
//  ExpiresAt          – ReservedAt plus the holding window (10 minutes).
type Reservation struct {
	UserName           string    `json:"user_name"`
	RegistrationNumber string    `json:"registration_number"`
	Floor              string    `json:"floor"`
	SeatNumber         string    `json:"seat_number"`
	ReservedAt         time.Time `json:"reserved_at"`
	ExpiresAt          time.Time `json:"expires_at"`
}

// SeatKey returns the composite key identifying the reserved seat.
func (r Reservation) SeatKey() string {
	return SeatKey(r.Floor, r.SeatNumber)
}

// SeatKey builds the external seat identifier from a floor id and a
// seat number, e.g. ("floor1", "12") -> "floor1_12".
func SeatKey(floor, seatNumber string) string {
	return fmt.Sprintf("%s_%s", floor, seatNumber)
}
