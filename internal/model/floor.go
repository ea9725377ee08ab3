package model

// Floor describes one reservable floor of the building.  Floors are
// static configuration: they are built once at process start and never
// change afterwards.  A subset of seats on each floor is equipped with
// a charging socket; which seats those are is drawn at random during
// startup and only affects display.
//
// Fields:
//  ID            – short identifier used in seat keys (e.g. "floor1").
//  Name          – human readable floor name shown in the UI.
//  TotalSeats    – number of seats on the floor, numbered 1..TotalSeats.
//  ChargingSeats – set of seat numbers that have a charging socket.
type Floor struct {
	ID            string       `json:"id"`             // floor identifier, part of the seat key
	Name          string       `json:"name"`           // display name
	TotalSeats    int          `json:"total_seats"`    // seats are numbered 1..TotalSeats
	ChargingSeats map[int]bool `json:"charging_seats"` // seat numbers with a socket
}

// HasCharging reports whether the given seat number on this floor is
// equipped with a charging socket.
func (f Floor) HasCharging(seatNumber int) bool {
	return f.ChargingSeats[seatNumber]
}
