// Package queue defines the message payloads exchanged over the
// message broker and the background consumer that records them.
package queue

// SeatReservedEvent is published after a reservation is successfully
// created.  It carries enough information for downstream consumers to
// log or notify without querying the service.
type SeatReservedEvent struct {
	SeatKey            string `json:"seat_key"`
	Floor              string `json:"floor"`
	SeatNumber         string `json:"seat_number"`
	UserName           string `json:"user_name"`
	RegistrationNumber string `json:"registration_number"`
	ReservedAt         string `json:"reserved_at"`
	ExpiresAt          string `json:"expires_at"`
}

// SeatReleasedEvent is published after a reservation is cancelled and
// the seat becomes free again.
type SeatReleasedEvent struct {
	SeatKey            string `json:"seat_key"`
	UserName           string `json:"user_name"`
	RegistrationNumber string `json:"registration_number"`
	ReleasedAt         string `json:"released_at"`
}
