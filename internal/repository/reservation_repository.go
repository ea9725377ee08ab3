package repository

import (
	"sync"

	"github.com/iliyamo/library-seat-reservation/internal/model"
)

// ReservationRepo is the single stateful component of the system: the
// mapping from seat key to reservation.  It lives entirely in process
// memory; nothing is persisted across restarts.
//
// All compound check-then-act sequences run under one acquisition of
// the mutex, so the two store invariants hold under concurrent
// callers: at most one reservation per seat key, and at most one per
// registration number.  The service layer is the sole writer.
type ReservationRepo struct {
	mu    sync.RWMutex
	seats map[string]model.Reservation
}

// NewReservationRepo returns an empty reservation store.
func NewReservationRepo() *ReservationRepo {
	return &ReservationRepo{seats: make(map[string]model.Reservation)}
}

// Reserve inserts res under its seat key.  Both invariant checks and
// the insert happen under a single lock acquisition.  It returns an
// *AlreadyReservedError when the registration number already holds a
// seat (reporting which one), ErrSeatTaken when the target seat is
// occupied, and nil on success.
func (r *ReservationRepo) Reserve(res model.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, existing := range r.seats {
		if existing.RegistrationNumber == res.RegistrationNumber {
			return &AlreadyReservedError{SeatKey: key}
		}
	}

	key := res.SeatKey()
	if _, taken := r.seats[key]; taken {
		return ErrSeatTaken
	}

	r.seats[key] = res
	return nil
}

// Cancel removes the reservation at seatKey.  It succeeds only when a
// reservation exists there and both the display name and registration
// number match the stored record; every other case fails with
// ErrNotFoundOrUnauthorized.  The removed reservation is returned so
// callers can report which seat was freed.
func (r *ReservationRepo) Cancel(seatKey, userName, registrationNumber string) (model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.seats[seatKey]
	if !ok || res.UserName != userName || res.RegistrationNumber != registrationNumber {
		return model.Reservation{}, ErrNotFoundOrUnauthorized
	}

	delete(r.seats, seatKey)
	return res, nil
}

// FindByRegistration scans for the reservation held by the given
// registration number.  The one-seat-per-identity invariant means at
// most one match exists.  The boolean reports whether one was found;
// absence is not an error.
func (r *ReservationRepo) FindByRegistration(registrationNumber string) (string, model.Reservation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for key, res := range r.seats {
		if res.RegistrationNumber == registrationNumber {
			return key, res, true
		}
	}
	return "", model.Reservation{}, false
}

// Snapshot returns a copy of the full seat map for read-only use, such
// as rendering the seat matrix.  Mutating the returned map does not
// affect the store.
func (r *ReservationRepo) Snapshot() map[string]model.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]model.Reservation, len(r.seats))
	for key, res := range r.seats {
		out[key] = res
	}
	return out
}

// Len reports the current number of active reservations.
func (r *ReservationRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.seats)
}
