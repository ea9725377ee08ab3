// Package service implements the reservation operations on top of the
// store, enforcing identity and input rules before any mutation.
package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/iliyamo/library-seat-reservation/internal/model"
	"github.com/iliyamo/library-seat-reservation/internal/monitoring"
	"github.com/iliyamo/library-seat-reservation/internal/queue"
	"github.com/iliyamo/library-seat-reservation/internal/repository"
)

// HoldWindow is how long a reservation is nominally held.  The expiry
// is advisory metadata: nothing evicts a reservation when the window
// passes, the seat stays occupied until cancelled.
const HoldWindow = 10 * time.Minute

// ErrUnauthenticated is returned by every operation when no identity
// is present.
var ErrUnauthenticated = errors.New("not authenticated")

// ErrInvalidInput is returned when a required field is missing, when
// the floor is not in the catalog, or when the seat number is outside
// the floor's range.
var ErrInvalidInput = errors.New("invalid input")

// EventSink receives domain events after successful mutations.  A nil
// sink disables publishing.  Implementations must not block the
// request path; the service invokes them from a separate goroutine and
// ignores their errors.
type EventSink interface {
	SeatReserved(ctx context.Context, ev queue.SeatReservedEvent) error
	SeatReleased(ctx context.Context, ev queue.SeatReleasedEvent) error
}

// ReservationService enforces the reservation invariants against
// caller identity and input.  Identity arrives explicitly with every
// call; the service never reads ambient session state.
type ReservationService struct {
	repo    *repository.ReservationRepo
	catalog *repository.FloorCatalog
	clock   clockwork.Clock
	events  EventSink
}

// NewReservationService constructs the service.  The repo and catalog
// must be non-nil; a nil clock defaults to the real clock and a nil
// events sink disables event publishing.
func NewReservationService(repo *repository.ReservationRepo, catalog *repository.FloorCatalog, clock clockwork.Clock, events EventSink) *ReservationService {
	if repo == nil || catalog == nil {
		panic("nil dependency passed to NewReservationService")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ReservationService{repo: repo, catalog: catalog, clock: clock, events: events}
}

// Reserve creates a reservation for the caller.  The checks run in a
// fixed order: identity, required fields, caller-already-holds-a-seat
// (reported with the existing seat key, regardless of what the new
// request asked for), floor and seat-number validity, and finally seat
// availability.  The availability and one-seat-per-caller checks are
// re-run atomically inside the store, so concurrent calls cannot
// double-book a seat or leave one caller holding two seats.
func (s *ReservationService) Reserve(ctx context.Context, user model.UserInfo, floor, seatNumber, displayName string) (model.Reservation, error) {
	if user.IsZero() {
		return model.Reservation{}, ErrUnauthenticated
	}
	if floor == "" || seatNumber == "" || displayName == "" {
		monitoring.ObserveOp("reserve", "invalid_input")
		return model.Reservation{}, ErrInvalidInput
	}

	// The existing-reservation check comes before floor validation so a
	// caller holding a seat always gets that answer first.
	if key, _, ok := s.repo.FindByRegistration(user.RegistrationNumber); ok {
		monitoring.ObserveOp("reserve", "already_reserved")
		return model.Reservation{}, &repository.AlreadyReservedError{SeatKey: key}
	}

	f, ok := s.catalog.Describe(floor)
	if !ok {
		monitoring.ObserveOp("reserve", "invalid_input")
		return model.Reservation{}, ErrInvalidInput
	}
	if n, err := strconv.Atoi(seatNumber); err != nil || n < 1 || n > f.TotalSeats {
		monitoring.ObserveOp("reserve", "invalid_input")
		return model.Reservation{}, ErrInvalidInput
	}

	now := s.clock.Now()
	res := model.Reservation{
		UserName:           displayName,
		RegistrationNumber: user.RegistrationNumber,
		Floor:              floor,
		SeatNumber:         seatNumber,
		ReservedAt:         now,
		ExpiresAt:          now.Add(HoldWindow),
	}
	if err := s.repo.Reserve(res); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			monitoring.ObserveOp("reserve", "seat_taken")
		} else {
			monitoring.ObserveOp("reserve", "already_reserved")
		}
		return model.Reservation{}, err
	}

	monitoring.ObserveOp("reserve", "success")
	monitoring.SetActiveReservations(s.repo.Len())
	s.publishReserved(res)
	return res, nil
}

// Cancel removes the caller's reservation at seatKey.  It fails with
// ErrNotFoundOrUnauthorized when no reservation exists there or when
// the display name or registration number does not match; the two
// cases are not distinguished.  The freed reservation is returned.
func (s *ReservationService) Cancel(ctx context.Context, user model.UserInfo, seatKey, displayName string) (model.Reservation, error) {
	if user.IsZero() {
		return model.Reservation{}, ErrUnauthenticated
	}

	res, err := s.repo.Cancel(seatKey, displayName, user.RegistrationNumber)
	if err != nil {
		monitoring.ObserveOp("cancel", "not_found_or_unauthorized")
		return model.Reservation{}, err
	}

	monitoring.ObserveOp("cancel", "success")
	monitoring.SetActiveReservations(s.repo.Len())
	s.publishReleased(res)
	return res, nil
}

// MyReservation returns the caller's current reservation, if any.  The
// boolean reports whether one exists; absence is not an error.
func (s *ReservationService) MyReservation(user model.UserInfo) (string, model.Reservation, error) {
	if user.IsZero() {
		return "", model.Reservation{}, ErrUnauthenticated
	}
	key, res, ok := s.repo.FindByRegistration(user.RegistrationNumber)
	if !ok {
		return "", model.Reservation{}, nil
	}
	return key, res, nil
}

// Snapshot returns every current reservation together with the floor
// catalog so a consumer can render per-seat occupancy and charging
// status.
func (s *ReservationService) Snapshot() (map[string]model.Reservation, []model.Floor) {
	return s.repo.Snapshot(), s.catalog.ListAll()
}

// publishReserved hands the event to the sink off the request path.
// Publish failures are the sink's problem to log; the reservation has
// already committed.
func (s *ReservationService) publishReserved(res model.Reservation) {
	if s.events == nil {
		return
	}
	ev := queue.SeatReservedEvent{
		SeatKey:            res.SeatKey(),
		Floor:              res.Floor,
		SeatNumber:         res.SeatNumber,
		UserName:           res.UserName,
		RegistrationNumber: res.RegistrationNumber,
		ReservedAt:         res.ReservedAt.UTC().Format(time.RFC3339),
		ExpiresAt:          res.ExpiresAt.UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.events.SeatReserved(ctx, ev)
	}()
}

func (s *ReservationService) publishReleased(res model.Reservation) {
	if s.events == nil {
		return
	}
	ev := queue.SeatReleasedEvent{
		SeatKey:            res.SeatKey(),
		UserName:           res.UserName,
		RegistrationNumber: res.RegistrationNumber,
		ReleasedAt:         s.clock.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.events.SeatReleased(ctx, ev)
	}()
}
