package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/library-seat-reservation/internal/model"
	"github.com/iliyamo/library-seat-reservation/internal/queue"
	"github.com/iliyamo/library-seat-reservation/internal/repository"
)

// recordingSink collects published events so tests can assert on them.
type recordingSink struct {
	mu       sync.Mutex
	reserved []queue.SeatReservedEvent
	released []queue.SeatReleasedEvent
}

func (s *recordingSink) SeatReserved(_ context.Context, ev queue.SeatReservedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved = append(s.reserved, ev)
	return nil
}

func (s *recordingSink) SeatReleased(_ context.Context, ev queue.SeatReleasedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = append(s.released, ev)
	return nil
}

func (s *recordingSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reserved), len(s.released)
}

func newTestService(t *testing.T) (*ReservationService, clockwork.FakeClock, *repository.ReservationRepo) {
	t.Helper()
	repo := repository.NewReservationRepo()
	clock := clockwork.NewFakeClock()
	svc := NewReservationService(repo, repository.NewFloorCatalog(), clock, nil)
	return svc, clock, repo
}

var (
	alice = model.UserInfo{RegistrationNumber: "R1", Name: "Alice"}
	bob   = model.UserInfo{RegistrationNumber: "R2", Name: "Bob"}
	guest = model.UserInfo{}
)

func TestReserve_SetsHoldingWindow(t *testing.T) {
	svc, clock, _ := newTestService(t)

	res, err := svc.Reserve(context.Background(), alice, "floor1", "12", "Alice")
	require.NoError(t, err)

	assert.Equal(t, clock.Now(), res.ReservedAt)
	assert.Equal(t, clock.Now().Add(10*time.Minute), res.ExpiresAt)
	assert.Equal(t, "floor1_12", res.SeatKey())
	assert.Equal(t, "R1", res.RegistrationNumber)
}

func TestReserve_Unauthenticated(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Reserve(context.Background(), guest, "floor1", "12", "Alice")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestReserve_MissingFields(t *testing.T) {
	svc, _, _ := newTestService(t)

	for name, args := range map[string][3]string{
		"no floor": {"", "12", "Alice"},
		"no seat":  {"floor1", "", "Alice"},
		"no name":  {"floor1", "12", ""},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Reserve(context.Background(), alice, args[0], args[1], args[2])
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestReserve_UnknownFloor(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Reserve(context.Background(), alice, "basement", "12", "Alice")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReserve_SeatNumberOutOfRange(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, seat := range []string{"0", "-3", "51", "abc"} {
		_, err := svc.Reserve(context.Background(), alice, "ground", seat, "Alice")
		assert.ErrorIs(t, err, ErrInvalidInput, "seat %q", seat)
	}
}

func TestReserve_AlreadyReservedBeforeValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Reserve(context.Background(), alice, "floor1", "12", "Alice")
	require.NoError(t, err)

	// Even a request for a floor that does not exist reports the
	// existing reservation first.
	_, err = svc.Reserve(context.Background(), alice, "basement", "999", "Alice")
	already, ok := repository.AsAlreadyReserved(err)
	require.True(t, ok, "expected AlreadyReservedError, got %v", err)
	assert.Equal(t, "floor1_12", already.SeatKey)
}

func TestCancel_Unauthenticated(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Cancel(context.Background(), guest, "floor1_12", "Alice")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestMyReservation_NoneIsNotAnError(t *testing.T) {
	svc, _, _ := newTestService(t)

	key, _, err := svc.MyReservation(alice)
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestExpiryIsAdvisoryOnly(t *testing.T) {
	svc, clock, repo := newTestService(t)

	res, err := svc.Reserve(context.Background(), alice, "floor1", "12", "Alice")
	require.NoError(t, err)

	// Eleven minutes later the reservation is past its expiry but must
	// still occupy the seat: nothing evicts it.
	clock.Advance(11 * time.Minute)
	assert.True(t, clock.Now().After(res.ExpiresAt))

	_, err = svc.Reserve(context.Background(), bob, "floor1", "12", "Bob")
	assert.ErrorIs(t, err, repository.ErrSeatTaken)

	key, _, err := svc.MyReservation(alice)
	require.NoError(t, err)
	assert.Equal(t, "floor1_12", key)
	assert.Equal(t, 1, repo.Len())
}

// TestReservationLifecycleScenario walks the full story: Alice takes a
// seat, Bob cannot take the same one, Alice cannot take a second,
// Alice frees hers, Bob takes it.
func TestReservationLifecycleScenario(t *testing.T) {
	svc, clock, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Reserve(ctx, alice, "floor1", "12", "Alice")
	require.NoError(t, err)
	assert.Equal(t, res.ReservedAt.Add(10*time.Minute), res.ExpiresAt)

	_, err = svc.Reserve(ctx, bob, "floor1", "12", "Bob")
	assert.ErrorIs(t, err, repository.ErrSeatTaken)

	_, err = svc.Reserve(ctx, alice, "floor2", "1", "Alice")
	already, ok := repository.AsAlreadyReserved(err)
	require.True(t, ok)
	assert.Equal(t, "floor1_12", already.SeatKey)

	_, err = svc.Cancel(ctx, alice, "floor1_12", "Alice")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	res, err = svc.Reserve(ctx, bob, "floor1", "12", "Bob")
	require.NoError(t, err)
	assert.Equal(t, "R2", res.RegistrationNumber)
}

func TestCancel_WrongDisplayNameKeepsReservation(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, alice, "floor1", "12", "Alice")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, alice, "floor1_12", "Mallory")
	assert.ErrorIs(t, err, repository.ErrNotFoundOrUnauthorized)
	assert.Equal(t, 1, repo.Len())
}

func TestSnapshot(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Reserve(context.Background(), alice, "floor1", "12", "Alice")
	require.NoError(t, err)

	reservations, floors := svc.Snapshot()
	assert.Len(t, reservations, 1)
	assert.Contains(t, reservations, "floor1_12")
	assert.Len(t, floors, 4)
}

func TestReserve_PublishesEvent(t *testing.T) {
	repo := repository.NewReservationRepo()
	sink := &recordingSink{}
	svc := NewReservationService(repo, repository.NewFloorCatalog(), clockwork.NewFakeClock(), sink)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, alice, "floor1", "12", "Alice")
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, alice, "floor1_12", "Alice")
	require.NoError(t, err)

	// Events are handed off on goroutines; give them a moment.
	require.Eventually(t, func() bool {
		reserved, released := sink.counts()
		return reserved == 1 && released == 1
	}, time.Second, 10*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, "floor1_12", sink.reserved[0].SeatKey)
	assert.Equal(t, "R1", sink.released[0].RegistrationNumber)
}

func TestReserve_ConcurrentCallersKeepInvariants(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()

	const workers = 40
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := model.UserInfo{RegistrationNumber: fmt.Sprintf("C%d", i%10), Name: "User"}
			seat := fmt.Sprintf("%d", i%20+1)
			_, _ = svc.Reserve(ctx, user, "floor1", seat, "User")
		}(i)
	}
	wg.Wait()

	// No seat is double-booked and no identity holds two seats.
	seen := make(map[string]string)
	for key, res := range repo.Snapshot() {
		prev, dup := seen[res.RegistrationNumber]
		assert.False(t, dup, "registration %s holds both %s and %s", res.RegistrationNumber, prev, key)
		seen[res.RegistrationNumber] = key
	}
	assert.LessOrEqual(t, repo.Len(), 10)
}
