package repository

import (
	"math/rand"

	"github.com/iliyamo/library-seat-reservation/internal/model"
)

// floorSpec is the static configuration a floor is built from.  The
// building layout is fixed: one ground floor with 50 seats and three
// upper floors with 100 seats each, half of the seats on every floor
// carrying a charging socket.
type floorSpec struct {
	id            string
	name          string
	totalSeats    int
	chargingSeats int
}

// floorSpecs lists the floors in enumeration order.  ListAll returns
// floors in exactly this order.
var floorSpecs = []floorSpec{
	{id: "ground", name: "Ground Floor", totalSeats: 50, chargingSeats: 25},
	{id: "floor1", name: "Floor 1", totalSeats: 100, chargingSeats: 50},
	{id: "floor2", name: "Floor 2", totalSeats: 100, chargingSeats: 50},
	{id: "floor3", name: "Floor 3", totalSeats: 100, chargingSeats: 50},
}

// FloorCatalog is the read-only set of floors.  It is built once at
// startup and never mutated afterwards, so it needs no locking.
type FloorCatalog struct {
	order  []string
	floors map[string]model.Floor
}

// NewFloorCatalog builds the catalog from the static floor specs.  For
// each floor a uniform random subset of seat numbers is marked as
// having a charging socket.  The draw is decorative and intentionally
// not reproducible across restarts.
func NewFloorCatalog() *FloorCatalog {
	c := &FloorCatalog{floors: make(map[string]model.Floor, len(floorSpecs))}
	for _, spec := range floorSpecs {
		c.order = append(c.order, spec.id)
		c.floors[spec.id] = model.Floor{
			ID:            spec.id,
			Name:          spec.name,
			TotalSeats:    spec.totalSeats,
			ChargingSeats: sampleSeats(spec.totalSeats, spec.chargingSeats),
		}
	}
	return c
}

// Describe returns the floor with the given id.  The boolean reports
// whether the floor exists.
func (c *FloorCatalog) Describe(floorID string) (model.Floor, bool) {
	f, ok := c.floors[floorID]
	return f, ok
}

// ListAll returns every floor in the fixed enumeration order.
func (c *FloorCatalog) ListAll() []model.Floor {
	out := make([]model.Floor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.floors[id])
	}
	return out
}

// sampleSeats draws n distinct seat numbers from 1..total without
// replacement.
func sampleSeats(total, n int) map[int]bool {
	if n > total {
		n = total
	}
	picked := make(map[int]bool, n)
	for _, i := range rand.Perm(total)[:n] {
		picked[i+1] = true
	}
	return picked
}
