package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorCatalog_ListAllOrder(t *testing.T) {
	c := NewFloorCatalog()

	floors := c.ListAll()
	require.Len(t, floors, 4)

	var ids []string
	for _, f := range floors {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"ground", "floor1", "floor2", "floor3"}, ids)
}

func TestFloorCatalog_Describe(t *testing.T) {
	c := NewFloorCatalog()

	f, ok := c.Describe("ground")
	require.True(t, ok)
	assert.Equal(t, "Ground Floor", f.Name)
	assert.Equal(t, 50, f.TotalSeats)

	_, ok = c.Describe("basement")
	assert.False(t, ok)
}

func TestFloorCatalog_ChargingSeatsWithinBounds(t *testing.T) {
	c := NewFloorCatalog()

	expected := map[string]int{"ground": 25, "floor1": 50, "floor2": 50, "floor3": 50}
	for _, f := range c.ListAll() {
		assert.Len(t, f.ChargingSeats, expected[f.ID], "floor %s", f.ID)
		for seat := range f.ChargingSeats {
			assert.GreaterOrEqual(t, seat, 1, "floor %s", f.ID)
			assert.LessOrEqual(t, seat, f.TotalSeats, "floor %s", f.ID)
		}
	}
}
