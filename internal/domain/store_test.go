package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkingHours_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		wh := WorkingHours{Weekday: time.Monday, OpenTime: "09:00", CloseTime: "18:00", Active: true}
		assert.NoError(t, wh.Validate())
	})

	t.Run("open equals close", func(t *testing.T) {
		wh := WorkingHours{Weekday: time.Monday, OpenTime: "09:00", CloseTime: "09:00", Active: true}
		assert.ErrorIs(t, wh.Validate(), ErrWorkingHoursRange)
	})

	t.Run("open after close", func(t *testing.T) {
		wh := WorkingHours{Weekday: time.Monday, OpenTime: "18:00", CloseTime: "09:00", Active: true}
		assert.ErrorIs(t, wh.Validate(), ErrWorkingHoursRange)
	})

	t.Run("malformed time", func(t *testing.T) {
		wh := WorkingHours{Weekday: time.Monday, OpenTime: "25:00", CloseTime: "18:00", Active: true}
		assert.Error(t, wh.Validate())
	})

	t.Run("inactive entry skips checks", func(t *testing.T) {
		wh := WorkingHours{Weekday: time.Sunday, Active: false}
		assert.NoError(t, wh.Validate())
	})
}

func TestStore_HoursFor(t *testing.T) {
	s := &Store{
		WorkingHours: []WorkingHours{
			{Weekday: time.Monday, OpenTime: "09:00", CloseTime: "18:00", Active: true},
			{Weekday: time.Saturday, OpenTime: "10:00", CloseTime: "14:00", Active: true},
		},
	}

	mon := s.HoursFor(time.Monday)
	assert.True(t, mon.Active)
	assert.Equal(t, "09:00", mon.OpenTime.String())

	// a weekday without an entry reads as closed
	sun := s.HoursFor(time.Sunday)
	assert.False(t, sun.Active)
	assert.Equal(t, time.Sunday, sun.Weekday)
}

func TestStore_Location(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	s := &Store{Timezone: "Europe/Moscow"}
	assert.Equal(t, moscow, s.Location())

	assert.Equal(t, time.UTC, (&Store{}).Location())
	assert.Equal(t, time.UTC, (&Store{Timezone: "Mars/Olympus"}).Location())
}
