package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("CET", 3600))
	c := NewFakeClock(start)

	assert.Equal(t, time.UTC, c.Now().Location())
	assert.True(t, c.Now().Equal(start))

	c.Advance(36 * time.Hour)
	assert.True(t, c.Now().Equal(start.Add(36*time.Hour)))

	later := start.AddDate(0, 1, 0)
	c.Set(later)
	assert.True(t, c.Now().Equal(later))
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	got := System{}.Now()
	assert.False(t, got.Before(before))
}
