package restock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/pantrypal/internal/model"
)

func TestBoard(t *testing.T) {
	b := NewBoard()

	_, ok := b.Latest()
	assert.False(t, ok)

	changed := b.Changed()
	items := []model.Item{{ID: 1, Name: "Rice"}}
	b.Publish(items, day(1))

	select {
	case <-changed:
	default:
		t.Fatal("expected waiters to be woken by Publish")
	}

	snap, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, items, snap.Items)
	assert.True(t, snap.ComputedAt.Equal(day(1)))

	// Mutating the returned slice does not leak into the board.
	snap.Items[0].Name = "Changed"
	again, _ := b.Latest()
	assert.Equal(t, "Rice", again.Items[0].Name)

	b.Publish(nil, day(2))
	snap, _ = b.Latest()
	assert.NotNil(t, snap.Items)
	assert.Empty(t, snap.Items)
}
