// Package restock infers how often items are used up and suggests the ones
// that are due for replenishment and no longer on hand.
package restock

import (
	"slices"
	"time"
)

// Cadence is the replenishment interval inferred from an item's FINISHED
// events.
type Cadence struct {
	Events   int           `json:"events"`
	First    time.Time     `json:"first"`
	Last     time.Time     `json:"last"`
	Interval time.Duration `json:"interval"`
	NextNeed time.Time     `json:"next_need"`
}

// Estimate computes the cadence of the given FINISHED timestamps, in any
// order. It reports false when fewer than two timestamps are given.
func Estimate(timestamps []time.Time) (Cadence, bool) {
	n := len(timestamps)
	if n < 2 {
		return Cadence{}, false
	}

	sorted := slices.Clone(timestamps)
	slices.SortFunc(sorted, func(a, b time.Time) int { return a.Compare(b) })

	first, last := sorted[0], sorted[n-1]
	// (last - first) / (n - 1) is the mean of the consecutive gaps.
	interval := last.Sub(first) / time.Duration(n-1)

	return Cadence{
		Events:   n,
		First:    first,
		Last:     last,
		Interval: interval,
		NextNeed: last.Add(interval),
	}, true
}

// DueAt reports whether the predicted next need has strictly passed at now.
func (c Cadence) DueAt(now time.Time) bool {
	return c.NextNeed.Before(now)
}

// IsDue reports whether an item with the given FINISHED timestamps is due
// for restock at now.
func IsDue(timestamps []time.Time, now time.Time) bool {
	c, ok := Estimate(timestamps)
	return ok && c.DueAt(now)
}
