// Package freq bins values into discrete buckets and picks the most frequent
// bucket. It backs the common hour and common duration of a common trip.
package freq

import (
	"math"
	"slices"

	"github.com/pkordes/travel-graph/backend/internal/domain"
)

// Histogram counts occurrences per bin key and remembers the order in which
// keys were first seen.
type Histogram[K comparable] struct {
	keys   []K
	counts map[K]int
}

// Bin maps every value through binFn and counts occurrences per key.
func Bin[T any, K comparable](values []T, binFn func(T) K) *Histogram[K] {
	h := &Histogram[K]{counts: make(map[K]int)}
	for _, v := range values {
		h.Add(binFn(v))
	}
	return h
}

// Add records one occurrence of key.
func (h *Histogram[K]) Add(key K) {
	if h.counts == nil {
		h.counts = make(map[K]int)
	}
	if _, ok := h.counts[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.counts[key]++
}

// Count returns the number of occurrences recorded for key.
func (h *Histogram[K]) Count(key K) int {
	return h.counts[key]
}

// Len returns the number of distinct keys.
func (h *Histogram[K]) Len() int {
	return len(h.keys)
}

// Keys returns the distinct keys in first-seen order.
func (h *Histogram[K]) Keys() []K {
	return slices.Clone(h.keys)
}

// MaxKey returns the key with the highest count. Among keys with equal
// counts the first-seen one wins. ok is false when the histogram is empty.
func (h *Histogram[K]) MaxKey() (key K, count int, ok bool) {
	return MaxBy(h.keys, func(k K) int { return h.counts[k] })
}

// MaxBy scans items in order and returns the first item whose weight is
// strictly greater than every weight before it. ok is false when items is
// empty.
func MaxBy[T any](items []T, weight func(T) int) (best T, bestWeight int, ok bool) {
	if len(items) == 0 {
		return best, 0, false
	}
	best, bestWeight = items[0], weight(items[0])
	for _, it := range items[1:] {
		if w := weight(it); w > bestWeight {
			best, bestWeight = it, w
		}
	}
	return best, bestWeight, true
}

// MostFrequentHour returns the most common start hour. ok is false when times
// is empty.
func MostFrequentHour(times []domain.LocalTime) (hour int, ok bool) {
	h := Bin(times, func(t domain.LocalTime) int { return t.Hour })
	hour, _, ok = h.MaxKey()
	return hour, ok
}

const (
	minuteBin = 60.0
	hourBin   = 60.0 * 60.0
)

// MostFrequentDuration returns the most common duration in seconds, rounded
// down to its bucket. Buckets are one minute wide unless some duration exceeds
// an hour, in which case they are one hour wide. Empty input yields 0.
func MostFrequentDuration(durations []float64) float64 {
	if len(durations) == 0 {
		return 0
	}

	width := minuteBin
	if slices.Max(durations) > hourBin {
		width = hourBin
	}

	h := Bin(durations, func(d float64) int64 { return int64(math.Floor(d / width)) })
	key, _, ok := h.MaxKey()
	if !ok {
		return 0
	}
	return float64(key) * width
}
