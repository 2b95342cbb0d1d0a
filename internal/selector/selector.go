// Package selector maps a calendar date onto one item of a content pool so
// that every observer on the same day sees the same item.
package selector

import (
	"hash/fnv"

	"github.com/julianstephens/studyline/internal/utils"
)

// Index returns the pool index for date, or -1 when n < 1 or the date is
// malformed. Consecutive days walk the pool in order.
func Index(date string, n int) int {
	return index(date, 0, n)
}

// Pick returns the item for date. An empty pool or a malformed date yields
// fallback.
func Pick[T any](date string, pool []T, fallback T) T {
	i := Index(date, len(pool))
	if i < 0 {
		return fallback
	}
	return pool[i]
}

// PickSalted is Pick offset by a hash of salt, so two features drawing from the
// same pool on the same day land on different items.
func PickSalted[T any](date, salt string, pool []T, fallback T) T {
	i := index(date, saltOffset(salt), len(pool))
	if i < 0 {
		return fallback
	}
	return pool[i]
}

func index(date string, offset uint64, n int) int {
	if n < 1 {
		return -1
	}
	day, err := utils.EpochDay(date)
	if err != nil {
		return -1
	}
	m := int64(n)
	i := ((day % m) + m) % m
	return int((uint64(i) + offset%uint64(n)) % uint64(n))
}

func saltOffset(salt string) uint64 {
	if salt == "" {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(salt))
	return h.Sum64()
}
