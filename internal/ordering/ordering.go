// Package ordering holds the position invariants shared by every
// profile-scoped ordered collection (pages, gallery items). Positions are
// dense and zero based: a valid n-item collection uses exactly 0..n-1.
package ordering

import (
	"errors"
	"sort"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrIndexOutOfRange = errors.New("index_out_of_range")
	ErrNotPermutation  = errors.New("not_a_permutation")
)

// Entry pairs an item ID with its position inside the collection.
type Entry struct {
	ID       snowflake.ID
	Position int
}

// Update is a single position write derived from a reorder.
type Update struct {
	ID       snowflake.ID
	Position int
}

// Validate reports whether the entries form a dense zero-based ordering:
// sorted positions are exactly 0..n-1 with no duplicates.
func Validate(entries []Entry) bool {
	positions := make([]int, len(entries))
	for i, e := range entries {
		positions[i] = e.Position
	}
	sort.Ints(positions)
	for i, p := range positions {
		if p != i {
			return false
		}
	}
	return true
}

// Sort returns a copy of entries ordered by position.
func Sort(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	return sorted
}

// Move applies array-move semantics to a valid collection: the entry at
// position from is removed and reinserted at position to, shifting everything
// strictly between the two positions by one. The result is renumbered to
// 0..n-1. The input is not modified.
func Move(entries []Entry, from, to int) ([]Entry, error) {
	n := len(entries)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, ErrIndexOutOfRange
	}

	sorted := Sort(entries)
	moved := sorted[from]
	sorted = append(sorted[:from], sorted[from+1:]...)

	result := make([]Entry, 0, n)
	result = append(result, sorted[:to]...)
	result = append(result, moved)
	result = append(result, sorted[to:]...)

	for i := range result {
		result[i].Position = i
	}
	return result, nil
}

// CloseGap renumbers entries after the item at removedPosition has been
// deleted: every position above the removed one decrements by one. Entries at
// or below the gap are untouched, so removing the last item is a no-op.
func CloseGap(entries []Entry, removedPosition int) []Entry {
	result := make([]Entry, len(entries))
	copy(result, entries)
	for i := range result {
		if result[i].Position > removedPosition {
			result[i].Position--
		}
	}
	return result
}

// Next returns the position for an appended item. An empty collection starts
// at zero; existing entries are never renumbered by an append.
func Next(entries []Entry) int {
	return len(entries)
}

// Changed returns the minimal update set between two orderings of the same
// collection: one Update per entry whose position differs from before.
func Changed(before, after []Entry) []Update {
	prev := make(map[snowflake.ID]int, len(before))
	for _, e := range before {
		prev[e.ID] = e.Position
	}
	var updates []Update
	for _, e := range Sort(after) {
		if p, ok := prev[e.ID]; !ok || p != e.Position {
			updates = append(updates, Update{ID: e.ID, Position: e.Position})
		}
	}
	return updates
}

// SamePermutation reports whether submitted covers exactly the same ID set as
// current, with dense positions. Reorder requests from stale clients fail this
// check instead of silently corrupting the stored order.
func SamePermutation(current, submitted []Entry) error {
	if len(current) != len(submitted) {
		return ErrNotPermutation
	}
	if !Validate(submitted) {
		return ErrNotPermutation
	}
	ids := make(map[snowflake.ID]struct{}, len(current))
	for _, e := range current {
		ids[e.ID] = struct{}{}
	}
	for _, e := range submitted {
		if _, ok := ids[e.ID]; !ok {
			return ErrNotPermutation
		}
		delete(ids, e.ID)
	}
	return nil
}
