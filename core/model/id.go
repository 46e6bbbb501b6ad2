package model

import "strconv"

// CreateID returns the smallest positive integer, rendered as a decimal
// string, that is not already a key of the given map.
func CreateID[V any](existing map[string]V) string {
	for i := 1; ; i++ {
		id := strconv.Itoa(i)
		if _, ok := existing[id]; !ok {
			return id
		}
	}
}

// IDAllocator hands out fresh IDs above everything seen so far. The splitter
// threads one allocator per entity kind through its pass so that allocation
// order is explicit and testable.
type IDAllocator struct {
	max int
}

// NewIDAllocator returns an allocator seeded from the given IDs. Non-numeric
// IDs are ignored; they cannot collide with allocated ones.
func NewIDAllocator(ids ...string) *IDAllocator {
	a := &IDAllocator{}
	a.Observe(ids...)
	return a
}

// Observe raises the allocator's floor to cover the given IDs.
func (a *IDAllocator) Observe(ids ...string) {
	for _, id := range ids {
		if n, err := strconv.Atoi(id); err == nil && n > a.max {
			a.max = n
		}
	}
}

// Next returns a fresh ID one above the highest observed or allocated so far.
func (a *IDAllocator) Next() string {
	a.max++
	return strconv.Itoa(a.max)
}
