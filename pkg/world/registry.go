package world

import (
	"iter"
	"slices"
	"sync"
)

// Entry pairs a location id with its location.
type Entry struct {
	ID       int
	Location *Location
}

// Registry holds every location in the world, keyed by id.
// At most one location exists per id. All methods are safe for concurrent use;
// the locations themselves are not, so exits should be added before sharing.
type Registry struct {
	mu        sync.RWMutex
	locations map[int]*Location
	order     []int // Ids in insertion order
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		locations: make(map[int]*Location),
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.locations)
}

func (r *Registry) IsEmpty() bool {
	return r.Len() == 0
}

// Contains reports whether a location is stored under id.
func (r *Registry) Contains(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.locations[id]
	return ok
}

// ContainsLocation reports whether loc itself (not an equal copy) is stored in the registry.
func (r *Registry) ContainsLocation(loc *Location) bool {
	if loc == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, stored := range r.locations {
		if stored == loc {
			return true
		}
	}
	return false
}

// Get returns the location stored under id. A miss returns (nil, false).
func (r *Registry) Get(id int) (*Location, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.locations[id]
	return loc, ok
}

// Put stores loc under id and returns the location it replaced, if any.
// A replaced location is dropped whole; its exits do not carry over.
// An overwritten id keeps its position in iteration order.
// A nil loc is ignored, so Get never reports a present but nil location.
func (r *Registry) Put(id int, loc *Location) (*Location, bool) {
	if loc == nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.locations[id]
	if !ok {
		r.order = append(r.order, id)
	}
	r.locations[id] = loc
	return prev, ok
}

// Remove deletes the location stored under id and returns it, if any.
func (r *Registry) Remove(id int) (*Location, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.locations[id]
	if !ok {
		return nil, false
	}
	delete(r.locations, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return prev, true
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.locations)
	r.order = nil
}

// IDs returns the stored ids in insertion order.
func (r *Registry) IDs() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Locations returns the stored locations in insertion order.
func (r *Registry) Locations() []*Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	locs := make([]*Location, 0, len(r.order))
	for _, id := range r.order {
		locs = append(locs, r.locations[id])
	}
	return locs
}

// Entries returns a snapshot of (id, location) pairs in insertion order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		entries = append(entries, Entry{ID: id, Location: r.locations[id]})
	}
	return entries
}

// All iterates over a snapshot of the registry, so the registry may be
// modified while iterating.
func (r *Registry) All() iter.Seq2[int, *Location] {
	entries := r.Entries()
	return func(yield func(int, *Location) bool) {
		for _, e := range entries {
			if !yield(e.ID, e.Location) {
				return
			}
		}
	}
}

// Equal reports whether both registries hold the same ids, descriptions and exits.
func (r *Registry) Equal(other *Registry) bool {
	if r == nil || other == nil {
		return r == other
	}
	mine := r.Entries()
	if len(mine) != other.Len() {
		return false
	}
	for _, e := range mine {
		theirs, ok := other.Get(e.ID)
		if !ok || !e.Location.Equal(theirs) {
			return false
		}
	}
	return true
}

// UnresolvedExits returns every exit whose destination has no location in the registry.
func (r *Registry) UnresolvedExits() []DanglingExit {
	var unresolved []DanglingExit
	for id, loc := range r.All() {
		if loc == nil {
			continue
		}
		for _, exit := range loc.Exits() {
			if !r.Contains(exit.Destination) {
				unresolved = append(unresolved, DanglingExit{
					LocationID:  id,
					Direction:   exit.Direction,
					Destination: exit.Destination,
				})
			}
		}
	}
	return unresolved
}
