package company

import (
	"container/heap"
	"sort"

	"airline_ops/internal/models"
)

// technicianIndex is a min-heap over technicians keyed by time until
// available, ties broken by insertion order so selection is
// deterministic. Entities stay plain; the heap owns only wrapper entries.
type techEntry struct {
	tech *models.Technician
	seq  int // insertion order, breaks availability ties
	pos  int // heap position, maintained by Swap
}

type technicianIndex struct {
	entries []*techEntry
	byID    map[int]*techEntry
	nextSeq int
}

func newTechnicianIndex() *technicianIndex {
	return &technicianIndex{byID: make(map[int]*techEntry)}
}

func (ix *technicianIndex) Len() int { return len(ix.entries) }

func (ix *technicianIndex) Less(i, j int) bool {
	a, b := ix.entries[i], ix.entries[j]
	if a.tech.TimeWhenAvailable != b.tech.TimeWhenAvailable {
		return a.tech.TimeWhenAvailable < b.tech.TimeWhenAvailable
	}
	return a.seq < b.seq
}

func (ix *technicianIndex) Swap(i, j int) {
	ix.entries[i], ix.entries[j] = ix.entries[j], ix.entries[i]
	ix.entries[i].pos = i
	ix.entries[j].pos = j
}

func (ix *technicianIndex) Push(x any) {
	e := x.(*techEntry)
	e.pos = len(ix.entries)
	ix.entries = append(ix.entries, e)
}

func (ix *technicianIndex) Pop() any {
	old := ix.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	ix.entries = old[:n-1]
	return e
}

// insert adds a technician to the index.
func (ix *technicianIndex) insert(t *models.Technician) {
	e := &techEntry{tech: t, seq: ix.nextSeq}
	ix.nextSeq++
	ix.byID[t.ID] = e
	heap.Push(ix, e)
}

// remove takes the technician out of the index, e.g. for the duration of
// a maintenance session. Returns nil when the id is not indexed.
func (ix *technicianIndex) remove(id int) *models.Technician {
	e, ok := ix.byID[id]
	if !ok {
		return nil
	}
	heap.Remove(ix, e.pos)
	delete(ix.byID, id)
	return e.tech
}

// reinsert restores a previously removed technician with a refreshed
// availability time. A reinserted technician gets a fresh sequence
// number, so equal availability ties resolve in reinsertion order.
func (ix *technicianIndex) reinsert(t *models.Technician, timeWhenAvailable int) {
	t.TimeWhenAvailable = timeWhenAvailable
	ix.insert(t)
}

func (ix *technicianIndex) get(id int) *models.Technician {
	if e, ok := ix.byID[id]; ok {
		return e.tech
	}
	return nil
}

// soonestQualified returns the technician with the minimum time until
// available among those qualified for the model, or nil when none is.
func (ix *technicianIndex) soonestQualified(model string) *models.Technician {
	for _, t := range ix.sorted() {
		if t.Qualified(model) {
			return t
		}
	}
	return nil
}

// advance decrements every technician's time until available by the
// elapsed days, clamped at zero. Clamping can merge previously distinct
// keys, so the heap is rebuilt.
func (ix *technicianIndex) advance(days int) {
	for _, e := range ix.entries {
		e.tech.TimeWhenAvailable -= days
		if e.tech.TimeWhenAvailable < 0 {
			e.tech.TimeWhenAvailable = 0
		}
	}
	heap.Init(ix)
}

// sorted returns the indexed technicians in ascending availability
// order without disturbing the heap.
func (ix *technicianIndex) sorted() []*models.Technician {
	entries := make([]*techEntry, len(ix.entries))
	copy(entries, ix.entries)
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.tech.TimeWhenAvailable != b.tech.TimeWhenAvailable {
			return a.tech.TimeWhenAvailable < b.tech.TimeWhenAvailable
		}
		return a.seq < b.seq
	})
	out := make([]*models.Technician, len(entries))
	for i, e := range entries {
		out[i] = e.tech
	}
	return out
}
