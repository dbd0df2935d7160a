package company

import (
	"container/heap"
	"fmt"
	"sort"

	"airline_ops/internal/models"
	"airline_ops/pkg/logger"
)

// fleetSchedule is a min-heap over airplanes keyed by next-maintenance
// date, ties broken by airplane id. Any change to an airplane's next
// maintenance date must go through fix so the heap order stays truthful.
type scheduleEntry struct {
	airplane *models.Airplane
	pos      int
}

type fleetSchedule struct {
	entries []*scheduleEntry
	byID    map[int]*scheduleEntry
}

func newFleetSchedule() *fleetSchedule {
	return &fleetSchedule{byID: make(map[int]*scheduleEntry)}
}

func (fs *fleetSchedule) Len() int { return len(fs.entries) }

func (fs *fleetSchedule) Less(i, j int) bool {
	a, b := fs.entries[i].airplane, fs.entries[j].airplane
	if cmp := a.NextMaintenance.Compare(b.NextMaintenance); cmp != 0 {
		return cmp < 0
	}
	return a.ID < b.ID
}

func (fs *fleetSchedule) Swap(i, j int) {
	fs.entries[i], fs.entries[j] = fs.entries[j], fs.entries[i]
	fs.entries[i].pos = i
	fs.entries[j].pos = j
}

func (fs *fleetSchedule) Push(x any) {
	e := x.(*scheduleEntry)
	e.pos = len(fs.entries)
	fs.entries = append(fs.entries, e)
}

func (fs *fleetSchedule) Pop() any {
	old := fs.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	fs.entries = old[:n-1]
	return e
}

func (fs *fleetSchedule) insert(a *models.Airplane) {
	e := &scheduleEntry{airplane: a}
	fs.byID[a.ID] = e
	heap.Push(fs, e)
}

func (fs *fleetSchedule) remove(id int) {
	if e, ok := fs.byID[id]; ok {
		heap.Remove(fs, e.pos)
		delete(fs.byID, id)
	}
}

// fix restores heap order after the airplane's next maintenance date
// changed in place.
func (fs *fleetSchedule) fix(id int) {
	if e, ok := fs.byID[id]; ok {
		heap.Fix(fs, e.pos)
	}
}

// peek returns the soonest-due airplane without removing it.
func (fs *fleetSchedule) peek() *models.Airplane {
	if len(fs.entries) == 0 {
		return nil
	}
	return fs.entries[0].airplane
}

// sorted returns all scheduled airplanes in due order.
func (fs *fleetSchedule) sorted() []*models.Airplane {
	entries := make([]*scheduleEntry, len(fs.entries))
	copy(entries, fs.entries)
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].airplane, entries[j].airplane
		if cmp := a.NextMaintenance.Compare(b.NextMaintenance); cmp != 0 {
			return cmp < 0
		}
		return a.ID < b.ID
	})
	out := make([]*models.Airplane, len(entries))
	for i, e := range entries {
		out[i] = e.airplane
	}
	return out
}

// ===== company-level maintenance operations =====

// NextDueMaintenance returns the airplane with the soonest maintenance
// date. ok is false when the fleet is empty.
func (c *Company) NextDueMaintenance() (models.Airplane, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a := c.schedule.peek()
	if a == nil {
		return models.Airplane{}, false
	}
	return *a, true
}

// MaintenanceSessions returns the next n scheduled sessions in due
// order; n < 1 means all of them.
func (c *Company) MaintenanceSessions(n int) []models.Airplane {
	c.mu.Lock()
	defer c.mu.Unlock()
	sorted := c.schedule.sorted()
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	out := make([]models.Airplane, len(sorted))
	for i, a := range sorted {
		out[i] = *a
	}
	return out
}

// MaintenanceDueBetween returns the airplanes whose next maintenance
// falls inside [from, to], in due order.
func (c *Company) MaintenanceDueBetween(from, to models.Date) ([]models.Airplane, error) {
	if !from.Valid() || !to.Valid() || to.Before(from) {
		return nil, fmt.Errorf("maintenance window %s..%s: %w", from, to, ErrInvalidSchedule)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Airplane
	for _, a := range c.schedule.sorted() {
		if a.NextMaintenance.Before(from) {
			continue
		}
		if a.NextMaintenance.After(to) {
			break
		}
		out = append(out, *a)
	}
	return out, nil
}

// PerformMaintenance services the airplane with the soonest-free
// qualified technician. The airplane's next due date advances by its
// maintenance period and the technician becomes unavailable for the
// session duration. When no technician qualifies the schedule is left
// untouched and the caller retries later.
func (c *Company) PerformMaintenance(airplaneID int) (models.Technician, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.fleet[airplaneID]
	if !ok {
		return models.Technician{}, fmt.Errorf("airplane %d: %w", airplaneID, ErrNotFound)
	}
	t := c.technicians.soonestQualified(a.Model)
	if t == nil {
		return models.Technician{}, fmt.Errorf("airplane %d model %q: %w", a.ID, a.Model, ErrNoQualifiedTechnician)
	}
	return c.performMaintenanceLocked(a, t)
}

// PerformMaintenanceWith services the airplane with an explicitly chosen
// technician instead of the soonest-free one.
func (c *Company) PerformMaintenanceWith(airplaneID, technicianID int) (models.Technician, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.fleet[airplaneID]
	if !ok {
		return models.Technician{}, fmt.Errorf("airplane %d: %w", airplaneID, ErrNotFound)
	}
	t := c.technicians.get(technicianID)
	if t == nil {
		return models.Technician{}, fmt.Errorf("technician %d: %w", technicianID, ErrNotFound)
	}
	if !t.Qualified(a.Model) {
		return models.Technician{}, fmt.Errorf("technician %d model %q: %w", t.ID, a.Model, ErrNoQualifiedTechnician)
	}
	if t.TimeWhenAvailable > 0 {
		return models.Technician{}, fmt.Errorf("technician %d: %w", t.ID, ErrDuplicateAssignment)
	}
	return c.performMaintenanceLocked(a, t)
}

// PerformNextDueMaintenance services the soonest-due airplane of the
// whole fleet.
func (c *Company) PerformNextDueMaintenance() (models.Airplane, models.Technician, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a := c.schedule.peek()
	if a == nil {
		return models.Airplane{}, models.Technician{}, fmt.Errorf("fleet empty: %w", ErrNotFound)
	}
	t := c.technicians.soonestQualified(a.Model)
	if t == nil {
		return models.Airplane{}, models.Technician{}, fmt.Errorf("airplane %d model %q: %w", a.ID, a.Model, ErrNoQualifiedTechnician)
	}
	tech, err := c.performMaintenanceLocked(a, t)
	return *a, tech, err
}

func (c *Company) performMaintenanceLocked(a *models.Airplane, t *models.Technician) (models.Technician, error) {
	// the technician leaves the index for the session and reenters with
	// a refreshed availability time, keeping the ordering invariant
	c.technicians.remove(t.ID)
	c.technicians.reinsert(t, t.TimeWhenAvailable+c.policy.MaintenanceSessionDays)

	a.AssignedTechnicianID = t.ID
	a.NextMaintenance = a.NextMaintenance.AddDays(a.MaintenancePeriodDays)
	c.schedule.fix(a.ID)

	if c.metrics != nil {
		c.metrics.MaintenanceSessions.Inc()
	}
	c.log.Info("maintenance performed",
		logger.Field{Key: "airplane_id", Value: a.ID},
		logger.Field{Key: "technician_id", Value: t.ID},
		logger.Field{Key: "next_maintenance", Value: a.NextMaintenance.String()})
	return *t, nil
}

// RescheduleMaintenance moves an airplane's next maintenance to an
// explicit date, repositioning it in the schedule.
func (c *Company) RescheduleMaintenance(airplaneID int, next models.Date) error {
	if !next.Valid() {
		return fmt.Errorf("reschedule maintenance: date %s: %w", next, ErrInvalidSchedule)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.fleet[airplaneID]
	if !ok {
		return fmt.Errorf("airplane %d: %w", airplaneID, ErrNotFound)
	}
	a.NextMaintenance = next
	c.schedule.fix(a.ID)

	c.log.Info("maintenance rescheduled",
		logger.Field{Key: "airplane_id", Value: a.ID},
		logger.Field{Key: "next_maintenance", Value: next.String()})
	return nil
}

// SetMaintenancePeriod changes the airplane's maintenance period. The
// already scheduled date stays authoritative; the new period applies
// from the next completed maintenance on.
func (c *Company) SetMaintenancePeriod(airplaneID, days int) error {
	if days < 1 {
		return fmt.Errorf("maintenance period %d: %w", days, ErrInvalidSchedule)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.fleet[airplaneID]
	if !ok {
		return fmt.Errorf("airplane %d: %w", airplaneID, ErrNotFound)
	}
	a.MaintenancePeriodDays = days
	return nil
}
