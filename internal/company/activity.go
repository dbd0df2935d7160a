package company

import (
	"fmt"
	"sort"

	"airline_ops/internal/models"
)

// The inactive-passenger set is a cache over a derived property: a
// passenger is inactive iff their last reservation is older than the
// inactivity window and they hold no active booking. The cache is
// rebuilt each tick and patched immediately on booking create/return.

func (c *Company) isInactiveNowLocked(p *models.Passenger) bool {
	if p.LastReservation.DaysUntil(c.clock) <= c.policy.InactivityWindowDays {
		return false
	}
	for _, b := range c.bookings {
		if b.PassengerID == p.ID {
			return false
		}
	}
	return true
}

// refreshActivityLocked rebuilds the inactive membership set against
// the current clock.
func (c *Company) refreshActivityLocked() {
	c.inactive = make(map[int]struct{})
	for _, p := range c.passengers {
		if c.isInactiveNowLocked(p) {
			c.inactive[p.ID] = struct{}{}
		}
	}
}

// IsInactive reports whether the passenger has had no reservation
// within the inactivity window and holds no active booking.
func (c *Company) IsInactive(passengerID int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.passengers[passengerID]; !ok {
		return false, fmt.Errorf("passenger %d: %w", passengerID, ErrNotFound)
	}
	_, inactive := c.inactive[passengerID]
	return inactive, nil
}

// InactivePassengers lists the ids in the inactive set, sorted.
func (c *Company) InactivePassengers() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]int, 0, len(c.inactive))
	for id := range c.inactive {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
