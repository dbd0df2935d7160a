package company

import (
	"errors"
	"fmt"
	"sort"

	"airline_ops/internal/models"
	"airline_ops/pkg/logger"
)

// TickReport says what a time advance changed. It replaces the
// original's ambient "collection changed" flags with an explicit return
// value. Err aggregates non-fatal per-entity failures; the tick itself
// always completes.
type TickReport struct {
	Days            int         `json:"days"`
	Clock           models.Date `json:"clock"`
	FlightsRetired  []int       `json:"flights_retired,omitempty"`
	BookingsRetired []int       `json:"bookings_retired,omitempty"`
	NewlyInactive   []int       `json:"newly_inactive,omitempty"`
	Err             error       `json:"-"`
}

// AdvanceTime moves the simulation clock forward by the given number of
// days and runs the dependent transitions in fixed order: technician
// availability first, then flight and booking expiry, then the
// passenger activity refresh. Maintenance due dates are not touched;
// maintenance is triggered explicitly.
func (c *Company) AdvanceTime(days int) (TickReport, error) {
	if days < 0 {
		return TickReport{}, fmt.Errorf("advance by %d days: %w", days, ErrInvalidSchedule)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	report := TickReport{Days: days}
	if days == 0 {
		report.Clock = c.clock
		return report, nil
	}

	c.clock = c.clock.AddDays(days)
	report.Clock = c.clock

	// technicians free up before any maintenance attempted this tick
	c.technicians.advance(days)

	var errs []error

	// flight/booking lifecycle: departed flights move, never copy, to
	// the past collection; re-running the transition is a no-op because
	// retired flights are no longer in the active set
	for _, fid := range sortedFlightIDs(c.flights) {
		f := c.flights[fid]
		base := f.Base()
		base.TimeToFlight -= days
		if base.TimeToFlight > 0 {
			continue
		}
		base.TimeToFlight = 0
		delete(c.flights, fid)
		c.pastFlights[fid] = f
		report.FlightsRetired = append(report.FlightsRetired, fid)

		for _, b := range c.bookingsOnFlightLocked(fid) {
			if _, ok := c.passengers[b.PassengerID]; !ok {
				errs = append(errs, fmt.Errorf("booking %d passenger %d: %w", b.ID, b.PassengerID, ErrNotFound))
			}
			b.Status = models.BookingDeparted
			delete(c.bookings, b.ID)
			c.pastBookings[b.ID] = b
			report.BookingsRetired = append(report.BookingsRetired, b.ID)
		}
	}

	// activity refresh comes last so passengers whose only booking just
	// expired are reclassified within the same tick
	before := c.inactive
	c.refreshActivityLocked()
	for id := range c.inactive {
		if _, was := before[id]; !was {
			report.NewlyInactive = append(report.NewlyInactive, id)
		}
	}
	sort.Ints(report.NewlyInactive)

	report.Err = errors.Join(errs...)

	if c.metrics != nil {
		c.metrics.TicksAdvanced.Inc()
		c.metrics.DaysAdvanced.Add(float64(days))
		c.metrics.FlightsRetired.Add(float64(len(report.FlightsRetired)))
		if report.Err != nil {
			c.metrics.ErrorsCount.WithLabelValues("advance_time").Inc()
		}
	}
	c.log.Info("time advanced",
		logger.Field{Key: "days", Value: days},
		logger.Field{Key: "clock", Value: c.clock.String()},
		logger.Field{Key: "flights_retired", Value: len(report.FlightsRetired)},
		logger.Field{Key: "bookings_retired", Value: len(report.BookingsRetired)},
		logger.Field{Key: "newly_inactive", Value: len(report.NewlyInactive)})
	return report, nil
}

func (c *Company) bookingsOnFlightLocked(flightID int) []*models.Booking {
	var out []*models.Booking
	for _, b := range c.bookings {
		if b.FlightID == flightID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedFlightIDs(m map[int]models.Flight) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
