package company

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"airline_ops/internal/models"
	"airline_ops/pkg/logger"
)

// Snapshot captures every entity collection as opaque records. The
// ordered indexes are not persisted; they are derived state and get
// rebuilt on restore.
func (c *Company) Snapshot() models.CompanySnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := models.CompanySnapshot{
		Name:             c.name,
		Clock:            c.clock,
		Flights:          flightRecords(c.flights),
		PastFlights:      flightRecords(c.pastFlights),
		NextPassengerID:  c.nextPassengerID,
		NextAirplaneID:   c.nextAirplaneID,
		NextTechnicianID: c.nextTechnicianID,
		NextFlightID:     c.nextFlightID,
		NextBookingID:    c.nextBookingID,
	}
	for _, p := range c.passengers {
		cp := *p
		cp.Tickets = append([]models.Ticket(nil), p.Tickets...)
		snap.Passengers = append(snap.Passengers, &cp)
	}
	sort.Slice(snap.Passengers, func(i, j int) bool { return snap.Passengers[i].ID < snap.Passengers[j].ID })
	for _, a := range c.fleet {
		cp := *a
		snap.Airplanes = append(snap.Airplanes, &cp)
	}
	sort.Slice(snap.Airplanes, func(i, j int) bool { return snap.Airplanes[i].ID < snap.Airplanes[j].ID })
	for _, t := range c.technicians.sorted() {
		cp := *t
		cp.Models = append([]string(nil), t.Models...)
		snap.Technicians = append(snap.Technicians, &cp)
	}
	for _, b := range c.bookings {
		cp := *b
		snap.Bookings = append(snap.Bookings, &cp)
	}
	sort.Slice(snap.Bookings, func(i, j int) bool { return snap.Bookings[i].ID < snap.Bookings[j].ID })
	for _, b := range c.pastBookings {
		cp := *b
		snap.PastBookings = append(snap.PastBookings, &cp)
	}
	sort.Slice(snap.PastBookings, func(i, j int) bool { return snap.PastBookings[i].ID < snap.PastBookings[j].ID })
	return snap
}

// Restore replaces all state with the snapshot's collections and
// rebuilds the maintenance schedule, the availability index and the
// inactive set.
func (c *Company) Restore(snap models.CompanySnapshot) error {
	if !snap.Clock.Valid() {
		return fmt.Errorf("restore: clock %s: %w", snap.Clock, ErrInvalidSchedule)
	}
	flights := make(map[int]models.Flight, len(snap.Flights))
	for _, rec := range snap.Flights {
		f, err := rec.ToFlight()
		if err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		flights[rec.ID] = f
	}
	pastFlights := make(map[int]models.Flight, len(snap.PastFlights))
	for _, rec := range snap.PastFlights {
		f, err := rec.ToFlight()
		if err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		pastFlights[rec.ID] = f
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if snap.Name != "" {
		c.name = snap.Name
	}
	c.clock = snap.Clock
	c.flights = flights
	c.pastFlights = pastFlights

	c.passengers = make(map[int]*models.Passenger, len(snap.Passengers))
	for _, p := range snap.Passengers {
		c.passengers[p.ID] = p
	}
	c.fleet = make(map[int]*models.Airplane, len(snap.Airplanes))
	c.schedule = newFleetSchedule()
	for _, a := range snap.Airplanes {
		c.fleet[a.ID] = a
		c.schedule.insert(a)
	}
	c.technicians = newTechnicianIndex()
	for _, t := range snap.Technicians {
		c.technicians.insert(t)
	}
	c.bookings = make(map[int]*models.Booking, len(snap.Bookings))
	for _, b := range snap.Bookings {
		c.bookings[b.ID] = b
	}
	c.pastBookings = make(map[int]*models.Booking, len(snap.PastBookings))
	for _, b := range snap.PastBookings {
		c.pastBookings[b.ID] = b
	}

	c.nextPassengerID = counterFloor(snap.NextPassengerID, maxPassengerID(snap.Passengers))
	c.nextAirplaneID = counterFloor(snap.NextAirplaneID, maxAirplaneID(snap.Airplanes))
	c.nextTechnicianID = counterFloor(snap.NextTechnicianID, maxTechnicianID(snap.Technicians))
	c.nextFlightID = counterFloor(snap.NextFlightID, maxFlightID(snap.Flights, snap.PastFlights))
	c.nextBookingID = counterFloor(snap.NextBookingID, maxBookingID(snap.Bookings, snap.PastBookings))

	c.refreshActivityLocked()
	return nil
}

// SetSavePath enables autosaving after time advances.
func (c *Company) SetSavePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.savePath = path
}

// AutoSave persists a snapshot to the configured save path, if any.
// Save failures are logged, not returned; a failed save must not fail
// the operation that triggered it.
func (c *Company) AutoSave() {
	c.mu.Lock()
	path := c.savePath
	c.mu.Unlock()
	if path == "" {
		return
	}
	if err := c.SaveState(path); err != nil {
		c.log.Error("autosave failed",
			logger.Field{Key: "path", Value: path},
			logger.Field{Key: "error", Value: err.Error()})
	}
}

// SaveState persists the snapshot to disk atomically.
func (c *Company) SaveState(path string) error {
	snap := c.Snapshot()
	data, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadState restores state from disk if present.
func (c *Company) LoadState(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snap models.CompanySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	return c.Restore(snap)
}

// SeedDemo populates a small starter company: two airplanes, two
// technicians, a commercial and a rented flight, one passenger. Used
// when no snapshot exists yet.
func (c *Company) SeedDemo() {
	a320, _ := c.CreateAirplane("A320", 180, 30, c.Clock().AddDays(10))
	e190, _ := c.CreateAirplane("E190", 100, 45, c.Clock().AddDays(25))
	c.CreateTechnician("M. Duarte", []string{"A320", "E190"})
	c.CreateTechnician("J. Silva", []string{"A320"})
	c.CreateFlight(a320.ID, models.FlightCommercial, "OPO", "LIS", 7, 1, 80)
	c.CreateFlight(e190.ID, models.FlightRented, "LIS", "FNC", 14, 2, 900)
	c.CreatePassenger("A. Costa", models.Date{Year: 1990, Month: 5, Day: 14}, "engineer", 12)
}

// counterFloor keeps id counters monotonic even for snapshots written
// before the counters were persisted.
func counterFloor(persisted, maxSeen int) int {
	if persisted > maxSeen {
		return persisted
	}
	return maxSeen + 1
}

func maxPassengerID(ps []*models.Passenger) int {
	m := 0
	for _, p := range ps {
		if p.ID > m {
			m = p.ID
		}
	}
	return m
}

func maxAirplaneID(as []*models.Airplane) int {
	m := 0
	for _, a := range as {
		if a.ID > m {
			m = a.ID
		}
	}
	return m
}

func maxTechnicianID(ts []*models.Technician) int {
	m := 0
	for _, t := range ts {
		if t.ID > m {
			m = t.ID
		}
	}
	return m
}

func maxFlightID(lists ...[]models.FlightRecord) int {
	m := 0
	for _, list := range lists {
		for _, f := range list {
			if f.ID > m {
				m = f.ID
			}
		}
	}
	return m
}

func maxBookingID(lists ...[]*models.Booking) int {
	m := 0
	for _, list := range lists {
		for _, b := range list {
			if b.ID > m {
				m = b.ID
			}
		}
	}
	return m
}
