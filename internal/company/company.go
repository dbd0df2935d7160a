package company

import (
	"fmt"
	"sort"
	"sync"

	"airline_ops/internal/models"
	"airline_ops/pkg/logger"
	"airline_ops/pkg/metrics"
)

// Policy groups the tunable constants left to the operator.
type Policy struct {
	// InactivityWindowDays is how long a passenger may go without a
	// reservation before counting as inactive.
	InactivityWindowDays int
	// MaintenanceSessionDays is how long a technician is unavailable
	// after taking a maintenance assignment.
	MaintenanceSessionDays int
}

func DefaultPolicy() Policy {
	return Policy{
		InactivityWindowDays:   365,
		MaintenanceSessionDays: 2,
	}
}

// Company owns all simulation state and logic. Every exported method
// locks; callers only ever receive value copies, valid as snapshots
// until the next mutating call.
type Company struct {
	mu     sync.Mutex
	name   string
	clock  models.Date
	policy Policy

	passengers map[int]*models.Passenger
	fleet      map[int]*models.Airplane
	schedule   *fleetSchedule

	technicians *technicianIndex

	flights      map[int]models.Flight
	pastFlights  map[int]models.Flight
	bookings     map[int]*models.Booking
	pastBookings map[int]*models.Booking

	inactive map[int]struct{}

	nextPassengerID  int
	nextAirplaneID   int
	nextTechnicianID int
	nextFlightID     int
	nextBookingID    int

	log      logger.Logger
	metrics  *metrics.Metrics
	savePath string
}

// Options configures a new Company. Logger and Metrics may be nil.
type Options struct {
	Name    string
	Clock   models.Date
	Policy  Policy
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

func New(opts Options) *Company {
	if opts.Policy.InactivityWindowDays < 1 {
		opts.Policy.InactivityWindowDays = DefaultPolicy().InactivityWindowDays
	}
	if opts.Policy.MaintenanceSessionDays < 1 {
		opts.Policy.MaintenanceSessionDays = DefaultPolicy().MaintenanceSessionDays
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if !opts.Clock.Valid() {
		opts.Clock = models.Date{Year: 2024, Month: 1, Day: 1}
	}
	return &Company{
		name:             opts.Name,
		clock:            opts.Clock,
		policy:           opts.Policy,
		passengers:       make(map[int]*models.Passenger),
		fleet:            make(map[int]*models.Airplane),
		schedule:         newFleetSchedule(),
		technicians:      newTechnicianIndex(),
		flights:          make(map[int]models.Flight),
		pastFlights:      make(map[int]models.Flight),
		bookings:         make(map[int]*models.Booking),
		pastBookings:     make(map[int]*models.Booking),
		inactive:         make(map[int]struct{}),
		nextPassengerID:  1,
		nextAirplaneID:   1,
		nextTechnicianID: 1,
		nextFlightID:     1,
		nextBookingID:    1,
		log:              opts.Logger,
		metrics:          opts.Metrics,
	}
}

func (c *Company) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// Clock returns the current simulation date.
func (c *Company) Clock() models.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock
}

// ===== passengers =====

func (c *Company) CreatePassenger(name string, dateOfBirth models.Date, job string, avgFlightsPerYear int) (models.Passenger, error) {
	if !dateOfBirth.Valid() {
		return models.Passenger{}, fmt.Errorf("create passenger: date of birth %s: %w", dateOfBirth, ErrInvalidSchedule)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := &models.Passenger{
		ID:                c.nextPassengerID,
		Name:              name,
		DateOfBirth:       dateOfBirth,
		Job:               job,
		AvgFlightsPerYear: avgFlightsPerYear,
		// registration counts as the first reservation event for the
		// inactivity window
		LastReservation: c.clock,
	}
	c.nextPassengerID++
	c.passengers[p.ID] = p

	c.log.Info("passenger created", logger.Field{Key: "passenger_id", Value: p.ID})
	return *p, nil
}

// DeletePassenger removes the passenger, detaches them from every
// active flight and cancels their active bookings. Past bookings stay
// as history.
func (c *Company) DeletePassenger(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.passengers[id]
	if !ok {
		return fmt.Errorf("passenger %d: %w", id, ErrNotFound)
	}
	for _, b := range c.activeBookingsOfLocked(id) {
		c.cancelBookingLocked(b)
	}
	for _, f := range c.flights {
		f.RemovePassenger(id)
	}
	delete(c.inactive, id)
	delete(c.passengers, id)

	c.log.Info("passenger deleted", logger.Field{Key: "passenger_id", Value: p.ID})
	return nil
}

// Passengers lists all passengers sorted by id.
func (c *Company) Passengers() []models.Passenger {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Passenger, 0, len(c.passengers))
	for _, p := range c.passengers {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Company) Passenger(id int) (models.Passenger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.passengers[id]
	if !ok {
		return models.Passenger{}, fmt.Errorf("passenger %d: %w", id, ErrNotFound)
	}
	return *p, nil
}

// ===== airplanes =====

func (c *Company) CreateAirplane(model string, capacity, maintenancePeriodDays int, nextMaintenance models.Date) (models.Airplane, error) {
	if capacity < 1 {
		return models.Airplane{}, fmt.Errorf("create airplane: capacity %d: %w", capacity, ErrInvalidSchedule)
	}
	if maintenancePeriodDays < 1 {
		return models.Airplane{}, fmt.Errorf("create airplane: maintenance period %d: %w", maintenancePeriodDays, ErrInvalidSchedule)
	}
	if !nextMaintenance.Valid() {
		return models.Airplane{}, fmt.Errorf("create airplane: next maintenance %s: %w", nextMaintenance, ErrInvalidSchedule)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	a := &models.Airplane{
		ID:                    c.nextAirplaneID,
		Model:                 model,
		Capacity:              capacity,
		MaintenancePeriodDays: maintenancePeriodDays,
		NextMaintenance:       nextMaintenance,
	}
	c.nextAirplaneID++
	c.fleet[a.ID] = a
	c.schedule.insert(a)

	c.log.Info("airplane created",
		logger.Field{Key: "airplane_id", Value: a.ID},
		logger.Field{Key: "model", Value: a.Model})
	return *a, nil
}

// DeleteAirplane removes the airplane from the fleet and the maintenance
// schedule and cascades to its active flights: their active bookings are
// cancelled and the flights removed. Past flights stay as history.
func (c *Company) DeleteAirplane(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.fleet[id]
	if !ok {
		return fmt.Errorf("airplane %d: %w", id, ErrNotFound)
	}
	for fid, f := range c.flights {
		if f.Base().AirplaneID != id {
			continue
		}
		for _, b := range c.bookings {
			if b.FlightID == fid {
				c.cancelBookingLocked(b)
			}
		}
		delete(c.flights, fid)
	}
	c.schedule.remove(id)
	delete(c.fleet, id)
	c.refreshActivityLocked()

	c.log.Info("airplane deleted", logger.Field{Key: "airplane_id", Value: a.ID})
	return nil
}

// Fleet lists all airplanes sorted by id.
func (c *Company) Fleet() []models.Airplane {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Airplane, 0, len(c.fleet))
	for _, a := range c.fleet {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Company) Airplane(id int) (models.Airplane, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.fleet[id]
	if !ok {
		return models.Airplane{}, fmt.Errorf("airplane %d: %w", id, ErrNotFound)
	}
	return *a, nil
}

// ===== technicians =====

func (c *Company) CreateTechnician(name string, qualifiedModels []string) (models.Technician, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &models.Technician{
		ID:     c.nextTechnicianID,
		Name:   name,
		Models: append([]string(nil), qualifiedModels...),
	}
	c.nextTechnicianID++
	c.technicians.insert(t)

	c.log.Info("technician created", logger.Field{Key: "technician_id", Value: t.ID})
	return *t, nil
}

// DeleteTechnician removes a technician from the availability index. A
// technician still mid-session cannot be deleted.
func (c *Company) DeleteTechnician(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.technicians.get(id)
	if t == nil {
		return fmt.Errorf("technician %d: %w", id, ErrNotFound)
	}
	if t.TimeWhenAvailable > 0 {
		return fmt.Errorf("technician %d mid-session: %w", id, ErrDuplicateAssignment)
	}
	c.technicians.remove(id)
	for _, a := range c.fleet {
		if a.AssignedTechnicianID == id {
			a.AssignedTechnicianID = 0
		}
	}

	c.log.Info("technician deleted", logger.Field{Key: "technician_id", Value: id})
	return nil
}

// AddTechnicianModel extends a technician's qualified-model set.
func (c *Company) AddTechnicianModel(id int, model string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.technicians.get(id)
	if t == nil {
		return fmt.Errorf("technician %d: %w", id, ErrNotFound)
	}
	if !t.Qualified(model) {
		t.Models = append(t.Models, model)
	}
	return nil
}

// RemoveTechnicianModel shrinks a technician's qualified-model set.
func (c *Company) RemoveTechnicianModel(id int, model string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.technicians.get(id)
	if t == nil {
		return fmt.Errorf("technician %d: %w", id, ErrNotFound)
	}
	for i, m := range t.Models {
		if m == model {
			t.Models = append(t.Models[:i], t.Models[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("technician %d model %q: %w", id, model, ErrNotFound)
}

// Technicians lists all technicians in ascending availability order.
func (c *Company) Technicians() []models.Technician {
	c.mu.Lock()
	defer c.mu.Unlock()
	sorted := c.technicians.sorted()
	out := make([]models.Technician, len(sorted))
	for i, t := range sorted {
		out[i] = *t
	}
	return out
}

// SoonestQualifiedTechnician returns the technician with the minimum
// time until available among those qualified for the model.
func (c *Company) SoonestQualifiedTechnician(model string) (models.Technician, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.technicians.soonestQualified(model)
	if t == nil {
		return models.Technician{}, fmt.Errorf("model %q: %w", model, ErrNotFound)
	}
	return *t, nil
}

// ===== flights =====

func (c *Company) CreateFlight(airplaneID int, kind models.FlightKind, departure, destination string, timeToFlight, durationHrs int, basePrice float64) (models.FlightRecord, error) {
	if timeToFlight < 1 {
		return models.FlightRecord{}, fmt.Errorf("create flight: time to flight %d: %w", timeToFlight, ErrInvalidSchedule)
	}
	if durationHrs < 1 {
		return models.FlightRecord{}, fmt.Errorf("create flight: duration %d: %w", durationHrs, ErrInvalidSchedule)
	}
	if basePrice < 0 {
		return models.FlightRecord{}, fmt.Errorf("create flight: base price %.2f: %w", basePrice, ErrInvalidSchedule)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.fleet[airplaneID]
	if !ok {
		return models.FlightRecord{}, fmt.Errorf("airplane %d: %w", airplaneID, ErrNotFound)
	}

	base := models.FlightBase{
		ID:           c.nextFlightID,
		AirplaneID:   a.ID,
		Departure:    departure,
		Destination:  destination,
		TimeToFlight: timeToFlight,
		DurationHrs:  durationHrs,
		BasePrice:    basePrice,
	}
	var f models.Flight
	switch kind {
	case models.FlightCommercial:
		f = &models.CommercialFlight{FlightBase: base, Capacity: a.Capacity, Seats: make(map[string]int)}
	case models.FlightRented:
		f = &models.RentedFlight{FlightBase: base}
	default:
		return models.FlightRecord{}, fmt.Errorf("create flight: kind %q: %w", kind, ErrInvalidSchedule)
	}
	c.nextFlightID++
	c.flights[base.ID] = f

	c.log.Info("flight created",
		logger.Field{Key: "flight_id", Value: base.ID},
		logger.Field{Key: "airplane_id", Value: a.ID},
		logger.Field{Key: "kind", Value: string(kind)})
	return models.RecordFromFlight(f), nil
}

// DeleteFlight removes an active flight, cancelling its active bookings.
// Past flights are history and cannot be deleted.
func (c *Company) DeleteFlight(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.flights[id]; !ok {
		if _, past := c.pastFlights[id]; past {
			return fmt.Errorf("flight %d: %w", id, ErrFlightAlreadyDeparted)
		}
		return fmt.Errorf("flight %d: %w", id, ErrNotFound)
	}
	for _, b := range c.bookings {
		if b.FlightID == id {
			c.cancelBookingLocked(b)
		}
	}
	delete(c.flights, id)
	c.refreshActivityLocked()

	c.log.Info("flight deleted", logger.Field{Key: "flight_id", Value: id})
	return nil
}

// ActiveFlights lists flights that have not yet departed, sorted by id.
func (c *Company) ActiveFlights() []models.FlightRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return flightRecords(c.flights)
}

// PastFlights lists departed flights, sorted by id.
func (c *Company) PastFlights() []models.FlightRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return flightRecords(c.pastFlights)
}

func (c *Company) Flight(id int) (models.FlightRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.flights[id]; ok {
		return models.RecordFromFlight(f), nil
	}
	if f, ok := c.pastFlights[id]; ok {
		return models.RecordFromFlight(f), nil
	}
	return models.FlightRecord{}, fmt.Errorf("flight %d: %w", id, ErrNotFound)
}

func flightRecords(m map[int]models.Flight) []models.FlightRecord {
	out := make([]models.FlightRecord, 0, len(m))
	for _, f := range m {
		out = append(out, models.RecordFromFlight(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
