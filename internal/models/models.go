package models

import "sort"

// Airplane is one aircraft of the fleet. Scheduling order lives in the
// company-level maintenance index, not in the entity itself.
type Airplane struct {
	ID                    int    `json:"id"`
	Model                 string `json:"model"`
	Capacity              int    `json:"capacity"`
	MaintenancePeriodDays int    `json:"maintenance_period_days"`
	NextMaintenance       Date   `json:"next_maintenance"`
	// AssignedTechnicianID is the technician performing (or who last
	// performed) a maintenance session on this airplane. Zero when none.
	AssignedTechnicianID int `json:"assigned_technician_id,omitempty"`
}

// Technician services airplanes of the models it is qualified for.
// TimeWhenAvailable counts days until the technician is free again; it is
// decremented as time advances and clamped at zero.
type Technician struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	Models            []string `json:"models"`
	TimeWhenAvailable int      `json:"time_when_available"`
}

// Qualified reports whether the technician can service the given model.
func (t *Technician) Qualified(model string) bool {
	for _, m := range t.Models {
		if m == model {
			return true
		}
	}
	return false
}

type FlightKind string

const (
	FlightCommercial FlightKind = "commercial"
	FlightRented     FlightKind = "rented"
)

// FlightBase holds the fields shared by both flight variants.
// TimeToFlight counts down in days as time advances; once it reaches zero
// the flight is reclassified as past, never deleted.
type FlightBase struct {
	ID           int     `json:"id"`
	AirplaneID   int     `json:"airplane_id"`
	Departure    string  `json:"departure"`
	Destination  string  `json:"destination"`
	TimeToFlight int     `json:"time_to_flight"`
	DurationHrs  int     `json:"duration_hours"`
	BasePrice    float64 `json:"base_price"`
}

// Flight is the closed variant set {CommercialFlight, RentedFlight}.
// Dispatch is by capability (MultiPassenger), not by type switches in
// callers.
type Flight interface {
	Base() *FlightBase
	Kind() FlightKind
	// MultiPassenger reports whether the flight carries independently
	// booked passengers (commercial) or a single buyer (rented).
	MultiPassenger() bool
	PassengerIDs() []int
	// RemovePassenger detaches the passenger from the flight and reports
	// whether they were aboard.
	RemovePassenger(passengerID int) bool
}

// CommercialFlight sells individual seats up to the airplane's capacity.
// Seats maps seat label to the holding passenger's id.
type CommercialFlight struct {
	FlightBase
	Capacity int            `json:"capacity"`
	Seats    map[string]int `json:"seats"`
}

func (f *CommercialFlight) Base() *FlightBase { return &f.FlightBase }

func (f *CommercialFlight) Kind() FlightKind { return FlightCommercial }

func (f *CommercialFlight) MultiPassenger() bool { return true }

func (f *CommercialFlight) PassengerIDs() []int {
	seen := make(map[int]bool, len(f.Seats))
	ids := make([]int, 0, len(f.Seats))
	for _, pid := range f.Seats {
		if !seen[pid] {
			seen[pid] = true
			ids = append(ids, pid)
		}
	}
	sort.Ints(ids)
	return ids
}

func (f *CommercialFlight) RemovePassenger(passengerID int) bool {
	removed := false
	for seat, pid := range f.Seats {
		if pid == passengerID {
			delete(f.Seats, seat)
			removed = true
		}
	}
	return removed
}

// RentedFlight is hired whole by a single buyer. BuyerID is zero until
// the flight is bought.
type RentedFlight struct {
	FlightBase
	BuyerID int `json:"buyer_id,omitempty"`
}

func (f *RentedFlight) Base() *FlightBase { return &f.FlightBase }

func (f *RentedFlight) Kind() FlightKind { return FlightRented }

func (f *RentedFlight) MultiPassenger() bool { return false }

func (f *RentedFlight) PassengerIDs() []int {
	if f.BuyerID == 0 {
		return nil
	}
	return []int{f.BuyerID}
}

func (f *RentedFlight) RemovePassenger(passengerID int) bool {
	if f.BuyerID != passengerID {
		return false
	}
	f.BuyerID = 0
	return true
}

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingDeparted  BookingStatus = "departed"
	BookingCancelled BookingStatus = "cancelled"
)

// Past reports whether the booking has been resolved (departed or
// cancelled).
func (s BookingStatus) Past() bool { return s != BookingActive }

// Booking ties a passenger to a seat on a flight at an agreed price.
type Booking struct {
	ID          int           `json:"id"`
	PassengerID int           `json:"passenger_id"`
	FlightID    int           `json:"flight_id"`
	Seat        string        `json:"seat,omitempty"`
	Price       float64       `json:"price"`
	Status      BookingStatus `json:"status"`
}

// Ticket is a passenger-side reference to a booked seat.
type Ticket struct {
	Seat     string `json:"seat,omitempty"`
	FlightID int    `json:"flight_id"`
}

type Passenger struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	DateOfBirth       Date     `json:"date_of_birth"`
	Job               string   `json:"job,omitempty"`
	AvgFlightsPerYear int      `json:"avg_flights_per_year"`
	Tickets           []Ticket `json:"tickets,omitempty"`
	LastReservation   Date     `json:"last_reservation"`
}

// RemoveTicket drops the first ticket matching the flight and seat and
// reports whether one was held.
func (p *Passenger) RemoveTicket(flightID int, seat string) bool {
	for i, tk := range p.Tickets {
		if tk.FlightID == flightID && tk.Seat == seat {
			p.Tickets = append(p.Tickets[:i], p.Tickets[i+1:]...)
			return true
		}
	}
	return false
}
