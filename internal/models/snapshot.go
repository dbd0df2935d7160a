package models

import "fmt"

// FlightRecord is the flat on-disk form of a Flight variant. The engine
// treats snapshots as opaque records; this type exists only so both
// variants round-trip through one JSON shape.
type FlightRecord struct {
	Kind FlightKind `json:"kind"`
	FlightBase
	Capacity int            `json:"capacity,omitempty"`
	Seats    map[string]int `json:"seats,omitempty"`
	BuyerID  int            `json:"buyer_id,omitempty"`
}

// RecordFromFlight flattens a flight variant into its snapshot record.
func RecordFromFlight(f Flight) FlightRecord {
	rec := FlightRecord{Kind: f.Kind(), FlightBase: *f.Base()}
	switch v := f.(type) {
	case *CommercialFlight:
		rec.Capacity = v.Capacity
		rec.Seats = v.Seats
	case *RentedFlight:
		rec.BuyerID = v.BuyerID
	}
	return rec
}

// ToFlight rebuilds the flight variant described by the record.
func (r FlightRecord) ToFlight() (Flight, error) {
	switch r.Kind {
	case FlightCommercial:
		seats := r.Seats
		if seats == nil {
			seats = make(map[string]int)
		}
		return &CommercialFlight{FlightBase: r.FlightBase, Capacity: r.Capacity, Seats: seats}, nil
	case FlightRented:
		return &RentedFlight{FlightBase: r.FlightBase, BuyerID: r.BuyerID}, nil
	default:
		return nil, fmt.Errorf("flight %d: unknown kind %q", r.ID, r.Kind)
	}
}

// CompanySnapshot is the persisted form of every entity collection plus
// the id counters, enough to rebuild the engine's indexes on load.
type CompanySnapshot struct {
	Name         string         `json:"name"`
	Clock        Date           `json:"clock"`
	Passengers   []*Passenger   `json:"passengers"`
	Airplanes    []*Airplane    `json:"airplanes"`
	Technicians  []*Technician  `json:"technicians"`
	Flights      []FlightRecord `json:"flights"`
	PastFlights  []FlightRecord `json:"past_flights"`
	Bookings     []*Booking     `json:"bookings"`
	PastBookings []*Booking     `json:"past_bookings"`

	NextPassengerID  int `json:"next_passenger_id"`
	NextAirplaneID   int `json:"next_airplane_id"`
	NextTechnicianID int `json:"next_technician_id"`
	NextFlightID     int `json:"next_flight_id"`
	NextBookingID    int `json:"next_booking_id"`
}
