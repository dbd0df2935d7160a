package company

import (
	"fmt"
	"sort"

	"airline_ops/internal/models"
	"airline_ops/pkg/logger"
)

// seat labels are enumerated row-major, six abreast: 1A..1F, 2A..2F, …
// capped at the flight's capacity.
var seatColumns = []string{"A", "B", "C", "D", "E", "F"}

func seatLabels(capacity int) []string {
	labels := make([]string, 0, capacity)
	for row := 1; len(labels) < capacity; row++ {
		for _, col := range seatColumns {
			if len(labels) == capacity {
				break
			}
			labels = append(labels, fmt.Sprintf("%d%s", row, col))
		}
	}
	return labels
}

func availableSeatsOf(f *models.CommercialFlight) []string {
	free := make([]string, 0, f.Capacity-len(f.Seats))
	for _, label := range seatLabels(f.Capacity) {
		if _, taken := f.Seats[label]; !taken {
			free = append(free, label)
		}
	}
	return free
}

// AvailableSeats lists the free seat labels of a commercial flight in
// enumeration order. A rented flight has no seat labels.
func (c *Company) AvailableSeats(flightID int) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.flights[flightID]
	if !ok {
		if _, past := c.pastFlights[flightID]; past {
			return nil, fmt.Errorf("flight %d: %w", flightID, ErrFlightAlreadyDeparted)
		}
		return nil, fmt.Errorf("flight %d: %w", flightID, ErrNotFound)
	}
	if !f.MultiPassenger() {
		return nil, nil
	}
	return availableSeatsOf(f.(*models.CommercialFlight)), nil
}

// Book creates a booking for the passenger on the flight. On a
// commercial flight seatPreference selects a seat ("" takes the first
// free one); on a rented flight the whole aircraft is bought and
// seatPreference is ignored. Booking refreshes the passenger's last
// reservation date and clears their inactive status.
func (c *Company) Book(passengerID, flightID int, seatPreference string) (models.Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.passengers[passengerID]
	if !ok {
		return models.Booking{}, fmt.Errorf("passenger %d: %w", passengerID, ErrNotFound)
	}
	f, ok := c.flights[flightID]
	if !ok {
		if _, past := c.pastFlights[flightID]; past {
			return models.Booking{}, fmt.Errorf("flight %d: %w", flightID, ErrFlightAlreadyDeparted)
		}
		return models.Booking{}, fmt.Errorf("flight %d: %w", flightID, ErrNotFound)
	}

	var seat string
	if f.MultiPassenger() {
		cf := f.(*models.CommercialFlight)
		free := availableSeatsOf(cf)
		if len(free) == 0 {
			return models.Booking{}, fmt.Errorf("flight %d: %w", flightID, ErrFlightFull)
		}
		if seatPreference == "" {
			seat = free[0]
		} else {
			for _, label := range free {
				if label == seatPreference {
					seat = label
					break
				}
			}
			if seat == "" {
				return models.Booking{}, fmt.Errorf("flight %d seat %q: %w", flightID, seatPreference, ErrSeatUnavailable)
			}
		}
		cf.Seats[seat] = p.ID
	} else {
		rf := f.(*models.RentedFlight)
		if rf.BuyerID != 0 {
			return models.Booking{}, fmt.Errorf("flight %d: %w", flightID, ErrAlreadyRented)
		}
		rf.BuyerID = p.ID
	}

	b := &models.Booking{
		ID:          c.nextBookingID,
		PassengerID: p.ID,
		FlightID:    flightID,
		Seat:        seat,
		Price:       c.priceLocked(p, f),
		Status:      models.BookingActive,
	}
	c.nextBookingID++
	c.bookings[b.ID] = b

	p.Tickets = append(p.Tickets, models.Ticket{Seat: seat, FlightID: flightID})
	p.LastReservation = c.clock
	delete(c.inactive, p.ID)

	if c.metrics != nil {
		c.metrics.BookingsCreated.Inc()
	}
	c.log.Info("booking created",
		logger.Field{Key: "booking_id", Value: b.ID},
		logger.Field{Key: "passenger_id", Value: p.ID},
		logger.Field{Key: "flight_id", Value: flightID},
		logger.Field{Key: "price", Value: b.Price})
	return *b, nil
}

// ReturnTicket cancels an active booking, freeing the seat (or the
// whole rented aircraft). Returning an already cancelled booking is a
// no-op; a booking whose flight departed while it was active can no
// longer be returned.
func (c *Company) ReturnTicket(passengerID, bookingID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, active := c.bookings[bookingID]
	if !active {
		past, ok := c.pastBookings[bookingID]
		if !ok || past.PassengerID != passengerID {
			return fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		if past.Status == models.BookingCancelled {
			return nil
		}
		return fmt.Errorf("booking %d: %w", bookingID, ErrFlightAlreadyDeparted)
	}
	if b.PassengerID != passengerID {
		return fmt.Errorf("booking %d for passenger %d: %w", bookingID, passengerID, ErrNotFound)
	}

	c.cancelBookingLocked(b)

	p := c.passengers[passengerID]
	if p != nil && c.isInactiveNowLocked(p) {
		c.inactive[p.ID] = struct{}{}
	}

	if c.metrics != nil {
		c.metrics.TicketsReturned.Inc()
	}
	c.log.Info("ticket returned",
		logger.Field{Key: "booking_id", Value: b.ID},
		logger.Field{Key: "passenger_id", Value: passengerID})
	return nil
}

// cancelBookingLocked detaches the booking from its flight and
// passenger and retires it as cancelled.
func (c *Company) cancelBookingLocked(b *models.Booking) {
	if f, ok := c.flights[b.FlightID]; ok {
		if f.MultiPassenger() {
			cf := f.(*models.CommercialFlight)
			if cf.Seats[b.Seat] == b.PassengerID {
				delete(cf.Seats, b.Seat)
			}
		} else {
			f.RemovePassenger(b.PassengerID)
		}
	}
	if p, ok := c.passengers[b.PassengerID]; ok {
		p.RemoveTicket(b.FlightID, b.Seat)
	}
	b.Status = models.BookingCancelled
	delete(c.bookings, b.ID)
	c.pastBookings[b.ID] = b
}

// TicketsOf returns the passenger's currently held tickets.
func (c *Company) TicketsOf(passengerID int) ([]models.Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.passengers[passengerID]
	if !ok {
		return nil, fmt.Errorf("passenger %d: %w", passengerID, ErrNotFound)
	}
	return append([]models.Ticket(nil), p.Tickets...), nil
}

// ActiveBookings lists unresolved bookings sorted by id.
func (c *Company) ActiveBookings() []models.Booking {
	c.mu.Lock()
	defer c.mu.Unlock()
	return bookingList(c.bookings)
}

// PastBookings lists departed and cancelled bookings sorted by id.
func (c *Company) PastBookings() []models.Booking {
	c.mu.Lock()
	defer c.mu.Unlock()
	return bookingList(c.pastBookings)
}

func (c *Company) Booking(id int) (models.Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.bookings[id]; ok {
		return *b, nil
	}
	if b, ok := c.pastBookings[id]; ok {
		return *b, nil
	}
	return models.Booking{}, fmt.Errorf("booking %d: %w", id, ErrNotFound)
}

func (c *Company) activeBookingsOfLocked(passengerID int) []*models.Booking {
	var out []*models.Booking
	for _, b := range c.bookings {
		if b.PassengerID == passengerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func bookingList(m map[int]*models.Booking) []models.Booking {
	out := make([]models.Booking, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
