package company

import (
	"testing"

	"airline_ops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatLabelsEnumeration(t *testing.T) {
	assert.Equal(t, []string{"1A", "1B", "1C", "1D", "1E", "1F", "2A"}, seatLabels(7))
	assert.Equal(t, []string{"1A", "1B"}, seatLabels(2))
}

func TestBookCommercialAssignsFirstFreeSeat(t *testing.T) {
	c := newTestCompany(t)
	p1, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	p2, _ := c.CreatePassenger("Rui", date(1985, 11, 2), "", 0)
	a, _ := c.CreateAirplane("A320", 6, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, 100)

	b1, err := c.Book(p1.ID, f.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "1A", b1.Seat)
	assert.Equal(t, models.BookingActive, b1.Status)

	b2, err := c.Book(p2.ID, f.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "1B", b2.Seat)

	tickets, _ := c.TicketsOf(p1.ID)
	require.Len(t, tickets, 1)
	assert.Equal(t, models.Ticket{Seat: "1A", FlightID: f.ID}, tickets[0])
}

func TestBookSeatPreference(t *testing.T) {
	c := newTestCompany(t)
	p1, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	p2, _ := c.CreatePassenger("Rui", date(1985, 11, 2), "", 0)
	a, _ := c.CreateAirplane("A320", 6, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, 100)

	b, err := c.Book(p1.ID, f.ID, "1D")
	require.NoError(t, err)
	assert.Equal(t, "1D", b.Seat)

	_, err = c.Book(p2.ID, f.ID, "1D")
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	_, err = c.Book(p2.ID, f.ID, "9Z")
	assert.ErrorIs(t, err, ErrSeatUnavailable)
}

func TestBookCommercialFull(t *testing.T) {
	c := newTestCompany(t)
	a, _ := c.CreateAirplane("A320", 2, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, 100)

	for _, name := range []string{"Ana", "Rui"} {
		p, _ := c.CreatePassenger(name, date(1990, 5, 14), "", 0)
		_, err := c.Book(p.ID, f.ID, "")
		require.NoError(t, err)
	}
	late, _ := c.CreatePassenger("Eva", date(1992, 7, 3), "", 0)
	_, err := c.Book(late.ID, f.ID, "")
	assert.ErrorIs(t, err, ErrFlightFull)
}

func TestBookRentedSingleBuyer(t *testing.T) {
	c := newTestCompany(t)
	p1, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	p2, _ := c.CreatePassenger("Rui", date(1985, 11, 2), "", 0)
	a, _ := c.CreateAirplane("E190", 80, 45, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightRented, "LIS", "FNC", 5, 2, 500)

	b, err := c.Book(p1.ID, f.ID, "")
	require.NoError(t, err)
	assert.Empty(t, b.Seat)
	assert.Equal(t, 1500.0, b.Price)

	_, err = c.Book(p2.ID, f.ID, "")
	assert.ErrorIs(t, err, ErrAlreadyRented)

	seats, err := c.AvailableSeats(f.ID)
	require.NoError(t, err)
	assert.Nil(t, seats)
}

func TestBookUnknownEntities(t *testing.T) {
	c := newTestCompany(t)
	p, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	a, _ := c.CreateAirplane("A320", 6, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, 100)

	_, err := c.Book(99, f.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Book(p.ID, 99, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookDepartedFlight(t *testing.T) {
	c := newTestCompany(t)
	p, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	a, _ := c.CreateAirplane("A320", 6, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 2, 1, 100)

	_, err := c.AdvanceTime(2)
	require.NoError(t, err)

	_, err = c.Book(p.ID, f.ID, "")
	assert.ErrorIs(t, err, ErrFlightAlreadyDeparted)
}

func TestReturnTicketFreesSeat(t *testing.T) {
	c := newTestCompany(t)
	p, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	a, _ := c.CreateAirplane("A320", 6, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, 100)
	b, _ := c.Book(p.ID, f.ID, "1A")

	require.NoError(t, c.ReturnTicket(p.ID, b.ID))

	got, err := c.Booking(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)

	seats, _ := c.AvailableSeats(f.ID)
	assert.Contains(t, seats, "1A")
	tickets, _ := c.TicketsOf(p.ID)
	assert.Empty(t, tickets)

	// returning the already cancelled booking is a no-op
	require.NoError(t, c.ReturnTicket(p.ID, b.ID))
}

func TestReturnTicketFreesRentedAircraft(t *testing.T) {
	c := newTestCompany(t)
	p1, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	p2, _ := c.CreatePassenger("Rui", date(1985, 11, 2), "", 0)
	a, _ := c.CreateAirplane("E190", 80, 45, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightRented, "LIS", "FNC", 5, 2, 500)
	b, _ := c.Book(p1.ID, f.ID, "")

	require.NoError(t, c.ReturnTicket(p1.ID, b.ID))

	_, err := c.Book(p2.ID, f.ID, "")
	require.NoError(t, err)
}

func TestReturnTicketAfterDeparture(t *testing.T) {
	c := newTestCompany(t)
	p, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	a, _ := c.CreateAirplane("A320", 6, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 2, 1, 100)
	b, _ := c.Book(p.ID, f.ID, "")

	_, err := c.AdvanceTime(2)
	require.NoError(t, err)

	assert.ErrorIs(t, c.ReturnTicket(p.ID, b.ID), ErrFlightAlreadyDeparted)
}

func TestReturnTicketWrongPassenger(t *testing.T) {
	c := newTestCompany(t)
	p1, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	p2, _ := c.CreatePassenger("Rui", date(1985, 11, 2), "", 0)
	a, _ := c.CreateAirplane("A320", 6, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, 100)
	b, _ := c.Book(p1.ID, f.ID, "")

	assert.ErrorIs(t, c.ReturnTicket(p2.ID, b.ID), ErrNotFound)
	assert.ErrorIs(t, c.ReturnTicket(p1.ID, 99), ErrNotFound)
}

func TestBookingLists(t *testing.T) {
	c := newTestCompany(t)
	p, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	a, _ := c.CreateAirplane("A320", 6, 30, date(2024, 2, 1))
	f1, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, 100)
	f2, _ := c.CreateFlight(a.ID, models.FlightCommercial, "LIS", "OPO", 9, 1, 100)
	b1, _ := c.Book(p.ID, f1.ID, "")
	c.Book(p.ID, f2.ID, "")

	require.NoError(t, c.ReturnTicket(p.ID, b1.ID))

	assert.Len(t, c.ActiveBookings(), 1)
	past := c.PastBookings()
	require.Len(t, past, 1)
	assert.Equal(t, b1.ID, past[0].ID)
}
