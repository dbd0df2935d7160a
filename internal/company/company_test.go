package company

import (
	"testing"

	"airline_ops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) models.Date {
	return models.Date{Year: y, Month: m, Day: d}
}

func newTestCompany(t *testing.T) *Company {
	t.Helper()
	return New(Options{Name: "testair", Clock: date(2024, 1, 1)})
}

func TestNewAppliesDefaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, DefaultPolicy(), c.policy)
	assert.True(t, c.Clock().Valid())
}

func TestCreatePassengerAssignsSequentialIDs(t *testing.T) {
	c := newTestCompany(t)

	p1, err := c.CreatePassenger("Ana", date(1990, 5, 14), "engineer", 4)
	require.NoError(t, err)
	p2, err := c.CreatePassenger("Rui", date(1985, 11, 2), "pilot", 20)
	require.NoError(t, err)

	assert.Equal(t, 1, p1.ID)
	assert.Equal(t, 2, p2.ID)
	assert.Equal(t, date(2024, 1, 1), p1.LastReservation)
}

func TestCreatePassengerRejectsBadBirthDate(t *testing.T) {
	c := newTestCompany(t)
	_, err := c.CreatePassenger("Ana", models.Date{}, "", 0)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestDeletePassengerCascades(t *testing.T) {
	c := newTestCompany(t)
	p, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	a, _ := c.CreateAirplane("A320", 12, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, 80)
	b, err := c.Book(p.ID, f.ID, "")
	require.NoError(t, err)

	require.NoError(t, c.DeletePassenger(p.ID))

	_, err = c.Passenger(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := c.Booking(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)

	seats, err := c.AvailableSeats(f.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 12)
}

func TestDeletePassengerUnknown(t *testing.T) {
	c := newTestCompany(t)
	assert.ErrorIs(t, c.DeletePassenger(99), ErrNotFound)
}

func TestCreateAirplaneValidation(t *testing.T) {
	c := newTestCompany(t)

	_, err := c.CreateAirplane("A320", 0, 30, date(2024, 2, 1))
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	_, err = c.CreateAirplane("A320", 100, 0, date(2024, 2, 1))
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	_, err = c.CreateAirplane("A320", 100, 30, models.Date{})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestDeleteAirplaneCascadesToFlightsAndBookings(t *testing.T) {
	c := newTestCompany(t)
	p, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	a, _ := c.CreateAirplane("A320", 12, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, 80)
	b, _ := c.Book(p.ID, f.ID, "")

	require.NoError(t, c.DeleteAirplane(a.ID))

	assert.Empty(t, c.ActiveFlights())
	got, err := c.Booking(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)
	_, err = c.Airplane(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// passenger survives the cascade with the ticket gone
	pp, err := c.Passenger(p.ID)
	require.NoError(t, err)
	assert.Empty(t, pp.Tickets)
}

func TestDeleteAirplaneKeepsPastFlights(t *testing.T) {
	c := newTestCompany(t)
	a, _ := c.CreateAirplane("A320", 12, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 2, 1, 80)

	_, err := c.AdvanceTime(3)
	require.NoError(t, err)
	require.NoError(t, c.DeleteAirplane(a.ID))

	past := c.PastFlights()
	require.Len(t, past, 1)
	assert.Equal(t, f.ID, past[0].ID)
}

func TestCreateFlightValidation(t *testing.T) {
	c := newTestCompany(t)
	a, _ := c.CreateAirplane("A320", 12, 30, date(2024, 2, 1))

	_, err := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 0, 1, 80)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	_, err = c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 0, 80)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	_, err = c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	_, err = c.CreateFlight(a.ID, models.FlightKind("charter"), "OPO", "LIS", 5, 1, 80)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	_, err = c.CreateFlight(99, models.FlightCommercial, "OPO", "LIS", 5, 1, 80)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateFlightCopiesAirplaneCapacity(t *testing.T) {
	c := newTestCompany(t)
	a, _ := c.CreateAirplane("A320", 7, 30, date(2024, 2, 1))
	f, err := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, 80)
	require.NoError(t, err)
	assert.Equal(t, 7, f.Capacity)
}

func TestDeleteFlightCancelsBookings(t *testing.T) {
	c := newTestCompany(t)
	p, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	a, _ := c.CreateAirplane("A320", 12, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 5, 1, 80)
	b, _ := c.Book(p.ID, f.ID, "")

	require.NoError(t, c.DeleteFlight(f.ID))

	got, err := c.Booking(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)
	_, err = c.Flight(f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteFlightPastIsHistory(t *testing.T) {
	c := newTestCompany(t)
	a, _ := c.CreateAirplane("A320", 12, 30, date(2024, 2, 1))
	f, _ := c.CreateFlight(a.ID, models.FlightCommercial, "OPO", "LIS", 2, 1, 80)

	_, err := c.AdvanceTime(2)
	require.NoError(t, err)
	assert.ErrorIs(t, c.DeleteFlight(f.ID), ErrFlightAlreadyDeparted)
}

func TestIDsNeverReused(t *testing.T) {
	c := newTestCompany(t)
	p1, _ := c.CreatePassenger("Ana", date(1990, 5, 14), "", 0)
	require.NoError(t, c.DeletePassenger(p1.ID))
	p2, _ := c.CreatePassenger("Rui", date(1985, 11, 2), "", 0)
	assert.Greater(t, p2.ID, p1.ID)
}
