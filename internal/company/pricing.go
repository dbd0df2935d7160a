package company

import (
	"fmt"
	"math"

	"airline_ops/internal/models"
)

// Ticket pricing policy. The base price comes from the flight; the
// multipliers below are policy constants, not structural invariants.
const (
	// rentedPriceFactor scales the base price when a single buyer hires
	// the whole aircraft.
	rentedPriceFactor = 3.0
	// frequentFlyerFlightsPerYear is the average yearly flight count at
	// which a passenger earns the frequent-flyer rate.
	frequentFlyerFlightsPerYear = 10
	frequentFlyerMultiplier     = 0.80
	// lastMinuteDays is the time-to-flight threshold below which the
	// last-minute surcharge applies.
	lastMinuteDays       = 3
	lastMinuteMultiplier = 1.25
	// longHaulHours is the flight duration from which the long-haul
	// rate applies.
	longHaulHours      = 6
	longHaulMultiplier = 1.10
)

// PriceOf quotes the ticket price for the passenger on the flight.
func (c *Company) PriceOf(passengerID, flightID int) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.passengers[passengerID]
	if !ok {
		return 0, fmt.Errorf("passenger %d: %w", passengerID, ErrNotFound)
	}
	f, ok := c.flights[flightID]
	if !ok {
		if _, past := c.pastFlights[flightID]; past {
			return 0, fmt.Errorf("flight %d: %w", flightID, ErrFlightAlreadyDeparted)
		}
		return 0, fmt.Errorf("flight %d: %w", flightID, ErrNotFound)
	}
	return c.priceLocked(p, f), nil
}

func (c *Company) priceLocked(p *models.Passenger, f models.Flight) float64 {
	base := f.Base()
	if !f.MultiPassenger() {
		return roundCents(base.BasePrice * rentedPriceFactor)
	}
	price := base.BasePrice
	if p.AvgFlightsPerYear >= frequentFlyerFlightsPerYear {
		price *= frequentFlyerMultiplier
	}
	if base.TimeToFlight <= lastMinuteDays {
		price *= lastMinuteMultiplier
	}
	if base.DurationHrs >= longHaulHours {
		price *= longHaulMultiplier
	}
	return roundCents(price)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
