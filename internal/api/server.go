package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"airline_ops/internal/company"
	"airline_ops/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	engine *company.Company
}

// New constructs the HTTP router wired to the company engine.
func New(engine *company.Company) http.Handler {
	s := &Server{engine: engine}
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/state", s.handleState)
	r.Get("/clock", s.handleClock)
	r.Post("/time/advance", s.handleAdvanceTime)

	r.Get("/passengers", s.handlePassengers)
	r.Post("/passengers", s.handleCreatePassenger)
	r.Delete("/passengers/{id}", s.handleDeletePassenger)
	r.Get("/passengers/{id}/tickets", s.handleTickets)
	r.Get("/passengers/inactive", s.handleInactivePassengers)

	r.Get("/fleet", s.handleFleet)
	r.Post("/fleet", s.handleCreateAirplane)
	r.Delete("/fleet/{id}", s.handleDeleteAirplane)
	r.Post("/fleet/{id}/flights", s.handleCreateFlight)

	r.Get("/flights", s.handleFlights)
	r.Delete("/flights/{id}", s.handleDeleteFlight)
	r.Get("/flights/{id}/seats", s.handleSeats)

	r.Get("/technicians", s.handleTechnicians)
	r.Post("/technicians", s.handleCreateTechnician)
	r.Delete("/technicians/{id}", s.handleDeleteTechnician)
	r.Post("/technicians/{id}/models", s.handleTechnicianModels)
	r.Get("/technicians/soonest", s.handleSoonestQualified)

	r.Get("/maintenance/next", s.handleNextDue)
	r.Get("/maintenance/sessions", s.handleSessions)
	r.Post("/maintenance/perform", s.handlePerformMaintenance)
	r.Post("/maintenance/reschedule", s.handleReschedule)
	r.Post("/maintenance/period", s.handleSetPeriod)

	r.Get("/bookings", s.handleBookings)
	r.Post("/bookings", s.handleCreateBooking)
	r.Post("/flights/{id}/return", s.handleReturnTicket)
	r.Get("/pricing", s.handlePricing)

	return r
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Snapshot())
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"clock": s.engine.Clock().String()})
}

func (s *Server) handleAdvanceTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Days int `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	report, err := s.engine.AdvanceTime(req.Days)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	s.engine.AutoSave()
	resp := struct {
		company.TickReport
		Errors string `json:"errors,omitempty"`
	}{TickReport: report}
	if report.Err != nil {
		resp.Errors = report.Err.Error()
	}
	writeJSON(w, resp)
}

func (s *Server) handlePassengers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Passengers())
}

func (s *Server) handleCreatePassenger(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string      `json:"name"`
		DateOfBirth       models.Date `json:"date_of_birth"`
		Job               string      `json:"job"`
		AvgFlightsPerYear int         `json:"avg_flights_per_year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	p, err := s.engine.CreatePassenger(req.Name, req.DateOfBirth, req.Job, req.AvgFlightsPerYear)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, p)
}

func (s *Server) handleDeletePassenger(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.engine.DeletePassenger(id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTickets(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tickets, err := s.engine.TicketsOf(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, tickets)
}

func (s *Server) handleInactivePassengers(w http.ResponseWriter, r *http.Request) {
	if idParam := r.URL.Query().Get("id"); idParam != "" {
		id, err := strconv.Atoi(idParam)
		if err != nil || id < 1 {
			writeJSONError(w, http.StatusBadRequest, "invalid id")
			return
		}
		inactive, err := s.engine.IsInactive(id)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, map[string]bool{"inactive": inactive})
		return
	}
	writeJSON(w, s.engine.InactivePassengers())
}

func (s *Server) handleFleet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Fleet())
}

func (s *Server) handleCreateAirplane(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model                 string      `json:"model"`
		Capacity              int         `json:"capacity"`
		MaintenancePeriodDays int         `json:"maintenance_period_days"`
		NextMaintenance       models.Date `json:"next_maintenance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Model == "" {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	a, err := s.engine.CreateAirplane(req.Model, req.Capacity, req.MaintenancePeriodDays, req.NextMaintenance)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, a)
}

func (s *Server) handleDeleteAirplane(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.engine.DeleteAirplane(id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateFlight(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Kind         models.FlightKind `json:"kind"`
		Departure    string            `json:"departure"`
		Destination  string            `json:"destination"`
		TimeToFlight int               `json:"time_to_flight"`
		DurationHrs  int               `json:"duration_hours"`
		BasePrice    float64           `json:"base_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	f, err := s.engine.CreateFlight(id, req.Kind, req.Departure, req.Destination, req.TimeToFlight, req.DurationHrs, req.BasePrice)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, f)
}

func (s *Server) handleFlights(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("status") == "past" {
		writeJSON(w, s.engine.PastFlights())
		return
	}
	writeJSON(w, s.engine.ActiveFlights())
}

func (s *Server) handleDeleteFlight(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.engine.DeleteFlight(id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSeats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	seats, err := s.engine.AvailableSeats(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string][]string{"available": seats})
}

func (s *Server) handleTechnicians(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Technicians())
}

func (s *Server) handleCreateTechnician(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string   `json:"name"`
		Models []string `json:"models"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	t, err := s.engine.CreateTechnician(req.Name, req.Models)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, t)
}

func (s *Server) handleDeleteTechnician(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.engine.DeleteTechnician(id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTechnicianModels(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Add    string `json:"add,omitempty"`
		Remove string `json:"remove,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || (req.Add == "" && req.Remove == "") {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	var err error
	if req.Add != "" {
		err = s.engine.AddTechnicianModel(id, req.Add)
	} else {
		err = s.engine.RemoveTechnicianModel(id, req.Remove)
	}
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSoonestQualified(w http.ResponseWriter, r *http.Request) {
	model := r.URL.Query().Get("model")
	if model == "" {
		writeJSONError(w, http.StatusBadRequest, "model is required")
		return
	}
	t, err := s.engine.SoonestQualifiedTechnician(model)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, t)
}

func (s *Server) handleNextDue(w http.ResponseWriter, r *http.Request) {
	a, ok := s.engine.NextDueMaintenance()
	if !ok {
		writeJSONError(w, http.StatusNotFound, "fleet is empty")
		return
	}
	writeJSON(w, a)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("from") != "" || q.Get("to") != "" {
		from, err1 := parseDate(q.Get("from"))
		to, err2 := parseDate(q.Get("to"))
		if err1 != nil || err2 != nil {
			writeJSONError(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
			return
		}
		sessions, err := s.engine.MaintenanceDueBetween(from, to)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, sessions)
		return
	}
	n, _ := strconv.Atoi(q.Get("limit"))
	writeJSON(w, s.engine.MaintenanceSessions(n))
}

func (s *Server) handlePerformMaintenance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AirplaneID   int `json:"airplane_id"`
		TechnicianID int `json:"technician_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AirplaneID == 0 {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	var (
		t   models.Technician
		err error
	)
	if req.TechnicianID != 0 {
		t, err = s.engine.PerformMaintenanceWith(req.AirplaneID, req.TechnicianID)
	} else {
		t, err = s.engine.PerformMaintenance(req.AirplaneID)
	}
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, t)
}

func (s *Server) handleReschedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AirplaneID      int         `json:"airplane_id"`
		NextMaintenance models.Date `json:"next_maintenance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AirplaneID == 0 {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := s.engine.RescheduleMaintenance(req.AirplaneID, req.NextMaintenance); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPeriod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AirplaneID int `json:"airplane_id"`
		PeriodDays int `json:"period_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AirplaneID == 0 {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := s.engine.SetMaintenancePeriod(req.AirplaneID, req.PeriodDays); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("status") == "past" {
		writeJSON(w, s.engine.PastBookings())
		return
	}
	writeJSON(w, s.engine.ActiveBookings())
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PassengerID int    `json:"passenger_id"`
		FlightID    int    `json:"flight_id"`
		Seat        string `json:"seat,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PassengerID == 0 || req.FlightID == 0 {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	b, err := s.engine.Book(req.PassengerID, req.FlightID, req.Seat)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, b)
}

func (s *Server) handleReturnTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		PassengerID int `json:"passenger_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PassengerID == 0 {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := s.engine.ReturnTicket(req.PassengerID, id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	passengerID, err1 := strconv.Atoi(q.Get("passenger_id"))
	flightID, err2 := strconv.Atoi(q.Get("flight_id"))
	if err1 != nil || err2 != nil {
		writeJSONError(w, http.StatusBadRequest, "passenger_id and flight_id are required")
		return
	}
	price, err := s.engine.PriceOf(passengerID, flightID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]float64{"price": price})
}

// ===== helpers =====

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeJSONError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func parseDate(s string) (models.Date, error) {
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &y, &m, &d); err != nil {
		return models.Date{}, err
	}
	return models.NewDate(y, m, d)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeEngineError maps engine failures onto HTTP statuses: unknown ids
// are 404, schedule and shape problems 400, everything else a 409
// conflict the caller can resolve by retrying differently.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	switch {
	case errors.Is(err, company.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, company.ErrInvalidSchedule):
		status = http.StatusBadRequest
	}
	writeJSONError(w, status, err.Error())
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
