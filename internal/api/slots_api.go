package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"medibook/internal/metrics"
	"medibook/internal/slots"
	"medibook/internal/store"
)

const (
	// MaxAvailabilityDaysRange is the maximum number of days allowed in
	// an availability request.
	MaxAvailabilityDaysRange = 90
)

// SlotResponse is one bookable slot in API responses.
type SlotResponse struct {
	Time    string `json:"time"`    // "09:30:00"
	Display string `json:"display"` // "9:30 AM"
}

// SlotsResponse is the response for GET /api/slots.
type SlotsResponse struct {
	DoctorID  int64          `json:"doctor_id"`
	Date      string         `json:"date"`
	Available bool           `json:"available"`
	Reason    string         `json:"reason,omitempty"`
	Slots     []SlotResponse `json:"slots"`
}

// handleSlots returns bookable slots for one doctor and date.
// GET /api/slots?doctor_id=1&date=YYYY-MM-DD
func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	doctorID, err := parseDoctorID(r.URL.Query().Get("doctor_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now()
	date, err := parseDateParam(r.URL.Query().Get("date"), now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doctor, err := s.store.GetDoctor(r.Context(), doctorID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "doctor not found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("doctor_id", doctorID).Msg("load doctor failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := SlotsResponse{
		DoctorID: doctorID,
		Date:     date.Format("2006-01-02"),
		Slots:    []SlotResponse{},
	}

	index := slots.NewWeekIndex(doctor.ConsultationHours)
	avail := slots.NewAvailability(index, doctor.UnavailableDates)

	if reason := s.dateUnavailableReason(avail, date, now); reason != "" {
		resp.Reason = reason
		metrics.IncSlotQuery(0)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	generated := s.gen.ForDay(index.RangesOn(date.Weekday()))
	remaining := slots.FilterPast(generated, date, now)

	// Optional clinic rule: require a minimum booking lead time.
	if min := s.cfg.Booking.MinAdvanceMinutes; min > 0 {
		cutoff := now.Add(time.Duration(min) * time.Minute)
		kept := remaining[:0]
		for _, t := range remaining {
			if t.On(date).After(cutoff) {
				kept = append(kept, t)
			}
		}
		remaining = kept
	}

	resp.Available = len(remaining) > 0
	if len(remaining) == 0 {
		resp.Reason = "no slots left"
	}
	for _, t := range remaining {
		resp.Slots = append(resp.Slots, SlotResponse{Time: t.String(), Display: t.Display()})
	}

	metrics.IncSlotQuery(len(remaining))
	writeJSON(w, http.StatusOK, resp)
}

// dateUnavailableReason layers the optional clinic-level advance rules
// on top of the standard date checks.
func (s *HTTPServer) dateUnavailableReason(avail *slots.Availability, date, now time.Time) string {
	if reason := avail.UnavailableReason(date, now); reason != "" {
		return reason
	}
	if max := s.cfg.Booking.MaxAdvanceDays; max > 0 {
		if date.After(now.AddDate(0, 0, max)) {
			return "too far ahead"
		}
	}
	return ""
}

// AvailabilityRequest is the request body for POST /api/availability.
type AvailabilityRequest struct {
	DoctorID  int64  `json:"doctor_id"`
	StartDate string `json:"start_date"` // Format: YYYY-MM-DD
	EndDate   string `json:"end_date"`   // Format: YYYY-MM-DD
}

// DateAvailability represents availability for a single date.
type DateAvailability struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"` // "past", "unscheduled", "blackout"
}

// AvailabilityResponse is the response for POST /api/availability.
type AvailabilityResponse struct {
	DoctorID int64              `json:"doctor_id"`
	Dates    []DateAvailability `json:"dates"`
	Period   struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// handleAvailability returns per-date availability over a range.
// POST /api/availability
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req AvailabilityRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	startDate, endDate, err := validateAvailabilityRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doctor, err := s.store.GetDoctor(r.Context(), req.DoctorID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "doctor not found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("doctor_id", req.DoctorID).Msg("load doctor failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	index := slots.NewWeekIndex(doctor.ConsultationHours)
	avail := slots.NewAvailability(index, doctor.UnavailableDates)
	now := s.now()

	resp := AvailabilityResponse{DoctorID: req.DoctorID, Dates: make([]DateAvailability, 0)}
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		reason := s.dateUnavailableReason(avail, d, now)
		resp.Dates = append(resp.Dates, DateAvailability{
			Date:      d.Format("2006-01-02"),
			Available: reason == "",
			Reason:    reason,
		})
	}
	resp.Period.Start = req.StartDate
	resp.Period.End = req.EndDate

	writeJSON(w, http.StatusOK, resp)
}

func validateAvailabilityRequest(req *AvailabilityRequest) (start, end time.Time, err error) {
	if req.DoctorID <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("doctor_id is required")
	}
	if req.StartDate == "" || req.EndDate == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date and end_date are required")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format; expected YYYY-MM-DD")
	}

	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format; expected YYYY-MM-DD")
	}

	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must be before or equal to end_date")
	}

	days := int(endDate.Sub(startDate).Hours() / 24)
	if days > MaxAvailabilityDaysRange {
		return time.Time{}, time.Time{}, fmt.Errorf("date range exceeds maximum of %d days", MaxAvailabilityDaysRange)
	}

	return startDate, endDate, nil
}

// NextSlotResponse is the response for GET /api/next-slot.
type NextSlotResponse struct {
	DoctorID  int64  `json:"doctor_id"`
	Available bool   `json:"available"`
	Day       string `json:"day,omitempty"`
	Time      string `json:"time,omitempty"`
	Display   string `json:"display,omitempty"` // "9:00 AM"
}

// handleNextSlot returns the "Available: <day>, <time>" badge payload.
// GET /api/next-slot?doctor_id=1
func (s *HTTPServer) handleNextSlot(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("next_slot")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	doctorID, err := parseDoctorID(r.URL.Query().Get("doctor_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doctor, err := s.store.GetDoctor(r.Context(), doctorID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "doctor not found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("doctor_id", doctorID).Msg("load doctor failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resolver := slots.NewResolver(slots.NewWeekIndex(doctor.ConsultationHours))
	next, ok := resolver.Next(s.now())

	resp := NextSlotResponse{DoctorID: doctorID, Available: ok}
	if ok {
		resp.Day = next.Day
		resp.Time = next.Time.String()
		resp.Display = next.Time.Display()
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseDoctorID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("doctor_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid doctor_id")
	}
	return id, nil
}

func parseDateParam(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now, nil
	}
	date, err := time.ParseInLocation("2006-01-02", raw, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format; expected YYYY-MM-DD")
	}
	return date, nil
}
