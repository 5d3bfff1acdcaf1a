package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"medibook/internal/metrics"
	"medibook/internal/store"
)

// BlackoutRequest is the request body for POST /api/blackouts.
type BlackoutRequest struct {
	DoctorID int64  `json:"doctor_id"`
	Date     string `json:"date"` // Format: YYYY-MM-DD
}

// handleBlackouts manages a doctor's blackout dates.
// POST /api/blackouts adds one; DELETE /api/blackouts?doctor_id=&date= removes one.
func (s *HTTPServer) handleBlackouts(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("blackouts")
	switch r.Method {
	case http.MethodPost:
		s.addBlackout(w, r)
	case http.MethodDelete:
		s.removeBlackout(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) addBlackout(w http.ResponseWriter, r *http.Request) {
	var req BlackoutRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DoctorID <= 0 || req.Date == "" {
		writeError(w, http.StatusBadRequest, "doctor_id and date are required")
		return
	}

	if _, err := s.store.GetDoctor(r.Context(), req.DoctorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "doctor not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := s.store.AddBlackout(r.Context(), req.DoctorID, req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
		return
	}

	s.logger.Info().Int64("doctor_id", req.DoctorID).Str("date", req.Date).Msg("blackout added")
	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (s *HTTPServer) removeBlackout(w http.ResponseWriter, r *http.Request) {
	doctorID, err := parseDoctorID(r.URL.Query().Get("doctor_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	err = s.store.RemoveBlackout(r.Context(), doctorID, date)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "blackout not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
