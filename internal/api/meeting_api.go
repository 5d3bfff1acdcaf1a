package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"medibook/internal/meeting"
	"medibook/internal/metrics"
	"medibook/internal/store"
)

// MeetingResponse is the response for GET /api/meeting.
type MeetingResponse struct {
	AppointmentID int64  `json:"appointment_id"`
	Screen        string `json:"screen"`
	Available     bool   `json:"available"`
	Countdown     string `json:"countdown,omitempty"`
	MeetLink      string `json:"meet_link,omitempty"`
	Notice        string `json:"notice,omitempty"`
}

// handleMeeting reports whether the join action is permitted right now.
// The meeting link is only disclosed while the window is open; outside
// it the client gets a notice and countdown instead.
// GET /api/meeting?appointment_id=1&screen=home|list
func (s *HTTPServer) handleMeeting(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("meeting")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rawID := r.URL.Query().Get("appointment_id")
	appointmentID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || appointmentID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid appointment_id")
		return
	}

	screen := r.URL.Query().Get("screen")
	if screen == "" {
		screen = meeting.HomeWindow.Name
	}
	window, ok := meeting.WindowByName(screen)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown screen %q", screen))
		return
	}

	app, err := s.store.GetAppointment(r.Context(), appointmentID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "appointment not found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("appointment_id", appointmentID).Msg("load appointment failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	now := s.now()
	resp := MeetingResponse{
		AppointmentID: appointmentID,
		Screen:        window.Name,
		Available:     s.eval.Available(app, now, window),
		Countdown:     s.eval.Countdown(app, now),
	}
	metrics.IncMeetingEvaluated(resp.Available)

	if resp.Available {
		// The stored link is passed through verbatim, never rewritten.
		resp.MeetLink = app.MeetLink
	} else {
		resp.Notice = "The meeting is not yet available"
	}

	writeJSON(w, http.StatusOK, resp)
}
