package api

import (
	"errors"
	"fmt"
	"net/http"

	"medibook/internal/export"
	"medibook/internal/metrics"
	"medibook/internal/store"
)

// handleScheduleExport streams a doctor's weekly schedule as an xlsx
// workbook for clinic staff.
// GET /api/schedule/export?doctor_id=1
func (s *HTTPServer) handleScheduleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("schedule_export")
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

	wb, err := export.BuildScheduleWorkbook(doctor, s.gen)
	if err != nil {
		s.logger.Error().Err(err).Int64("doctor_id", doctorID).Msg("build schedule workbook failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=schedule_%d.xlsx", doctorID))
	if err := export.WriteWorkbook(wb, w); err != nil {
		s.logger.Error().Err(err).Msg("write workbook failed")
	}
}
