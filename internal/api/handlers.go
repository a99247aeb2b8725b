package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"barberm/internal/database"
	"barberm/internal/models"
	"barberm/internal/scheduling"
)

func (s *HTTPServer) handleServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"services": s.public.Services()})
}

func (s *HTTPServer) handleOpenDays(w http.ResponseWriter, r *http.Request) {
	count := intQuery(r, "count", models.DefaultOpenDaysCount)
	writeJSON(w, http.StatusOK, map[string]any{"days": s.public.OpenDays(count)})
}

func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	duration := intQuery(r, "duration", 0)
	if serviceName := strings.TrimSpace(r.URL.Query().Get("service")); serviceName != "" {
		found := false
		for _, svc := range s.public.Services() {
			if strings.EqualFold(svc.Name, serviceName) {
				duration = svc.DurationMinutes
				found = true
				break
			}
		}
		if !found {
			writeError(w, http.StatusBadRequest, "unknown service")
			return
		}
	}
	if duration <= 0 {
		writeError(w, http.StatusBadRequest, "service or duration is required")
		return
	}

	slots, err := s.public.Slots(r.Context(), date, duration)
	if err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "slots": slots})
}

func (s *HTTPServer) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req scheduling.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	appt, err := s.public.CreateAppointment(r.Context(), req)
	if err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

func (s *HTTPServer) handleClientLookup(w http.ResponseWriter, r *http.Request) {
	identifier := strings.TrimSpace(r.URL.Query().Get("identifier"))
	if identifier == "" {
		writeError(w, http.StatusBadRequest, "identifier is required")
		return
	}

	appointments, err := s.public.ClientAppointments(r.Context(), identifier)
	if err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appointments})
}

func (s *HTTPServer) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, ok := s.queryAppointments(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appointments})
}

// queryAppointments selects the admin read matching the query parameters:
// from/to for a date range, date for one day, otherwise the full book.
// On failure the response is already written and ok is false.
func (s *HTTPServer) queryAppointments(w http.ResponseWriter, r *http.Request) ([]*models.Appointment, bool) {
	q := r.URL.Query()
	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))

	var (
		appointments []*models.Appointment
		err          error
	)
	switch {
	case from != "" || to != "":
		if from == "" || to == "" {
			writeError(w, http.StatusBadRequest, "from and to must be provided together")
			return nil, false
		}
		appointments, err = s.admin.AppointmentsByDateRange(r.Context(), from, to)
	case strings.TrimSpace(q.Get("date")) != "":
		appointments, err = s.admin.AppointmentsByDate(r.Context(), strings.TrimSpace(q.Get("date")))
	default:
		appointments, err = s.admin.ListAppointments(r.Context())
	}
	if err != nil {
		s.writeSchedulingError(w, err)
		return nil, false
	}
	return appointments, true
}

func (s *HTTPServer) handleGetAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := s.admin.GetAppointment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (s *HTTPServer) handleConfirm(w http.ResponseWriter, r *http.Request) {
	appt, err := s.admin.Confirm(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (s *HTTPServer) handleReject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	appt, err := s.admin.Reject(r.Context(), r.PathValue("id"), body.Reason)
	if err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (s *HTTPServer) handleComplete(w http.ResponseWriter, r *http.Request) {
	var completion models.Completion
	if err := decodeJSON(r, &completion); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	appt, err := s.admin.Complete(r.Context(), r.PathValue("id"), completion)
	if err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (s *HTTPServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	appt, err := s.admin.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (s *HTTPServer) handlePatch(w http.ResponseWriter, r *http.Request) {
	var patch models.AppointmentPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	appt, err := s.admin.Patch(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (s *HTTPServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.admin.Stats(r.Context())
	if err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}

	appointments, ok := s.queryAppointments(w, r)
	if !ok {
		return
	}

	filePath, err := s.exporter.Appointments(appointments)
	if err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file": filePath})
}

func (s *HTTPServer) handleCleanup(w http.ResponseWriter, r *http.Request) {
	retention := intQuery(r, "retention_days", s.cleanup.RetentionDays)

	removed, err := s.admin.Cleanup(r.Context(), retention)
	if err != nil {
		s.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

// writeSchedulingError maps engine errors onto HTTP status codes.
func (s *HTTPServer) writeSchedulingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "appointment not found")
	case errors.Is(err, database.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot is already taken")
	case errors.Is(err, scheduling.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, scheduling.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
