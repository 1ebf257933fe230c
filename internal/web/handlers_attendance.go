package web

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/roster/internal/core"
)

// attendanceReceipt echoes a recorded check-in without the image.
type attendanceReceipt struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Timestamp string `json:"timestamp"`
}

// handleAttendanceHistory returns the check-ins newest first.
func (s *Server) handleAttendanceHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.AttendanceHistory(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entries)
}

// handleRecordAttendance records a check-in stamped with the server clock.
func (s *Server) handleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeSubmission(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}

	entry := core.AttendanceEntry{
		Name:      sub.Name,
		Email:     sub.Email,
		Timestamp: s.now().Format(s.cfg.Attendance.TimestampLayout),
		Image:     sub.Image,
	}
	if err := s.store.RecordAttendance(r.Context(), entry); err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, attendanceReceipt{
		Name:      strings.TrimSpace(entry.Name),
		Email:     strings.TrimSpace(entry.Email),
		Timestamp: entry.Timestamp,
	})
}

// handleClearAttendance deletes the attendance history. Requires confirm=true.
func (s *Server) handleClearAttendance(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		fail(w, r, errConfirmationRequired)
		return
	}
	if err := s.store.ClearAttendance(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportAttendance downloads the history as attendance_history.csv.
func (s *Server) handleExportAttendance(w http.ResponseWriter, r *http.Request) {
	exp, err := s.store.ExportAttendance(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeExport(w, r, exp)
}
