package api

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/mmynk/rentmate/internal/calculator"
	"github.com/mmynk/rentmate/internal/export"
	"github.com/mmynk/rentmate/internal/models"
	"github.com/mmynk/rentmate/internal/session"
)

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	step, phone := s.gate.State()
	writeJSON(w, http.StatusOK, map[string]string{"step": string(step), "phone": phone})
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	code, err := s.gate.Start(r.Context(), req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}
	// The gate is cosmetic: the code goes straight back for display
	// instead of out over SMS.
	writeJSON(w, http.StatusOK, map[string]string{"step": string(session.StepOTP), "code": code})
}

func (s *Server) handleSessionVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, err := s.gate.Verify(r.Context(), req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	step, _ := s.gate.State()
	writeJSON(w, http.StatusOK, map[string]string{"step": string(step), "token": token})
}

func (s *Server) handleSessionRestart(w http.ResponseWriter, r *http.Request) {
	s.gate.Restart(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"step": string(session.StepLogin)})
}

func (s *Server) handleSessionComplete(w http.ResponseWriter, r *http.Request) {
	sum := s.svc.Summary()
	if sum.Room.Name == "" || sum.Room.MonthlyRent <= 0 || len(sum.Room.Roommates) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "room setup incomplete: need a name, a rent figure, and at least one roommate",
		})
		return
	}
	if err := s.gate.CompleteSetup(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"step": string(session.StepDashboard)})
}

func (s *Server) handleSetRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		MonthlyRent float64 `json:"monthlyRent"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.svc.SetRoom(r.Context(), req.Name, req.MonthlyRent); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Summary())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Summary())
}

func (s *Server) handleAddRoommate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Mobile string `json:"mobile"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rm, err := s.svc.AddRoommate(r.Context(), req.Name, req.Mobile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rm)
}

func (s *Server) handleRemoveRoommate(w http.ResponseWriter, r *http.Request) {
	// Removal of an unknown id is a no-op by contract, so this always
	// succeeds.
	s.svc.RemoveRoommate(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecordBill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoommateID string `json:"roommateId"`
		Kind       string `json:"kind"`
		Amount     string `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.svc.RecordBillPayment(r.Context(), req.RoommateID, models.BillKind(req.Kind), req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Summary())
}

func (s *Server) handleCloseMonth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month string `json:"month"`
		Year  int    `json:"year"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	now := time.Now()
	if req.Month == "" {
		req.Month = now.Month().String()
	}
	if req.Year == 0 {
		req.Year = now.Year()
	}

	rec, err := s.svc.CloseMonth(r.Context(), req.Month, req.Year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListMonths(w http.ResponseWriter, r *http.Request) {
	// The store keeps insertion order; display wants newest first.
	recs := s.svc.Records()
	slices.Reverse(recs)
	writeJSON(w, http.StatusOK, map[string]any{"records": recs})
}

func (s *Server) handleExportMessage(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	msg := export.Message(s.svc.Summary().Room, now.Format("Jan"), now.Year())
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (s *Server) handleExportSMS(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	room := s.svc.Summary().Room
	msg := export.Message(room, now.Format("Jan"), now.Year())
	writeJSON(w, http.StatusOK, map[string]string{"uri": export.SMSURI(room, msg)})
}

func (s *Server) handleExportVCard(w http.ResponseWriter, r *http.Request) {
	room := s.svc.Summary().Room
	rm := room.Find(r.PathValue("id"))
	if rm == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no roommate with that id"})
		return
	}

	filename := strings.ReplaceAll(rm.Name, " ", "_") + "_contact.vcf"
	w.Header().Set("Content-Type", "text/vcard")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, export.VCard(*rm, room.Name))
}

func (s *Server) handleExportDocument(w http.ResponseWriter, r *http.Request) {
	var rec models.MonthlyRecord
	if id := r.URL.Query().Get("record"); id != "" {
		stored, ok := s.svc.Record(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no record with that id"})
			return
		}
		rec = stored
	} else {
		// No record requested: render the live, not-yet-closed month.
		now := time.Now()
		room := s.svc.Summary().Room
		rec = models.MonthlyRecord{
			Month:        now.Month().String(),
			Year:         now.Year(),
			Room:         room,
			Calculations: calculator.Snapshot(&room),
			Timestamp:    now.Unix(),
		}
	}

	html, err := export.HTMLDocument(rec)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, html)
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	s.svc.ClearAll(r.Context())
	s.gate.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"step": string(session.StepLogin)})
}
