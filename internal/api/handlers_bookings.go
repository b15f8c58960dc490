package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shareit/internal/export"
	"shareit/internal/models"
)

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	bookerID, err := requesterID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		ItemID int64     `json:"itemId"`
		Start  time.Time `json:"start"`
		End    time.Time `json:"end"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.Create(r.Context(), bookerID, body.ItemID, body.Start, body.End)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleDecideBooking(w http.ResponseWriter, r *http.Request) {
	ownerID, err := requesterID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bookingID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var approved bool
	switch r.URL.Query().Get("approved") {
	case "true":
		approved = true
	case "false":
		approved = false
	default:
		writeError(w, http.StatusBadRequest, "approved query parameter must be true or false")
		return
	}

	booking, err := s.bookings.Decide(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	viewerID, err := requesterID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bookingID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.bookings.GetByID(r.Context(), viewerID, bookingID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBookerBookings(w http.ResponseWriter, r *http.Request) {
	bookerID, err := requesterID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := viewParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.bookings.GetForBooker(r.Context(), bookerID, view)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleGetOwnerBookings(w http.ResponseWriter, r *http.Request) {
	ownerID, err := requesterID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := viewParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.bookings.GetForOwner(r.Context(), ownerID, view)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// handleExportOwnerBookings отдаёт xlsx-отчёт по всем бронированиям вещей
// владельца.
func (s *HTTPServer) handleExportOwnerBookings(w http.ResponseWriter, r *http.Request) {
	ownerID, err := requesterID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.bookings.GetForOwner(r.Context(), ownerID, models.ViewAll)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	views, err := s.items.GetByOwner(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	itemNames := make(map[int64]string, len(views))
	for _, v := range views {
		itemNames[v.ID] = v.Name
	}

	// Отчёт собирается в памяти: при ошибке ещё можно вернуть статус.
	var buf bytes.Buffer
	if err := export.WriteBookingsReport(&buf, bookings, itemNames); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=bookings_%d.xlsx", ownerID))
	_, _ = w.Write(buf.Bytes())
}

func viewParam(r *http.Request) (string, error) {
	raw := r.URL.Query().Get("state")
	if raw == "" {
		return models.ViewAll, nil
	}
	view := strings.ToUpper(strings.TrimSpace(raw))
	if !models.KnownView(view) {
		return "", fmt.Errorf("unknown state: %s", raw)
	}
	return view, nil
}
