package web

import (
	"context"
	"log/slog"
	"net/http"

	"saunaclub/internal/adapters/email"
	"saunaclub/internal/domain/aufguss"
)

// handleSchedule handles GET for /api/schedule
func handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Slots        []aufguss.Slot `json:"slots"`
		AufgussTypes []string       `json:"aufgussTypes"`
	}{
		Slots:        app.Slots(),
		AufgussTypes: app.AufgussTypes(),
	})
}

// handleClaimSlot handles POST for /api/schedule/claim
func handleClaimSlot(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		SlotID string `json:"slotId"`
		Type   string `json:"type"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.ClaimSlot(sess.UserID, input.SlotID, input.Type); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCancelSlot handles POST for /api/schedule/cancel. Short-notice
// cancellations trigger an alert mail to all admins.
func handleCancelSlot(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		SlotID string `json:"slotId"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// Capture slot details before the cancellation clears them.
	var cancelled aufguss.Slot
	for _, s := range app.Slots() {
		if s.ID == input.SlotID {
			cancelled = s
			break
		}
	}

	shortNotice, err := app.CancelSlot(sess.UserID, input.SlotID)
	if err != nil {
		apiError(w, err)
		return
	}

	if shortNotice && emailSender != nil {
		var admins []string
		for _, u := range app.Users() {
			if u.IsAdmin && u.Email != "" {
				admins = append(admins, u.Email)
			}
		}
		if len(admins) > 0 {
			req := email.ShortNoticeCancellationAlert(admins, cancelled.MasterName,
				cancelled.Location, cancelled.Sauna, cancelled.Date, cancelled.Time)
			req.From = emailFromAddress
			req.ReplyTo = emailReplyTo
			go func() {
				if _, err := emailSender.Send(context.Background(), req); err != nil {
					slog.Error("cancellation_alert_failed", "slot_id", cancelled.ID, "error", err)
				}
			}()
		}
	}

	writeJSON(w, http.StatusOK, struct {
		ShortNotice bool `json:"shortNotice"`
	}{ShortNotice: shortNotice})
}

// handleShareAufguss handles POST for /api/schedule/share
func handleShareAufguss(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	p, err := app.ShareAufguss(sess.UserID)
	if err != nil {
		apiError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostView(p))
}
