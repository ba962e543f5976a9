package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"saunaclub/internal/adapters/email"
	"saunaclub/internal/application"
	"saunaclub/internal/domain/festival"
)

const dateFormat = "2006-01-02"

// handleFestivals handles GET/POST/PUT/DELETE for /api/festivals
func handleFestivals(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, struct {
			Festivals  []festival.Festival `json:"festivals"`
			SelectedID string              `json:"selectedId"`
		}{
			Festivals:  app.Festivals(),
			SelectedID: app.SelectedFestivalID(),
		})

	case "POST":
		var input struct {
			Name           string   `json:"name"`
			StartDate      string   `json:"startDate"`
			EndDate        string   `json:"endDate"`
			Location       string   `json:"location"`
			NumberOfSaunas int      `json:"numberOfSaunas"`
			AufgussTimes   []string `json:"aufgussTimes"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		startDate, err := time.Parse(dateFormat, input.StartDate)
		if err != nil {
			http.Error(w, "invalid startDate format (use YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		endDate, err := time.Parse(dateFormat, input.EndDate)
		if err != nil {
			http.Error(w, "invalid endDate format (use YYYY-MM-DD)", http.StatusBadRequest)
			return
		}

		f, err := app.CreateFestival(sess.UserID, application.FestivalInput{
			Name:           input.Name,
			StartDate:      startDate,
			EndDate:        endDate,
			Location:       input.Location,
			NumberOfSaunas: input.NumberOfSaunas,
			AufgussTimes:   input.AufgussTimes,
		})
		if err != nil {
			apiError(w, err)
			return
		}

		announceFestival(f)
		writeJSON(w, http.StatusCreated, f)

	case "PUT":
		var input struct {
			ID             string   `json:"id"`
			Name           string   `json:"name"`
			StartDate      string   `json:"startDate"`
			EndDate        string   `json:"endDate"`
			Location       string   `json:"location"`
			NumberOfSaunas int      `json:"numberOfSaunas"`
			AufgussTimes   []string `json:"aufgussTimes"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		var existing *festival.Festival
		for _, f := range app.Festivals() {
			if f.ID == input.ID {
				existing = &f
				break
			}
		}
		if existing == nil {
			http.Error(w, "festival not found", http.StatusNotFound)
			return
		}

		updated := *existing
		updated.Name = input.Name
		updated.Location = input.Location
		updated.NumberOfSaunas = input.NumberOfSaunas
		updated.AufgussTimes = input.AufgussTimes
		if input.StartDate != "" {
			startDate, err := time.Parse(dateFormat, input.StartDate)
			if err != nil {
				http.Error(w, "invalid startDate format (use YYYY-MM-DD)", http.StatusBadRequest)
				return
			}
			updated.StartDate = startDate
			updated.RSVPDeadline = festival.RSVPDeadlineFor(startDate)
		}
		if input.EndDate != "" {
			endDate, err := time.Parse(dateFormat, input.EndDate)
			if err != nil {
				http.Error(w, "invalid endDate format (use YYYY-MM-DD)", http.StatusBadRequest)
				return
			}
			updated.EndDate = endDate
		}

		if err := app.UpdateFestival(sess.UserID, updated); err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case "DELETE":
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := app.DeleteFestival(sess.UserID, id); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// announceFestival emails every member with an address about a new festival.
func announceFestival(f festival.Festival) {
	if emailSender == nil {
		return
	}
	var recipients []string
	for _, u := range app.Users() {
		if u.Email != "" {
			recipients = append(recipients, u.Email)
		}
	}
	if len(recipients) == 0 {
		return
	}

	dates := f.StartDate.Format("02.01.2006") + " bis " + f.EndDate.Format("02.01.2006")
	reqs := email.FestivalAnnouncement(recipients, f.Name, dates)
	for i := range reqs {
		reqs[i].From = emailFromAddress
		reqs[i].ReplyTo = emailReplyTo
	}
	go func() {
		if _, err := emailSender.SendBatch(context.Background(), reqs); err != nil {
			slog.Error("festival_announcement_failed", "festival_id", f.ID, "error", err)
		}
	}()
}

// handleSelectFestival handles POST for /api/festivals/select
func handleSelectFestival(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	var input struct {
		ID string `json:"id"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.SelectFestival(input.ID); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRSVP handles POST for /api/festivals/rsvp
func handleRSVP(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		FestivalID string `json:"festivalId"`
		Status     string `json:"status"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.RSVP(input.FestivalID, sess.UserID, input.Status); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAvailability handles POST for /api/festivals/availability
func handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		FestivalID string   `json:"festivalId"`
		Times      []string `json:"times"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.SetAvailability(input.FestivalID, sess.UserID, input.Times); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProposals handles POST/DELETE for /api/festivals/proposals
func handleProposals(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "POST":
		var input struct {
			FestivalID string `json:"festivalId"`
			Name       string `json:"name"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		proposal, err := app.AddProposal(input.FestivalID, sess.UserID, input.Name)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, proposal)

	case "DELETE":
		festivalID := r.URL.Query().Get("festivalId")
		proposalID := r.URL.Query().Get("proposalId")
		if festivalID == "" || proposalID == "" {
			http.Error(w, "festivalId and proposalId are required", http.StatusBadRequest)
			return
		}
		if err := app.RemoveProposal(festivalID, sess.UserID, proposalID); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTasks handles POST/DELETE for /api/festivals/tasks
func handleTasks(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "POST":
		var input struct {
			FestivalID  string `json:"festivalId"`
			Description string `json:"description"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		task, err := app.AddTask(sess.UserID, input.FestivalID, input.Description)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, task)

	case "DELETE":
		festivalID := r.URL.Query().Get("festivalId")
		taskID := r.URL.Query().Get("taskId")
		if festivalID == "" || taskID == "" {
			http.Error(w, "festivalId and taskId are required", http.StatusBadRequest)
			return
		}
		if err := app.RemoveTask(sess.UserID, festivalID, taskID); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTaskClaim handles POST for /api/festivals/tasks/claim
func handleTaskClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		FestivalID string `json:"festivalId"`
		TaskID     string `json:"taskId"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.ClaimTask(input.FestivalID, input.TaskID, sess.UserID); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTaskRelease handles POST for /api/festivals/tasks/release
func handleTaskRelease(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		FestivalID string `json:"festivalId"`
		TaskID     string `json:"taskId"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.ReleaseTask(sess.UserID, input.FestivalID, input.TaskID); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTaskAssign handles POST for /api/festivals/tasks/assign
func handleTaskAssign(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		FestivalID string `json:"festivalId"`
		TaskID     string `json:"taskId"`
		UserID     string `json:"userId"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.AssignTask(sess.UserID, input.FestivalID, input.TaskID, input.UserID); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLogHours handles POST for /api/festivals/hours
func handleLogHours(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		FestivalID string  `json:"festivalId"`
		Hours      float64 `json:"hours"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Hours < 0 {
		http.Error(w, "hours cannot be negative", http.StatusBadRequest)
		return
	}
	if err := app.LogHours(input.FestivalID, sess.UserID, input.Hours); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
