package web

import (
	"net/http"
	"time"

	"saunaclub/internal/domain/award"
)

// handlePermissions handles POST for /api/admin/permissions
func handlePermissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		UserID      string   `json:"userId"`
		Permissions []string `json:"permissions"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.SetPermissions(sess.UserID, input.UserID, input.Permissions); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminRole handles POST for /api/admin/role
func handleAdminRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		UserID  string `json:"userId"`
		IsAdmin bool   `json:"isAdmin"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.SetAdmin(sess.UserID, input.UserID, input.IsAdmin); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAwards handles GET/POST for /api/admin/awards
func handleAwards(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, app.Awards())

	case "POST":
		var input struct {
			Name  string `json:"name"`
			Icon  string `json:"icon"`
			Color string `json:"color"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		a, err := app.AddAward(sess.UserID, award.Award{
			Name:  input.Name,
			Icon:  input.Icon,
			Color: input.Color,
		})
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAwardToggle handles POST for /api/admin/awards/toggle
func handleAwardToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		UserID  string `json:"userId"`
		AwardID string `json:"awardId"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.ToggleAward(sess.UserID, input.UserID, input.AwardID); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMemberQualifications handles POST for /api/admin/qualifications
func handleMemberQualifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		UserID         string   `json:"userId"`
		Qualifications []string `json:"qualifications"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.SetQualifications(sess.UserID, input.UserID, input.Qualifications); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAufgussTypeCatalog handles GET/POST/DELETE for /api/admin/catalog/aufguss-types
func handleAufgussTypeCatalog(w http.ResponseWriter, r *http.Request) {
	handleCatalog(w, r, app.AufgussTypes, app.AddAufgussType, app.RemoveAufgussType)
}

// handleQualificationCatalog handles GET/POST/DELETE for /api/admin/catalog/qualifications
func handleQualificationCatalog(w http.ResponseWriter, r *http.Request) {
	handleCatalog(w, r, app.Qualifications, app.AddQualificationOption, app.RemoveQualificationOption)
}

func handleCatalog(w http.ResponseWriter, r *http.Request, list func() []string, add, remove func(actorID, name string) error) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, list())

	case "POST":
		var input struct {
			Name string `json:"name"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if err := add(sess.UserID, input.Name); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case "DELETE":
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if err := remove(sess.UserID, name); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleRegistrationCode handles POST for /api/admin/registration-code
func handleRegistrationCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		Code string `json:"code"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := app.SetRegistrationCode(sess.UserID, input.Code); err != nil {
		apiError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleBackground handles GET/POST for /api/admin/background
func handleBackground(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		view := r.URL.Query().Get("view")
		if view == "" {
			http.Error(w, "view is required", http.StatusBadRequest)
			return
		}
		data, _ := app.Background(view)
		writeJSON(w, http.StatusOK, struct {
			View string `json:"view"`
			Data string `json:"data"`
		}{View: view, Data: data})

	case "POST":
		var input struct {
			View string `json:"view"`
			Data string `json:"data"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if input.View == "" {
			http.Error(w, "view is required", http.StatusBadRequest)
			return
		}
		if err := app.SetBackground(sess.UserID, input.View, input.Data); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleReport handles GET for /api/admin/report
func handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if !sess.IsAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, app.Report())
}

// handlePerf handles GET for /api/admin/perf
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if !sess.IsAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if perfCollector == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(time.Now().Add(-time.Hour), 20))
}
