package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"saunaclub/internal/adapters/email"
	"saunaclub/internal/adapters/http/middleware"
	"saunaclub/internal/application"
	"saunaclub/internal/domain/festival"
	"saunaclub/internal/domain/post"
	"saunaclub/internal/domain/user"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// registerRoutes attaches all API handlers to the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/register", handleRegister)
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/me", handleMe)
	mux.HandleFunc("/api/members", handleMembers)
	mux.HandleFunc("/api/profile", handleProfile)

	mux.HandleFunc("/api/feed", handleFeed)
	mux.HandleFunc("/api/feed/like", handleLike)
	mux.HandleFunc("/api/feed/vote", handleVote)
	mux.HandleFunc("/api/feed/comments", handleComments)

	mux.HandleFunc("/api/schedule", handleSchedule)
	mux.HandleFunc("/api/schedule/claim", handleClaimSlot)
	mux.HandleFunc("/api/schedule/cancel", handleCancelSlot)
	mux.HandleFunc("/api/schedule/share", handleShareAufguss)

	mux.HandleFunc("/api/festivals", handleFestivals)
	mux.HandleFunc("/api/festivals/select", handleSelectFestival)
	mux.HandleFunc("/api/festivals/rsvp", handleRSVP)
	mux.HandleFunc("/api/festivals/availability", handleAvailability)
	mux.HandleFunc("/api/festivals/proposals", handleProposals)
	mux.HandleFunc("/api/festivals/tasks", handleTasks)
	mux.HandleFunc("/api/festivals/tasks/claim", handleTaskClaim)
	mux.HandleFunc("/api/festivals/tasks/release", handleTaskRelease)
	mux.HandleFunc("/api/festivals/tasks/assign", handleTaskAssign)
	mux.HandleFunc("/api/festivals/hours", handleLogHours)

	mux.HandleFunc("/api/admin/permissions", handlePermissions)
	mux.HandleFunc("/api/admin/role", handleAdminRole)
	mux.HandleFunc("/api/admin/awards", handleAwards)
	mux.HandleFunc("/api/admin/awards/toggle", handleAwardToggle)
	mux.HandleFunc("/api/admin/qualifications", handleMemberQualifications)
	mux.HandleFunc("/api/admin/catalog/aufguss-types", handleAufgussTypeCatalog)
	mux.HandleFunc("/api/admin/catalog/qualifications", handleQualificationCatalog)
	mux.HandleFunc("/api/admin/registration-code", handleRegistrationCode)
	mux.HandleFunc("/api/admin/background", handleBackground)
	mux.HandleFunc("/api/admin/report", handleReport)
	mux.HandleFunc("/api/admin/perf", handlePerf)
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// apiError maps controller errors onto HTTP status codes.
func apiError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, application.ErrNotPermitted):
		status = http.StatusForbidden
	case errors.Is(err, application.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrSlotNotFound),
		errors.Is(err, application.ErrPostNotFound),
		errors.Is(err, application.ErrFestivalNotFound),
		errors.Is(err, application.ErrAwardNotFound),
		errors.Is(err, festival.ErrUnknownUser),
		errors.Is(err, festival.ErrUnknownTask):
		status = http.StatusNotFound
	case errors.Is(err, application.ErrUsernameTaken),
		errors.Is(err, festival.ErrTaskClaimed),
		errors.Is(err, festival.ErrHoursLogged),
		errors.Is(err, application.ErrShareTooSoon),
		errors.Is(err, user.ErrEditWindowClosed):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}

// requireSession writes a 401 and returns false when no session is attached.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return middleware.Session{}, false
	}
	return sess, true
}

// userView is the member representation sent to clients. The password hash
// never leaves the server.
type userView struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name"`
	Username                 string    `json:"username"`
	PrimarySauna             string    `json:"primarySauna"`
	Qualifications           []string  `json:"qualifications"`
	Awards                   []string  `json:"awards"`
	AufgussCount             int       `json:"aufgussCount"`
	WorkHours                float64   `json:"workHours"`
	IsAdmin                  bool      `json:"isAdmin"`
	Permissions              []string  `json:"permissions"`
	ShortNoticeCancellations int       `json:"shortNoticeCancellations"`
	ShowInMemberList         bool      `json:"showInMemberList"`
	CreatedAt                time.Time `json:"createdAt"`
}

func toUserView(u user.User) userView {
	return userView{
		ID:                       u.ID,
		Name:                     u.Name,
		Username:                 u.Username,
		PrimarySauna:             u.PrimarySauna,
		Qualifications:           u.Qualifications,
		Awards:                   u.Awards,
		AufgussCount:             u.AufgussCount,
		WorkHours:                u.WorkHours,
		IsAdmin:                  u.IsAdmin,
		Permissions:              u.Permissions,
		ShortNoticeCancellations: u.ShortNoticeCancellations,
		ShowInMemberList:         u.ShowInMemberList,
		CreatedAt:                u.CreatedAt,
	}
}

func toUserViews(users []user.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return views
}

// renderMarkdown converts post content to sanitized HTML.
func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(content), &buf); err != nil {
		slog.Warn("markdown_render_failed", "error", err)
		return ""
	}
	return buf.String()
}

func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Name         string `json:"name"`
		Username     string `json:"username"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		Code         string `json:"code"`
		PrimarySauna string `json:"primarySauna"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	u, err := app.Register(application.RegisterInput{
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		Password:     input.Password,
		Code:         input.Code,
		PrimarySauna: input.PrimarySauna,
	})
	if err != nil {
		apiError(w, err)
		return
	}

	if emailSender != nil && u.Email != "" {
		req := email.WelcomeEmail(u.Email, u.Name)
		req.From = emailFromAddress
		req.ReplyTo = emailReplyTo
		go func() {
			if _, err := emailSender.Send(context.Background(), req); err != nil {
				slog.Error("welcome_email_failed", "user_id", u.ID, "error", err)
			}
		}()
	}

	token, err := sessions.Create(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, toUserView(u))
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	u, err := app.Login(input.Username, input.Password)
	if err != nil {
		apiError(w, err)
		return
	}

	token, err := sessions.Create(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, toUserView(u))
}

func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie("saunaclub_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	u, ok := app.UserByID(sess.UserID)
	if !ok {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	view := struct {
		userView
		DaysSinceLastAufguss int  `json:"daysSinceLastAufguss"`
		HasPastAufguss       bool `json:"hasPastAufguss"`
	}{userView: toUserView(u)}
	view.DaysSinceLastAufguss, view.HasPastAufguss = app.DaysSinceLastAufguss(u.ID)
	writeJSON(w, http.StatusOK, view)
}

// handleMembers serves the directory and member deletion.
func handleMembers(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, toUserViews(app.MemberDirectory()))

	case "DELETE":
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := app.DeleteUser(sess.UserID, id); err != nil {
			apiError(w, err)
			return
		}
		sessions.DeleteByUserID(id)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PUT" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		Name             string `json:"name"`
		PrimarySauna     string `json:"primarySauna"`
		ShowInMemberList bool   `json:"showInMemberList"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	err := app.UpdateProfile(sess.UserID, application.ProfileUpdate{
		Name:             input.Name,
		PrimarySauna:     input.PrimarySauna,
		ShowInMemberList: input.ShowInMemberList,
	})
	if err != nil {
		apiError(w, err)
		return
	}
	u, _ := app.UserByID(sess.UserID)
	writeJSON(w, http.StatusOK, toUserView(u))
}

// postView augments a post with rendered HTML and the author's name.
type postView struct {
	post.Post
	AuthorName  string `json:"authorName"`
	ContentHTML string `json:"contentHtml"`
}

func toPostView(p post.Post) postView {
	view := postView{Post: p}
	if u, ok := app.UserByID(p.UserID); ok {
		view.AuthorName = u.Name
	}
	if p.Type == post.TypeText {
		view.ContentHTML = renderMarkdown(p.Content)
	}
	return view
}
