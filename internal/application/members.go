package application

import (
	"errors"
	"log/slog"
	"sort"
	"strings"

	"saunaclub/internal/adapters/storage"
	"saunaclub/internal/domain/festival"
	"saunaclub/internal/domain/user"
)

// Membership errors
var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCode        = errors.New("invalid registration code")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name         string
	Username     string
	Email        string
	Password     string
	Code         string
	PrimarySauna string
}

// Register creates a new member and enrolls them as a pending participant in
// every existing festival.
// PRE: Code matches the current registration code, Username is unused
// POST: User is persisted and appears in all festivals as pending
func (c *Controller) Register(input RegisterInput) (user.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if input.Code != c.registrationCode {
		return user.User{}, ErrInvalidCode
	}
	username := strings.TrimSpace(input.Username)
	for i := range c.users {
		if strings.EqualFold(c.users[i].Username, username) {
			return user.User{}, ErrUsernameTaken
		}
	}

	u := user.User{
		ID:               c.newID(),
		Name:             strings.TrimSpace(input.Name),
		Username:         username,
		Email:            strings.TrimSpace(input.Email),
		PrimarySauna:     input.PrimarySauna,
		Status:           user.StatusActive,
		ShowInMemberList: true,
		CreatedAt:        c.now(),
	}
	if err := u.SetPassword(input.Password); err != nil {
		return user.User{}, err
	}
	if err := u.Validate(); err != nil {
		return user.User{}, err
	}

	users := append(append([]user.User(nil), c.users...), u)

	festivals := make([]festival.Festival, len(c.festivals))
	for i := range c.festivals {
		f := cloneFestival(c.festivals[i])
		f.Participants = append(f.Participants, festival.Participant{
			UserID: u.ID,
			Status: festival.StatusPending,
		})
		festivals[i] = f
	}

	c.users = users
	c.festivals = festivals
	c.persist(storage.KeyUsers, users)
	if len(festivals) > 0 {
		c.persist(storage.KeyFestivals, festivals)
	}

	slog.Info("member_registered", "user_id", u.ID, "username", u.Username)
	return cloneUser(u), nil
}

// EnsureAdmin seeds the first admin account when the member list is empty.
// Called once at startup; a no-op when any user already exists.
func (c *Controller) EnsureAdmin(name, username, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.users) > 0 {
		return nil
	}

	u := user.User{
		ID:               c.newID(),
		Name:             name,
		Username:         username,
		Status:           user.StatusActive,
		IsAdmin:          true,
		ShowInMemberList: true,
		CreatedAt:        c.now(),
	}
	if err := u.SetPassword(password); err != nil {
		return err
	}
	if err := u.Validate(); err != nil {
		return err
	}

	users := []user.User{u}
	c.users = users
	c.persist(storage.KeyUsers, users)

	slog.Info("admin_seeded", "username", username)
	return nil
}

// Login checks a username/password pair and returns the matching user.
// POST: Returns the user on success; ErrInvalidCredentials otherwise
func (c *Controller) Login(username, password string) (user.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.users {
		if !strings.EqualFold(c.users[i].Username, strings.TrimSpace(username)) {
			continue
		}
		if err := c.users[i].CheckPassword(password); err != nil {
			slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "wrong_password")
			return user.User{}, ErrInvalidCredentials
		}
		return cloneUser(c.users[i]), nil
	}
	slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "not_found")
	return user.User{}, ErrInvalidCredentials
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name             string
	PrimarySauna     string
	ShowInMemberList bool
}

// UpdateProfile applies a profile edit. Edits are limited to one per 30-day
// window since the last edit.
// PRE: The edit window has elapsed
// POST: Profile fields and LastProfileUpdate are set
func (c *Controller) UpdateProfile(userID string, update ProfileUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.userIndex(userID)
	if i < 0 {
		return ErrUserNotFound
	}
	if !c.users[i].CanEditProfile(c.now()) {
		return user.ErrEditWindowClosed
	}

	users := append([]user.User(nil), c.users...)
	u := cloneUser(users[i])
	u.Name = strings.TrimSpace(update.Name)
	u.PrimarySauna = update.PrimarySauna
	u.ShowInMemberList = update.ShowInMemberList
	u.LastProfileUpdate = c.now()
	if err := u.Validate(); err != nil {
		return err
	}
	users[i] = u

	c.users = users
	c.persist(storage.KeyUsers, users)
	return nil
}

// DeleteUser removes a member. Claimed slots and feed posts are left intact
// as history.
// PRE: actor is an admin or holds the manage-members permission
// POST: The user record is gone
func (c *Controller) DeleteUser(actorID, targetID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorCan(actorID, user.PermManageMembers) {
		return ErrNotPermitted
	}
	i := c.userIndex(targetID)
	if i < 0 {
		return ErrUserNotFound
	}

	users := append([]user.User(nil), c.users[:i]...)
	users = append(users, c.users[i+1:]...)

	c.users = users
	c.persist(storage.KeyUsers, users)
	slog.Info("member_deleted", "user_id", targetID, "actor_id", actorID)
	return nil
}

// MemberDirectory returns the members who opted into the directory, sorted
// by name.
func (c *Controller) MemberDirectory() []user.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []user.User
	for i := range c.users {
		if c.users[i].ShowInMemberList {
			out = append(out, cloneUser(c.users[i]))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}
