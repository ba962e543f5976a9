package user

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength     = 100
	MaxUsernameLength = 50
)

// Status constants. StatusPendingApproval is a retired value that may still
// appear in stored records; it is normalized to active on load.
const (
	StatusActive          = "active"
	StatusPendingApproval = "pending_approval"
)

// Permission constants — capabilities an admin can grant individually.
const (
	PermManageFestivals = "manage_festivals"
	PermDeletePosts     = "delete_posts"
	PermManageAwards    = "manage_awards"
	PermManageQuals     = "manage_qualifications"
	PermManageMembers   = "manage_members"
	PermManageSchedule  = "manage_schedule"
)

// ValidPermissions contains all grantable permission values.
var ValidPermissions = []string{
	PermManageFestivals,
	PermDeletePosts,
	PermManageAwards,
	PermManageQuals,
	PermManageMembers,
	PermManageSchedule,
}

// ProfileEditWindow is the minimum gap between two profile edits.
const ProfileEditWindow = 30 * 24 * time.Hour

// ShareWindow is the minimum gap between two "share my Aufguss" posts.
const ShareWindow = 24 * time.Hour

// Domain errors
var (
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrEmptyUsername     = errors.New("username cannot be empty")
	ErrEmptyPassword     = errors.New("password cannot be empty")
	ErrWrongPassword     = errors.New("incorrect password")
	ErrInvalidPermission = errors.New("unknown permission")
	ErrEditWindowClosed  = errors.New("profile can only be edited once every 30 days")
)

// User holds state for a club member.
type User struct {
	ID                       string
	Name                     string
	Username                 string
	Email                    string // optional, used for notifications
	PasswordHash             string
	PrimarySauna             string
	Status                   string
	Qualifications           []string
	Awards                   []string // award ids
	AufgussCount             int
	WorkHours                float64
	IsAdmin                  bool
	Permissions              []string
	ShortNoticeCancellations int
	ShowInMemberList         bool
	LastProfileUpdate        time.Time
	LastAufgussShare         time.Time
	CreatedAt                time.Time
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if len(u.Name) > MaxNameLength {
		return errors.New("name cannot exceed 100 characters")
	}
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if len(u.Username) > MaxUsernameLength {
		return errors.New("username cannot exceed 50 characters")
	}
	for _, p := range u.Permissions {
		if !isValidPermission(p) {
			return ErrInvalidPermission
		}
	}
	if u.AufgussCount < 0 {
		return errors.New("aufguss count cannot be negative")
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is non-empty
// POST: PasswordHash is set to bcrypt hash
func (u *User) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: User fields are not mutated
func (u *User) CheckPassword(plaintext string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// HasPermission returns true if the user holds the given capability.
// Admins implicitly hold every capability.
// INVARIANT: User fields are not mutated
func (u *User) HasPermission(perm string) bool {
	if u.IsAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAward returns true if the award id has been granted to the user.
func (u *User) HasAward(awardID string) bool {
	for _, a := range u.Awards {
		if a == awardID {
			return true
		}
	}
	return false
}

// CanEditProfile reports whether the 30-day edit window has elapsed.
// INVARIANT: User fields are not mutated
func (u *User) CanEditProfile(now time.Time) bool {
	if u.LastProfileUpdate.IsZero() {
		return true
	}
	return now.Sub(u.LastProfileUpdate) >= ProfileEditWindow
}

// CanShareAufguss reports whether the 24-hour share window has elapsed.
// INVARIANT: User fields are not mutated
func (u *User) CanShareAufguss(now time.Time) bool {
	if u.LastAufgussShare.IsZero() {
		return true
	}
	return now.Sub(u.LastAufgussShare) >= ShareWindow
}

func isValidPermission(perm string) bool {
	for _, p := range ValidPermissions {
		if p == perm {
			return true
		}
	}
	return false
}
