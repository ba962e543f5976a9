package user_test

import (
	"testing"
	"time"

	"saunaclub/internal/domain/user"
)

// TestUserValidation tests validation of User.
func TestUserValidation(t *testing.T) {
	tests := []struct {
		name    string
		user    user.User
		wantErr bool
	}{
		{
			name: "valid user",
			user: user.User{
				ID:       "123",
				Name:     "Lena Weber",
				Username: "lena",
				Status:   user.StatusActive,
			},
			wantErr: false,
		},
		{
			name: "valid user with permissions",
			user: user.User{
				ID:          "123",
				Name:        "Lena Weber",
				Username:    "lena",
				Permissions: []string{user.PermManageFestivals, user.PermDeletePosts},
			},
			wantErr: false,
		},
		{
			name: "empty name",
			user: user.User{
				ID:       "123",
				Name:     "",
				Username: "lena",
			},
			wantErr: true,
		},
		{
			name: "empty username",
			user: user.User{
				ID:       "123",
				Name:     "Lena Weber",
				Username: "  ",
			},
			wantErr: true,
		},
		{
			name: "unknown permission",
			user: user.User{
				ID:          "123",
				Name:        "Lena Weber",
				Username:    "lena",
				Permissions: []string{"rule_the_world"},
			},
			wantErr: true,
		},
		{
			name: "negative aufguss count",
			user: user.User{
				ID:           "123",
				Name:         "Lena Weber",
				Username:     "lena",
				AufgussCount: -1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("User.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestSetAndCheckPassword tests the bcrypt round trip.
func TestSetAndCheckPassword(t *testing.T) {
	var u user.User
	if err := u.SetPassword("sommeraufguss"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "sommeraufguss" {
		t.Errorf("PasswordHash not hashed: %q", u.PasswordHash)
	}
	if err := u.CheckPassword("sommeraufguss"); err != nil {
		t.Errorf("CheckPassword(correct) error = %v", err)
	}
	if err := u.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword(wrong) expected error, got nil")
	}
	if err := u.SetPassword(""); err == nil {
		t.Error("SetPassword(empty) expected error, got nil")
	}
}

// TestHasPermission tests permission checks including the admin override.
func TestHasPermission(t *testing.T) {
	tests := []struct {
		name string
		user user.User
		perm string
		want bool
	}{
		{"granted", user.User{Permissions: []string{user.PermDeletePosts}}, user.PermDeletePosts, true},
		{"not granted", user.User{Permissions: []string{user.PermDeletePosts}}, user.PermManageAwards, false},
		{"admin has everything", user.User{IsAdmin: true}, user.PermManageFestivals, true},
		{"no permissions", user.User{}, user.PermDeletePosts, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.HasPermission(tt.perm); got != tt.want {
				t.Errorf("HasPermission(%q) = %v, want %v", tt.perm, got, tt.want)
			}
		})
	}
}

// TestCanEditProfile tests the 30-day profile edit window.
func TestCanEditProfile(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		lastUpdate time.Time
		want       bool
	}{
		{"never edited", time.Time{}, true},
		{"edited yesterday", now.Add(-24 * time.Hour), false},
		{"edited 29 days ago", now.Add(-29 * 24 * time.Hour), false},
		{"edited exactly 30 days ago", now.Add(-30 * 24 * time.Hour), true},
		{"edited 31 days ago", now.Add(-31 * 24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := user.User{LastProfileUpdate: tt.lastUpdate}
			if got := u.CanEditProfile(now); got != tt.want {
				t.Errorf("CanEditProfile() = %v, want %v", got, tt.want)
			}
		})
	}
}
