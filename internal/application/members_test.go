package application_test

import (
	"errors"
	"testing"

	"saunaclub/internal/application"
	"saunaclub/internal/domain/festival"
	"saunaclub/internal/domain/user"
)

func TestRegister(t *testing.T) {
	c, _ := newTestController(t)

	u, err := c.Register(application.RegisterInput{
		Name:     "Clara",
		Username: "clara",
		Password: "geheim123",
		Code:     "AUFGUSS",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if u.Status != user.StatusActive || !u.ShowInMemberList {
		t.Errorf("registered user = %+v", u)
	}
	if u.PasswordHash == "" || u.PasswordHash == "geheim123" {
		t.Error("password stored in clear or not at all")
	}

	// New members join every existing festival as pending.
	f := festivalByID(t, c, "f-sommer")
	pi := f.ParticipantIndex(u.ID)
	if pi < 0 {
		t.Fatal("new member missing from festival participants")
	}
	if f.Participants[pi].Status != festival.StatusPending {
		t.Errorf("participant status = %q, want pending", f.Participants[pi].Status)
	}
}

func TestRegisterRejections(t *testing.T) {
	c, _ := newTestController(t)

	tests := []struct {
		name    string
		input   application.RegisterInput
		wantErr error
	}{
		{
			name:    "wrong code",
			input:   application.RegisterInput{Name: "X", Username: "x", Password: "geheim123", Code: "FALSCH"},
			wantErr: application.ErrInvalidCode,
		},
		{
			name:    "taken username",
			input:   application.RegisterInput{Name: "X", Username: "Ben", Password: "geheim123", Code: "AUFGUSS"},
			wantErr: application.ErrUsernameTaken,
		},
		{
			name:    "taken username different case",
			input:   application.RegisterInput{Name: "X", Username: "bEn", Password: "geheim123", Code: "AUFGUSS"},
			wantErr: application.ErrUsernameTaken,
		},
		{
			name:    "empty password",
			input:   application.RegisterInput{Name: "X", Username: "x", Password: "", Code: "AUFGUSS"},
			wantErr: user.ErrEmptyPassword,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Register(tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	c, _ := newTestController(t)

	if _, err := c.Register(application.RegisterInput{
		Name: "Clara", Username: "clara", Password: "geheim123", Code: "AUFGUSS",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := c.Login("Clara", "geheim123"); err != nil {
		t.Errorf("Login(case-insensitive) error = %v", err)
	}
	if _, err := c.Login("clara", "falsch123"); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Errorf("Login(wrong password) error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := c.Login("niemand", "geheim123"); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Errorf("Login(unknown) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestUpdateProfileWindow(t *testing.T) {
	c, _ := newTestController(t)

	update := application.ProfileUpdate{Name: "Ben Neu", PrimarySauna: "Panoramabad", ShowInMemberList: false}
	if err := c.UpdateProfile("u-ben", update); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	u := userByID(t, c, "u-ben")
	if u.Name != "Ben Neu" || u.ShowInMemberList {
		t.Errorf("user after update = %+v", u)
	}
	if !u.LastProfileUpdate.Equal(testNow) {
		t.Errorf("LastProfileUpdate = %v, want %v", u.LastProfileUpdate, testNow)
	}

	// A second edit inside the 30-day window is rejected.
	if err := c.UpdateProfile("u-ben", update); !errors.Is(err, user.ErrEditWindowClosed) {
		t.Errorf("second UpdateProfile() error = %v, want ErrEditWindowClosed", err)
	}
}

func TestDeleteUser(t *testing.T) {
	c, _ := newTestController(t)

	if err := c.DeleteUser("u-ben", "u-anna"); !errors.Is(err, application.ErrNotPermitted) {
		t.Errorf("DeleteUser(member) error = %v, want ErrNotPermitted", err)
	}
	if err := c.DeleteUser("u-anna", "u-ben"); err != nil {
		t.Fatalf("DeleteUser(admin) error = %v", err)
	}
	if _, ok := c.UserByID("u-ben"); ok {
		t.Error("deleted user still present")
	}

	// Festival history keeps the participant record.
	f := festivalByID(t, c, "f-sommer")
	if f.ParticipantIndex("u-ben") < 0 {
		t.Error("participant record removed with user")
	}
}

func TestMemberDirectory(t *testing.T) {
	c, _ := newTestController(t)

	if err := c.UpdateProfile("u-ben", application.ProfileUpdate{Name: "Ben", ShowInMemberList: false}); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	dir := c.MemberDirectory()
	if len(dir) != 1 || dir[0].ID != "u-anna" {
		t.Errorf("directory = %+v, want only u-anna", dir)
	}
}
