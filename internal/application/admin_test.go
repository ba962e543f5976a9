package application_test

import (
	"errors"
	"slices"
	"testing"

	"saunaclub/internal/application"
	"saunaclub/internal/domain/award"
	"saunaclub/internal/domain/user"
)

func TestSetPermissions(t *testing.T) {
	c, _ := newTestController(t)

	perms := []string{user.PermManageFestivals, user.PermDeletePosts}
	if err := c.SetPermissions("u-anna", "u-ben", perms); err != nil {
		t.Fatalf("SetPermissions() error = %v", err)
	}
	u := userByID(t, c, "u-ben")
	if !u.HasPermission(user.PermManageFestivals) || u.HasPermission(user.PermManageAwards) {
		t.Errorf("permissions = %v", u.Permissions)
	}

	// Granted permissions actually open the guarded operations.
	if _, err := c.AddTask("u-ben", "f-sommer", "Aufbau"); err != nil {
		t.Errorf("AddTask with granted permission error = %v", err)
	}

	if err := c.SetPermissions("u-ben", "u-anna", nil); !errors.Is(err, application.ErrNotPermitted) {
		t.Errorf("SetPermissions(non-admin) error = %v, want ErrNotPermitted", err)
	}
	if err := c.SetPermissions("u-anna", "u-ben", []string{"fly"}); !errors.Is(err, user.ErrInvalidPermission) {
		t.Errorf("SetPermissions(unknown perm) error = %v, want ErrInvalidPermission", err)
	}
}

func TestSetAdmin(t *testing.T) {
	c, _ := newTestController(t)

	if err := c.SetAdmin("u-anna", "u-ben", true); err != nil {
		t.Fatalf("SetAdmin() error = %v", err)
	}
	if u := userByID(t, c, "u-ben"); !u.IsAdmin {
		t.Error("user not admin after SetAdmin")
	}
	// Admins hold every permission implicitly.
	if err := c.SetRegistrationCode("u-ben", "NEU"); err != nil {
		t.Errorf("SetRegistrationCode(new admin) error = %v", err)
	}
}

func TestToggleAward(t *testing.T) {
	c, _ := newTestController(t)

	const id = "award-first-aufguss"
	if err := c.ToggleAward("u-anna", "u-ben", id); err != nil {
		t.Fatalf("ToggleAward() error = %v", err)
	}
	if u := userByID(t, c, "u-ben"); !u.HasAward(id) {
		t.Error("award missing after grant")
	}

	// Toggling again revokes.
	if err := c.ToggleAward("u-anna", "u-ben", id); err != nil {
		t.Fatalf("second ToggleAward() error = %v", err)
	}
	if u := userByID(t, c, "u-ben"); u.HasAward(id) {
		t.Error("award still present after revoke")
	}

	if err := c.ToggleAward("u-anna", "u-ben", "award-nope"); !errors.Is(err, application.ErrAwardNotFound) {
		t.Errorf("ToggleAward(unknown) error = %v, want ErrAwardNotFound", err)
	}
	if err := c.ToggleAward("u-ben", "u-anna", id); !errors.Is(err, application.ErrNotPermitted) {
		t.Errorf("ToggleAward(member) error = %v, want ErrNotPermitted", err)
	}
}

func TestAddAward(t *testing.T) {
	c, _ := newTestController(t)

	a, err := c.AddAward("u-anna", award.Award{Name: "Eismeister", Icon: "❄️", Color: "#88ccee"})
	if err != nil {
		t.Fatalf("AddAward() error = %v", err)
	}
	if a.ID == "" {
		t.Error("no id assigned")
	}
	if err := c.ToggleAward("u-anna", "u-ben", a.ID); err != nil {
		t.Errorf("ToggleAward(new award) error = %v", err)
	}
}

func TestSetQualifications(t *testing.T) {
	c, _ := newTestController(t)

	if err := c.SetQualifications("u-anna", "u-ben", []string{"Aufgussmeister"}); err != nil {
		t.Fatalf("SetQualifications() error = %v", err)
	}
	if u := userByID(t, c, "u-ben"); !slices.Contains(u.Qualifications, "Aufgussmeister") {
		t.Errorf("qualifications = %v", u.Qualifications)
	}
}

func TestCatalogs(t *testing.T) {
	c, _ := newTestController(t)

	if err := c.AddAufgussType("u-anna", "Zitrus"); err != nil {
		t.Fatalf("AddAufgussType() error = %v", err)
	}
	// Duplicate entries are ignored, case-insensitively.
	if err := c.AddAufgussType("u-anna", "zitrus"); err != nil {
		t.Fatalf("duplicate AddAufgussType() error = %v", err)
	}
	types := c.AufgussTypes()
	if got := countOf(types, "Zitrus"); got != 1 {
		t.Errorf("%d Zitrus entries, want 1; list = %v", got, types)
	}

	if err := c.RemoveAufgussType("u-anna", "ZITRUS"); err != nil {
		t.Fatalf("RemoveAufgussType() error = %v", err)
	}
	if slices.Contains(c.AufgussTypes(), "Zitrus") {
		t.Error("entry still present after removal")
	}

	if err := c.AddQualificationOption("u-anna", " "); !errors.Is(err, application.ErrEmptyCatalogEntry) {
		t.Errorf("AddQualificationOption(blank) error = %v, want ErrEmptyCatalogEntry", err)
	}
	if err := c.AddQualificationOption("u-ben", "Sanitäter"); !errors.Is(err, application.ErrNotPermitted) {
		t.Errorf("AddQualificationOption(member) error = %v, want ErrNotPermitted", err)
	}
}

func countOf(list []string, want string) int {
	n := 0
	for _, s := range list {
		if s == want {
			n++
		}
	}
	return n
}

func TestSetRegistrationCode(t *testing.T) {
	c, _ := newTestController(t)

	if err := c.SetRegistrationCode("u-anna", "WINTER25"); err != nil {
		t.Fatalf("SetRegistrationCode() error = %v", err)
	}
	if _, err := c.Register(application.RegisterInput{
		Name: "X", Username: "x", Password: "geheim123", Code: "AUFGUSS",
	}); !errors.Is(err, application.ErrInvalidCode) {
		t.Errorf("Register(old code) error = %v, want ErrInvalidCode", err)
	}
	if _, err := c.Register(application.RegisterInput{
		Name: "X", Username: "x", Password: "geheim123", Code: "WINTER25",
	}); err != nil {
		t.Errorf("Register(new code) error = %v", err)
	}
}

func TestSetBackground(t *testing.T) {
	c, _ := newTestController(t)

	if err := c.SetBackground("u-anna", "feed", "data:image/png;base64,AAAA"); err != nil {
		t.Fatalf("SetBackground() error = %v", err)
	}
	if _, ok := c.Background("feed"); !ok {
		t.Error("background not stored")
	}
	if err := c.SetBackground("u-anna", "feed", ""); err != nil {
		t.Fatalf("SetBackground(clear) error = %v", err)
	}
	if _, ok := c.Background("feed"); ok {
		t.Error("background still present after clear")
	}
}

func TestReport(t *testing.T) {
	c, _ := newTestController(t)

	if err := c.ClaimSlot("u-ben", "s-next-week", "Klassisch"); err != nil {
		t.Fatalf("ClaimSlot() error = %v", err)
	}
	if err := c.LogHours("f-sommer", "u-ben", 4); err != nil {
		t.Fatalf("LogHours() error = %v", err)
	}

	report := c.Report()
	if len(report) != 2 {
		t.Fatalf("%d report rows, want 2", len(report))
	}
	// Sorted by Aufguss count descending, so Ben leads.
	if report[0].UserID != "u-ben" || report[0].AufgussCount != 1 {
		t.Errorf("report[0] = %+v", report[0])
	}
	if report[0].WorkHours != 4 {
		t.Errorf("WorkHours = %v, want 4", report[0].WorkHours)
	}
	// The claimed slot is in the future, so no past Aufguss yet.
	if report[0].HasPastAufguss {
		t.Error("HasPastAufguss true with only a future slot")
	}
}
