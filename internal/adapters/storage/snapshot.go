package storage

import (
	"context"

	"saunaclub/internal/domain/aufguss"
	"saunaclub/internal/domain/award"
	"saunaclub/internal/domain/festival"
	"saunaclub/internal/domain/post"
	"saunaclub/internal/domain/user"
)

// Persisted collection keys. The names are part of the stored format.
const (
	KeyUsers            = "users"
	KeyPosts            = "posts"
	KeyFestivals        = "festivals"
	KeyAufguesse        = "aufguesse"
	KeyAwards           = "awards"
	KeyAufgussTypes     = "aufgussTypes"
	KeyQualifications   = "availableQuals"
	KeyRegistrationCode = "registrationCode"
	KeySelectedFestival = "selectedFestivalId"
	KeyBackgrounds      = "persistedBackgrounds"
)

// DefaultRegistrationCode is the seeded invite code; admins can change it.
const DefaultRegistrationCode = "AUFGUSS"

// Snapshot is the full persisted application state, one field per key.
type Snapshot struct {
	Users              []user.User
	Posts              []post.Post
	Festivals          []festival.Festival
	Slots              []aufguss.Slot
	Awards             []award.Award
	AufgussTypes       []string
	Qualifications     []string
	RegistrationCode   string
	SelectedFestivalID string
	Backgrounds        map[string]string
}

// DefaultAwards returns the seeded award catalog.
func DefaultAwards() []award.Award {
	return []award.Award{
		{ID: "award-first-aufguss", Name: "Erster Aufguss", Icon: "🌱", Color: "green"},
		{ID: "award-50-aufguesse", Name: "50 Aufgüsse", Icon: "💨", Color: "blue"},
		{ID: "award-100-aufguesse", Name: "100 Aufgüsse", Icon: "🔥", Color: "gold"},
		{ID: "award-festival-helper", Name: "Festival-Helfer", Icon: "🛠️", Color: "orange"},
		{ID: "award-showmaster", Name: "Showmeister", Icon: "🎭", Color: "purple"},
	}
}

// DefaultAufgussTypes returns the seeded Aufguss type catalog.
func DefaultAufgussTypes() []string {
	return []string{"Klassisch", "Show-Aufguss", "Kräuter", "Eis", "Wenik"}
}

// DefaultQualifications returns the seeded qualification catalog.
func DefaultQualifications() []string {
	return []string{"Aufguss Basis", "Aufguss Fortgeschritten", "Wenik", "Erste Hilfe"}
}

// LoadAll reads every collection from the store, substituting defaults per
// key independently so one corrupted blob cannot spoil the rest, and applies
// the legacy user-status fixup.
func LoadAll(ctx context.Context, kv KV) Snapshot {
	snap := Snapshot{
		Users:              Load(ctx, kv, KeyUsers, []user.User(nil)),
		Posts:              Load(ctx, kv, KeyPosts, []post.Post(nil)),
		Festivals:          Load(ctx, kv, KeyFestivals, []festival.Festival(nil)),
		Slots:              Load(ctx, kv, KeyAufguesse, []aufguss.Slot(nil)),
		Awards:             Load(ctx, kv, KeyAwards, DefaultAwards()),
		AufgussTypes:       Load(ctx, kv, KeyAufgussTypes, DefaultAufgussTypes()),
		Qualifications:     Load(ctx, kv, KeyQualifications, DefaultQualifications()),
		RegistrationCode:   Load(ctx, kv, KeyRegistrationCode, DefaultRegistrationCode),
		SelectedFestivalID: Load(ctx, kv, KeySelectedFestival, ""),
		Backgrounds:        Load(ctx, kv, KeyBackgrounds, map[string]string{}),
	}
	snap.Users = migrateUsers(snap.Users)
	return snap
}

// migrateUsers normalizes the retired "pending approval" status to active.
// The value stopped being written long ago but can still appear in old blobs.
func migrateUsers(users []user.User) []user.User {
	for i := range users {
		if users[i].Status == user.StatusPendingApproval || users[i].Status == "" {
			users[i].Status = user.StatusActive
		}
	}
	return users
}
