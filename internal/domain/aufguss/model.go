package aufguss

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors
var (
	ErrAlreadyClaimed = errors.New("slot is already claimed")
	ErrNotClaimed     = errors.New("slot is not claimed")
)

// DateFormat is the wire format for slot dates.
const DateFormat = "2006-01-02"

// Slot is one bookable Aufguss session at a specific location, sauna, date
// and time. A slot is claimed iff MasterID is non-empty.
type Slot struct {
	ID         string
	Location   string
	Sauna      string
	Date       string // YYYY-MM-DD
	Time       string // HH:MM
	MasterID   string // owning Aufgussmeister, empty when unclaimed
	MasterName string
	Type       string // Aufguss type, set together with the owner
}

// SlotID builds the deterministic composite id for a slot so regeneration is
// idempotent and collision-free.
func SlotID(location, sauna, date, tm string) string {
	return fmt.Sprintf("%s|%s|%s|%s", location, sauna, date, tm)
}

// Claimed returns true if an Aufgussmeister owns the slot.
// INVARIANT: Slot fields are not mutated
func (s *Slot) Claimed() bool {
	return s.MasterID != ""
}

// Claim assigns the slot to a member. Owner id, display name and Aufguss
// type are set together.
// PRE: Slot is unclaimed
// POST: MasterID, MasterName and Type are set
func (s *Slot) Claim(userID, userName, aufgussType string) error {
	if s.Claimed() {
		return ErrAlreadyClaimed
	}
	s.MasterID = userID
	s.MasterName = userName
	s.Type = aufgussType
	return nil
}

// Release clears the owner fields.
// PRE: Slot is claimed
// POST: MasterID, MasterName and Type are empty
func (s *Slot) Release() error {
	if !s.Claimed() {
		return ErrNotClaimed
	}
	s.MasterID = ""
	s.MasterName = ""
	s.Type = ""
	return nil
}

// StartAt combines the slot's date and time into an instant in loc.
func (s *Slot) StartAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateFormat+" 15:04", s.Date+" "+s.Time, loc)
}
