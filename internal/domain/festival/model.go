package festival

import (
	"errors"
	"strings"
	"time"
)

// Participant status constants
const (
	StatusAttending    = "attending"
	StatusNotAttending = "not_attending"
	StatusPending      = "pending"
)

// Domain errors
var (
	ErrEmptyName      = errors.New("festival name cannot be empty")
	ErrEmptyStartDate = errors.New("start date cannot be zero")
	ErrEmptyEndDate   = errors.New("end date cannot be zero")
	ErrInvalidDates   = errors.New("start date must be before or equal to end date")
	ErrInvalidStatus  = errors.New("status must be 'attending' or 'not_attending'")
	ErrUnknownUser    = errors.New("user is not a participant of this festival")
	ErrDeadlinePassed = errors.New("the RSVP deadline has passed")
	ErrHoursLogged    = errors.New("hours have already been logged for this festival")
	ErrUnknownTask    = errors.New("task not found")
	ErrTaskClaimed    = errors.New("task is already taken")
)

// Proposal is an Aufguss a participant offers to run during the festival.
type Proposal struct {
	ID   string
	Name string
}

// Task is a chore that one participant takes responsibility for.
type Task struct {
	ID          string
	Description string
	Responsible string // user id, empty when unclaimed
}

// Participant tracks one member's involvement in a festival. Exactly one
// record exists per (festival, user) pair.
type Participant struct {
	UserID              string
	Status              string
	AufgussAvailability []string // time-of-day strings the member can cover
	WorkHours           float64
	HoursLogged         bool
	Proposals           []Proposal
}

// Festival is a multi-day club event with its own RSVP process.
type Festival struct {
	ID             string
	Name           string
	StartDate      time.Time
	EndDate        time.Time
	RSVPDeadline   time.Time
	Location       string
	NumberOfSaunas int
	AufgussTimes   []string // time-of-day strings, e.g. "12:00"
	Tasks          []Task
	Participants   []Participant
}

// Validate checks if the Festival has valid data.
// PRE: Festival struct is populated
// POST: Returns nil if valid, error otherwise
func (f *Festival) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyName
	}
	if f.StartDate.IsZero() {
		return ErrEmptyStartDate
	}
	if f.EndDate.IsZero() {
		return ErrEmptyEndDate
	}
	if f.StartDate.After(f.EndDate) {
		return ErrInvalidDates
	}
	if f.NumberOfSaunas < 0 {
		return errors.New("number of saunas cannot be negative")
	}
	return nil
}

// ParticipantIndex returns the index of the participant record for userID,
// or -1 when the user is not registered for this festival.
// INVARIANT: Festival fields are not mutated
func (f *Festival) ParticipantIndex(userID string) int {
	for i := range f.Participants {
		if f.Participants[i].UserID == userID {
			return i
		}
	}
	return -1
}

// RSVPOpen reports whether RSVPs are still accepted at the given instant.
// INVARIANT: Festival fields are not mutated
func (f *Festival) RSVPOpen(now time.Time) bool {
	return now.Before(f.RSVPDeadline)
}

// TaskIndex returns the index of the task with the given id, or -1.
func (f *Festival) TaskIndex(taskID string) int {
	for i := range f.Tasks {
		if f.Tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

// RSVPDeadlineFor computes the RSVP cutoff for a festival starting at start:
// the most recent Thursday strictly before the start date, at 22:00 local
// time. A start on a Thursday goes back a full week.
func RSVPDeadlineFor(start time.Time) time.Time {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	day = day.AddDate(0, 0, -1)
	for day.Weekday() != time.Thursday {
		day = day.AddDate(0, 0, -1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 22, 0, 0, 0, day.Location())
}
