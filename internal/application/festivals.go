package application

import (
	"log/slog"
	"strings"
	"time"

	"saunaclub/internal/adapters/storage"
	"saunaclub/internal/domain/festival"
	"saunaclub/internal/domain/user"
)

// FestivalInput carries the fields for creating a festival.
type FestivalInput struct {
	Name           string
	StartDate      time.Time
	EndDate        time.Time
	Location       string
	NumberOfSaunas int
	AufgussTimes   []string
}

// CreateFestival creates a festival with a pending participant record for
// every current member and a computed RSVP deadline. When nothing was
// selected before, the new festival becomes the selection.
// PRE: actor is an admin or holds the manage-festivals permission
func (c *Controller) CreateFestival(actorID string, input FestivalInput) (festival.Festival, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorCan(actorID, user.PermManageFestivals) {
		return festival.Festival{}, ErrNotPermitted
	}

	f := festival.Festival{
		ID:             c.newID(),
		Name:           strings.TrimSpace(input.Name),
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		RSVPDeadline:   festival.RSVPDeadlineFor(input.StartDate),
		Location:       input.Location,
		NumberOfSaunas: input.NumberOfSaunas,
		AufgussTimes:   append([]string(nil), input.AufgussTimes...),
	}
	for i := range c.users {
		f.Participants = append(f.Participants, festival.Participant{
			UserID: c.users[i].ID,
			Status: festival.StatusPending,
		})
	}
	if err := f.Validate(); err != nil {
		return festival.Festival{}, err
	}

	festivals := append(append([]festival.Festival(nil), c.festivals...), f)
	c.festivals = festivals
	c.persist(storage.KeyFestivals, festivals)

	if c.selectedFestivalID == "" {
		c.selectedFestivalID = f.ID
		c.persist(storage.KeySelectedFestival, f.ID)
	}

	slog.Info("festival_created", "festival_id", f.ID, "name", f.Name, "participants", len(f.Participants))
	return cloneFestival(f), nil
}

// UpdateFestival replaces a festival by id.
// PRE: actor is an admin or holds the manage-festivals permission
func (c *Controller) UpdateFestival(actorID string, updated festival.Festival) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorCan(actorID, user.PermManageFestivals) {
		return ErrNotPermitted
	}
	fi := c.festivalIndex(updated.ID)
	if fi < 0 {
		return ErrFestivalNotFound
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	festivals := append([]festival.Festival(nil), c.festivals...)
	festivals[fi] = cloneFestival(updated)

	c.festivals = festivals
	c.persist(storage.KeyFestivals, festivals)
	return nil
}

// DeleteFestival removes a festival. When the deleted festival was selected,
// the selection moves to the first remaining festival, or clears.
// PRE: actor is an admin or holds the manage-festivals permission
func (c *Controller) DeleteFestival(actorID, festivalID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorCan(actorID, user.PermManageFestivals) {
		return ErrNotPermitted
	}
	fi := c.festivalIndex(festivalID)
	if fi < 0 {
		return ErrFestivalNotFound
	}

	festivals := append([]festival.Festival(nil), c.festivals[:fi]...)
	festivals = append(festivals, c.festivals[fi+1:]...)
	c.festivals = festivals
	c.persist(storage.KeyFestivals, festivals)

	if c.selectedFestivalID == festivalID {
		c.selectedFestivalID = ""
		if len(festivals) > 0 {
			c.selectedFestivalID = festivals[0].ID
		}
		c.persist(storage.KeySelectedFestival, c.selectedFestivalID)
	}

	slog.Info("festival_deleted", "festival_id", festivalID, "actor_id", actorID)
	return nil
}

// SelectFestival switches the currently selected festival.
func (c *Controller) SelectFestival(festivalID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if festivalID != "" && c.festivalIndex(festivalID) < 0 {
		return ErrFestivalNotFound
	}
	c.selectedFestivalID = festivalID
	c.persist(storage.KeySelectedFestival, festivalID)
	return nil
}

// RSVP records a participant's attendance decision. The deadline is enforced
// here rather than trusted to the caller.
// PRE: now is before the festival's RSVP deadline
// POST: Participant status is attending or not_attending
func (c *Controller) RSVP(festivalID, userID, status string) error {
	if status != festival.StatusAttending && status != festival.StatusNotAttending {
		return festival.ErrInvalidStatus
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fi := c.festivalIndex(festivalID)
	if fi < 0 {
		return ErrFestivalNotFound
	}
	if !c.festivals[fi].RSVPOpen(c.now()) {
		return festival.ErrDeadlinePassed
	}

	return c.mutateParticipant(fi, userID, func(p *festival.Participant) error {
		p.Status = status
		return nil
	})
}

// SetAvailability replaces the time-of-day strings a participant can cover.
func (c *Controller) SetAvailability(festivalID, userID string, times []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fi := c.festivalIndex(festivalID)
	if fi < 0 {
		return ErrFestivalNotFound
	}
	return c.mutateParticipant(fi, userID, func(p *festival.Participant) error {
		p.AufgussAvailability = append([]string(nil), times...)
		return nil
	})
}

// AddProposal records an Aufguss the participant offers to run.
func (c *Controller) AddProposal(festivalID, userID, name string) (festival.Proposal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fi := c.festivalIndex(festivalID)
	if fi < 0 {
		return festival.Proposal{}, ErrFestivalNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return festival.Proposal{}, festival.ErrEmptyName
	}

	proposal := festival.Proposal{ID: c.newID(), Name: name}
	err := c.mutateParticipant(fi, userID, func(p *festival.Participant) error {
		p.Proposals = append(p.Proposals, proposal)
		return nil
	})
	if err != nil {
		return festival.Proposal{}, err
	}
	return proposal, nil
}

// RemoveProposal withdraws one of the participant's proposals.
func (c *Controller) RemoveProposal(festivalID, userID, proposalID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fi := c.festivalIndex(festivalID)
	if fi < 0 {
		return ErrFestivalNotFound
	}
	return c.mutateParticipant(fi, userID, func(p *festival.Participant) error {
		for i := range p.Proposals {
			if p.Proposals[i].ID == proposalID {
				p.Proposals = append(p.Proposals[:i], p.Proposals[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// AddTask creates an unassigned task on a festival.
// PRE: actor is an admin or holds the manage-festivals permission
func (c *Controller) AddTask(actorID, festivalID, description string) (festival.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorCan(actorID, user.PermManageFestivals) {
		return festival.Task{}, ErrNotPermitted
	}
	fi := c.festivalIndex(festivalID)
	if fi < 0 {
		return festival.Task{}, ErrFestivalNotFound
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return festival.Task{}, festival.ErrEmptyName
	}

	task := festival.Task{ID: c.newID(), Description: description}
	festivals := append([]festival.Festival(nil), c.festivals...)
	f := cloneFestival(festivals[fi])
	f.Tasks = append(f.Tasks, task)
	festivals[fi] = f

	c.festivals = festivals
	c.persist(storage.KeyFestivals, festivals)
	return task, nil
}

// RemoveTask deletes a task from a festival.
// PRE: actor is an admin or holds the manage-festivals permission
func (c *Controller) RemoveTask(actorID, festivalID, taskID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorCan(actorID, user.PermManageFestivals) {
		return ErrNotPermitted
	}
	fi := c.festivalIndex(festivalID)
	if fi < 0 {
		return ErrFestivalNotFound
	}

	festivals := append([]festival.Festival(nil), c.festivals...)
	f := cloneFestival(festivals[fi])
	ti := f.TaskIndex(taskID)
	if ti < 0 {
		return festival.ErrUnknownTask
	}
	f.Tasks = append(f.Tasks[:ti], f.Tasks[ti+1:]...)
	festivals[fi] = f

	c.festivals = festivals
	c.persist(storage.KeyFestivals, festivals)
	return nil
}

// ClaimTask lets a participant take responsibility for an open task.
// POST: Task responsible is the user; taken tasks are left unchanged
func (c *Controller) ClaimTask(festivalID, taskID, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fi := c.festivalIndex(festivalID)
	if fi < 0 {
		return ErrFestivalNotFound
	}
	if c.festivals[fi].ParticipantIndex(userID) < 0 {
		return festival.ErrUnknownUser
	}

	festivals := append([]festival.Festival(nil), c.festivals...)
	f := cloneFestival(festivals[fi])
	ti := f.TaskIndex(taskID)
	if ti < 0 {
		return festival.ErrUnknownTask
	}
	if f.Tasks[ti].Responsible != "" && f.Tasks[ti].Responsible != userID {
		return festival.ErrTaskClaimed
	}
	f.Tasks[ti].Responsible = userID
	festivals[fi] = f

	c.festivals = festivals
	c.persist(storage.KeyFestivals, festivals)
	return nil
}

// ReleaseTask gives up a claimed task. The responsible member or an admin
// can release it.
func (c *Controller) ReleaseTask(actorID, festivalID, taskID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fi := c.festivalIndex(festivalID)
	if fi < 0 {
		return ErrFestivalNotFound
	}

	festivals := append([]festival.Festival(nil), c.festivals...)
	f := cloneFestival(festivals[fi])
	ti := f.TaskIndex(taskID)
	if ti < 0 {
		return festival.ErrUnknownTask
	}
	if f.Tasks[ti].Responsible != actorID && !c.actorCan(actorID, user.PermManageFestivals) {
		return ErrNotPermitted
	}
	f.Tasks[ti].Responsible = ""
	festivals[fi] = f

	c.festivals = festivals
	c.persist(storage.KeyFestivals, festivals)
	return nil
}

// AssignTask sets a task's responsible member directly.
// PRE: actor is an admin or holds the manage-festivals permission
func (c *Controller) AssignTask(actorID, festivalID, taskID, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorCan(actorID, user.PermManageFestivals) {
		return ErrNotPermitted
	}
	fi := c.festivalIndex(festivalID)
	if fi < 0 {
		return ErrFestivalNotFound
	}
	if userID != "" && c.festivals[fi].ParticipantIndex(userID) < 0 {
		return festival.ErrUnknownUser
	}

	festivals := append([]festival.Festival(nil), c.festivals...)
	f := cloneFestival(festivals[fi])
	ti := f.TaskIndex(taskID)
	if ti < 0 {
		return festival.ErrUnknownTask
	}
	f.Tasks[ti].Responsible = userID
	festivals[fi] = f

	c.festivals = festivals
	c.persist(storage.KeyFestivals, festivals)
	return nil
}

// LogHours records a participant's festival work hours once and adds them to
// the member's global total. The hoursLogged flag guards repeats.
// PRE: hours have not been logged for this festival yet
// POST: Participant hours set, hoursLogged true, user WorkHours increased
func (c *Controller) LogHours(festivalID, userID string, hours float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fi := c.festivalIndex(festivalID)
	if fi < 0 {
		return ErrFestivalNotFound
	}
	pi := c.festivals[fi].ParticipantIndex(userID)
	if pi < 0 {
		return festival.ErrUnknownUser
	}
	if c.festivals[fi].Participants[pi].HoursLogged {
		return festival.ErrHoursLogged
	}
	ui := c.userIndex(userID)
	if ui < 0 {
		return ErrUserNotFound
	}

	festivals := append([]festival.Festival(nil), c.festivals...)
	f := cloneFestival(festivals[fi])
	f.Participants[pi].WorkHours = hours
	f.Participants[pi].HoursLogged = true
	festivals[fi] = f

	users := append([]user.User(nil), c.users...)
	u := cloneUser(users[ui])
	u.WorkHours += hours
	users[ui] = u

	c.festivals = festivals
	c.users = users
	c.persist(storage.KeyFestivals, festivals)
	c.persist(storage.KeyUsers, users)

	slog.Info("hours_logged", "festival_id", festivalID, "user_id", userID, "hours", hours)
	return nil
}

// festivalIndex returns the index of the festival with the given id, or -1.
// Callers must hold c.mu.
func (c *Controller) festivalIndex(id string) int {
	for i := range c.festivals {
		if c.festivals[i].ID == id {
			return i
		}
	}
	return -1
}

// mutateParticipant applies fn to one participant record copy-on-write and
// persists the festivals collection. Callers must hold c.mu.
func (c *Controller) mutateParticipant(fi int, userID string, fn func(*festival.Participant) error) error {
	pi := c.festivals[fi].ParticipantIndex(userID)
	if pi < 0 {
		return festival.ErrUnknownUser
	}

	festivals := append([]festival.Festival(nil), c.festivals...)
	f := cloneFestival(festivals[fi])
	if err := fn(&f.Participants[pi]); err != nil {
		return err
	}
	festivals[fi] = f

	c.festivals = festivals
	c.persist(storage.KeyFestivals, festivals)
	return nil
}
