// Package application owns the in-memory application state. A single
// Controller holds every entity collection, exposes one method per mutation
// and mirrors the affected collection to the persistence layer after each
// change. The in-memory state stays authoritative for the session even when
// a persistence write fails.
package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"saunaclub/internal/adapters/storage"
	"saunaclub/internal/domain/aufguss"
	"saunaclub/internal/domain/award"
	"saunaclub/internal/domain/festival"
	"saunaclub/internal/domain/post"
	"saunaclub/internal/domain/user"
)

// Shared application errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrFestivalNotFound = errors.New("festival not found")
	ErrAwardNotFound    = errors.New("award not found")
	ErrNotPermitted     = errors.New("not permitted")
)

// Controller owns all entity collections. Mutations are serialized behind a
// single mutex; readers receive copies. Every mutation persists the changed
// collection asynchronously — failures are logged, never surfaced.
type Controller struct {
	mu sync.Mutex
	wg sync.WaitGroup

	kv    storage.KV
	now   func() time.Time
	newID func() string

	users              []user.User
	posts              []post.Post
	festivals          []festival.Festival
	slots              []aufguss.Slot
	awards             []award.Award
	aufgussTypes       []string
	qualifications     []string
	registrationCode   string
	selectedFestivalID string
	backgrounds        map[string]string
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock injects a time source. Used by tests for deterministic windows.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator injects an id source. Used by tests for stable ids.
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// New builds a Controller from a loaded snapshot. When the snapshot carries
// no slot set, the rolling 30-day schedule is generated and persisted.
func New(kv storage.KV, snap storage.Snapshot, opts ...Option) *Controller {
	c := &Controller{
		kv:                 kv,
		now:                time.Now,
		newID:              func() string { return uuid.New().String() },
		users:              snap.Users,
		posts:              snap.Posts,
		festivals:          snap.Festivals,
		slots:              snap.Slots,
		awards:             snap.Awards,
		aufgussTypes:       snap.AufgussTypes,
		qualifications:     snap.Qualifications,
		registrationCode:   snap.RegistrationCode,
		selectedFestivalID: snap.SelectedFestivalID,
		backgrounds:        snap.Backgrounds,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.backgrounds == nil {
		c.backgrounds = map[string]string{}
	}
	if c.registrationCode == "" {
		c.registrationCode = storage.DefaultRegistrationCode
	}
	if len(c.slots) == 0 {
		now := c.now()
		c.slots = aufguss.Generate(now, aufguss.DefaultVenues(now))
		c.persist(storage.KeyAufguesse, c.slots)
		slog.Info("schedule_generated", "slots", len(c.slots))
	}
	return c
}

// persist mirrors one collection to the store in the background. Callers
// pass the freshly built value; the write never blocks the mutation.
func (c *Controller) persist(key string, value any) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := storage.Save(context.Background(), c.kv, key, value); err != nil {
			slog.Error("persist_failed", "key", key, "error", err)
		}
	}()
}

// Flush waits for all pending persistence writes. Called on shutdown and by
// tests before inspecting the store.
func (c *Controller) Flush() {
	c.wg.Wait()
}

// Users returns a copy of all users.
func (c *Controller) Users() []user.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]user.User, len(c.users))
	for i := range c.users {
		out[i] = cloneUser(c.users[i])
	}
	return out
}

// UserByID returns a copy of one user.
func (c *Controller) UserByID(id string) (user.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.users {
		if c.users[i].ID == id {
			return cloneUser(c.users[i]), true
		}
	}
	return user.User{}, false
}

// Posts returns a copy of the feed, newest first.
func (c *Controller) Posts() []post.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]post.Post, len(c.posts))
	for i := range c.posts {
		out[i] = clonePost(c.posts[i])
	}
	return out
}

// Festivals returns a copy of all festivals.
func (c *Controller) Festivals() []festival.Festival {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]festival.Festival, len(c.festivals))
	for i := range c.festivals {
		out[i] = cloneFestival(c.festivals[i])
	}
	return out
}

// Slots returns a copy of the slot schedule.
func (c *Controller) Slots() []aufguss.Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]aufguss.Slot, len(c.slots))
	copy(out, c.slots)
	return out
}

// Awards returns a copy of the award catalog.
func (c *Controller) Awards() []award.Award {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]award.Award, len(c.awards))
	copy(out, c.awards)
	return out
}

// AufgussTypes returns a copy of the Aufguss type catalog.
func (c *Controller) AufgussTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.aufgussTypes...)
}

// Qualifications returns a copy of the qualification catalog.
func (c *Controller) Qualifications() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.qualifications...)
}

// RegistrationCode returns the current invite code.
func (c *Controller) RegistrationCode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registrationCode
}

// SelectedFestivalID returns the currently selected festival id, or "".
func (c *Controller) SelectedFestivalID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedFestivalID
}

// Background returns the stored background image data for a view.
func (c *Controller) Background(view string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.backgrounds[view]
	return data, ok
}

// userIndex returns the index of the user with the given id, or -1.
// Callers must hold c.mu.
func (c *Controller) userIndex(id string) int {
	for i := range c.users {
		if c.users[i].ID == id {
			return i
		}
	}
	return -1
}

// actorCan reports whether the acting user is an admin or holds perm.
// Callers must hold c.mu.
func (c *Controller) actorCan(actorID, perm string) bool {
	i := c.userIndex(actorID)
	if i < 0 {
		return false
	}
	return c.users[i].HasPermission(perm)
}

// actorIsAdmin reports whether the acting user is an admin.
// Callers must hold c.mu.
func (c *Controller) actorIsAdmin(actorID string) bool {
	i := c.userIndex(actorID)
	return i >= 0 && c.users[i].IsAdmin
}

func cloneUser(u user.User) user.User {
	u.Qualifications = append([]string(nil), u.Qualifications...)
	u.Awards = append([]string(nil), u.Awards...)
	u.Permissions = append([]string(nil), u.Permissions...)
	return u
}

func clonePost(p post.Post) post.Post {
	p.Likes = append([]string(nil), p.Likes...)
	p.Comments = append([]post.Comment(nil), p.Comments...)
	if p.Poll != nil {
		poll := post.Poll{Question: p.Poll.Question}
		poll.Options = make([]post.PollOption, len(p.Poll.Options))
		for i, opt := range p.Poll.Options {
			poll.Options[i] = post.PollOption{
				Text:  opt.Text,
				Votes: append([]string(nil), opt.Votes...),
			}
		}
		p.Poll = &poll
	}
	return p
}

func cloneFestival(f festival.Festival) festival.Festival {
	f.AufgussTimes = append([]string(nil), f.AufgussTimes...)
	f.Tasks = append([]festival.Task(nil), f.Tasks...)
	participants := make([]festival.Participant, len(f.Participants))
	for i, p := range f.Participants {
		p.AufgussAvailability = append([]string(nil), p.AufgussAvailability...)
		p.Proposals = append([]festival.Proposal(nil), p.Proposals...)
		participants[i] = p
	}
	f.Participants = participants
	return f
}
