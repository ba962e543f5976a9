package application

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"saunaclub/internal/adapters/storage"
	"saunaclub/internal/domain/aufguss"
	"saunaclub/internal/domain/post"
	"saunaclub/internal/domain/user"
)

// ShortNoticeWindow is the cutoff below which a cancellation counts against
// the member.
const ShortNoticeWindow = 24 * time.Hour

// Slot errors
var (
	ErrShareTooSoon   = errors.New("aufguss can only be shared once per day")
	ErrNothingToShare = errors.New("no upcoming claimed aufguss to share")
)

// ClaimSlot assigns a free slot to the acting member and bumps their Aufguss
// count. Claiming a slot somebody already owns is a silent no-op.
// POST: Slot owner and type are set together; AufgussCount incremented
func (c *Controller) ClaimSlot(actorID, slotID, aufgussType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	si := c.slotIndex(slotID)
	if si < 0 {
		return ErrSlotNotFound
	}
	if c.slots[si].Claimed() {
		return nil
	}
	ui := c.userIndex(actorID)
	if ui < 0 {
		return ErrUserNotFound
	}

	slots := append([]aufguss.Slot(nil), c.slots...)
	if err := slots[si].Claim(actorID, c.users[ui].Name, aufgussType); err != nil {
		return err
	}

	users := append([]user.User(nil), c.users...)
	u := cloneUser(users[ui])
	u.AufgussCount++
	users[ui] = u

	c.slots = slots
	c.users = users
	c.persist(storage.KeyAufguesse, slots)
	c.persist(storage.KeyUsers, users)

	slog.Info("slot_claimed", "slot_id", slotID, "user_id", actorID, "type", aufgussType)
	return nil
}

// CancelSlot releases a claimed slot. The former owner's Aufguss count is
// decremented (floored at zero) and, when the slot starts in less than 24
// hours, their short-notice counter is incremented. Cancelling an unclaimed
// slot is a silent no-op. Returns whether the cancellation was short-notice.
// PRE: actor owns the slot or is an admin
func (c *Controller) CancelSlot(actorID, slotID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	si := c.slotIndex(slotID)
	if si < 0 {
		return false, ErrSlotNotFound
	}
	if !c.slots[si].Claimed() {
		return false, nil
	}
	ownerID := c.slots[si].MasterID
	if actorID != ownerID && !c.actorIsAdmin(actorID) {
		return false, ErrNotPermitted
	}

	now := c.now()
	shortNotice := false
	if start, err := c.slots[si].StartAt(now.Location()); err == nil {
		shortNotice = start.Sub(now) < ShortNoticeWindow
	}

	slots := append([]aufguss.Slot(nil), c.slots...)
	if err := slots[si].Release(); err != nil {
		return false, err
	}

	users := append([]user.User(nil), c.users...)
	if ui := c.userIndex(ownerID); ui >= 0 {
		u := cloneUser(users[ui])
		if u.AufgussCount > 0 {
			u.AufgussCount--
		}
		if shortNotice {
			u.ShortNoticeCancellations++
		}
		users[ui] = u
	}

	c.slots = slots
	c.users = users
	c.persist(storage.KeyAufguesse, slots)
	c.persist(storage.KeyUsers, users)

	slog.Info("slot_cancelled", "slot_id", slotID, "owner_id", ownerID, "short_notice", shortNotice)
	return shortNotice, nil
}

// ShareAufguss posts the member's next claimed slot to the feed. A member
// can share at most once per 24 hours.
// POST: A text post is prepended to the feed, LastAufgussShare is set
func (c *Controller) ShareAufguss(actorID string) (post.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ui := c.userIndex(actorID)
	if ui < 0 {
		return post.Post{}, ErrUserNotFound
	}
	now := c.now()
	if !c.users[ui].CanShareAufguss(now) {
		return post.Post{}, ErrShareTooSoon
	}

	next, ok := c.nextClaimedSlot(actorID, now)
	if !ok {
		return post.Post{}, ErrNothingToShare
	}

	p := post.Post{
		ID:     c.newID(),
		UserID: actorID,
		Type:   post.TypeText,
		Content: fmt.Sprintf("%s macht am %s um %s einen %s-Aufguss in der %s (%s).",
			c.users[ui].Name, next.Date, next.Time, next.Type, next.Sauna, next.Location),
		CreatedAt: now,
	}

	posts := append([]post.Post{p}, c.posts...)
	users := append([]user.User(nil), c.users...)
	u := cloneUser(users[ui])
	u.LastAufgussShare = now
	users[ui] = u

	c.posts = posts
	c.users = users
	c.persist(storage.KeyPosts, posts)
	c.persist(storage.KeyUsers, users)
	return clonePost(p), nil
}

// DaysSinceLastAufguss returns the whole days since the member's most recent
// past claimed slot. The second return value is false when there is none.
func (c *Controller) DaysSinceLastAufguss(userID string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return aufguss.DaysSinceLast(c.slots, userID, c.now())
}

// slotIndex returns the index of the slot with the given id, or -1.
// Callers must hold c.mu.
func (c *Controller) slotIndex(id string) int {
	for i := range c.slots {
		if c.slots[i].ID == id {
			return i
		}
	}
	return -1
}

// nextClaimedSlot finds the soonest upcoming slot owned by the user.
// Callers must hold c.mu.
func (c *Controller) nextClaimedSlot(userID string, now time.Time) (aufguss.Slot, bool) {
	var best aufguss.Slot
	var bestAt time.Time
	found := false
	for i := range c.slots {
		if c.slots[i].MasterID != userID {
			continue
		}
		at, err := c.slots[i].StartAt(now.Location())
		if err != nil || at.Before(now) {
			continue
		}
		if !found || at.Before(bestAt) {
			best = c.slots[i]
			bestAt = at
			found = true
		}
	}
	return best, found
}
