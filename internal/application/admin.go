package application

import (
	"errors"
	"log/slog"
	"strings"

	"saunaclub/internal/adapters/storage"
	"saunaclub/internal/domain/award"
	"saunaclub/internal/domain/user"
)

// ErrEmptyCatalogEntry rejects blank catalog items and codes.
var ErrEmptyCatalogEntry = errors.New("entry cannot be empty")

// SetPermissions replaces a member's permission set.
// PRE: actor is an admin
func (c *Controller) SetPermissions(actorID, userID string, perms []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorIsAdmin(actorID) {
		return ErrNotPermitted
	}
	return c.mutateUser(userID, func(u *user.User) error {
		u.Permissions = append([]string(nil), perms...)
		return u.Validate()
	})
}

// SetAdmin grants or revokes the admin flag.
// PRE: actor is an admin
func (c *Controller) SetAdmin(actorID, userID string, isAdmin bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorIsAdmin(actorID) {
		return ErrNotPermitted
	}
	return c.mutateUser(userID, func(u *user.User) error {
		u.IsAdmin = isAdmin
		return nil
	})
}

// ToggleAward grants the award to the member if absent, else revokes it.
// PRE: actor is an admin or holds the manage-awards permission
func (c *Controller) ToggleAward(actorID, userID, awardID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorCan(actorID, user.PermManageAwards) {
		return ErrNotPermitted
	}
	if c.awardIndex(awardID) < 0 {
		return ErrAwardNotFound
	}
	return c.mutateUser(userID, func(u *user.User) error {
		for i, a := range u.Awards {
			if a == awardID {
				u.Awards = append(u.Awards[:i], u.Awards[i+1:]...)
				return nil
			}
		}
		u.Awards = append(u.Awards, awardID)
		return nil
	})
}

// SetQualifications replaces a member's qualification set.
// PRE: actor is an admin or holds the manage-qualifications permission
func (c *Controller) SetQualifications(actorID, userID string, quals []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorCan(actorID, user.PermManageQuals) {
		return ErrNotPermitted
	}
	return c.mutateUser(userID, func(u *user.User) error {
		u.Qualifications = append([]string(nil), quals...)
		return nil
	})
}

// AddAward extends the award catalog. Catalog entries are never deleted.
// PRE: actor is an admin or holds the manage-awards permission
func (c *Controller) AddAward(actorID string, a award.Award) (award.Award, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorCan(actorID, user.PermManageAwards) {
		return award.Award{}, ErrNotPermitted
	}
	if a.ID == "" {
		a.ID = c.newID()
	}
	if err := a.Validate(); err != nil {
		return award.Award{}, err
	}

	awards := append(append([]award.Award(nil), c.awards...), a)
	c.awards = awards
	c.persist(storage.KeyAwards, awards)

	slog.Info("award_added", "award_id", a.ID, "name", a.Name, "actor_id", actorID)
	return a, nil
}

// AddAufgussType extends the Aufguss type catalog.
// PRE: actor is an admin
func (c *Controller) AddAufgussType(actorID, name string) error {
	return c.addCatalogEntry(actorID, name, &c.aufgussTypes, storage.KeyAufgussTypes)
}

// RemoveAufgussType drops an entry from the Aufguss type catalog.
// PRE: actor is an admin
func (c *Controller) RemoveAufgussType(actorID, name string) error {
	return c.removeCatalogEntry(actorID, name, &c.aufgussTypes, storage.KeyAufgussTypes)
}

// AddQualificationOption extends the qualification catalog.
// PRE: actor is an admin
func (c *Controller) AddQualificationOption(actorID, name string) error {
	return c.addCatalogEntry(actorID, name, &c.qualifications, storage.KeyQualifications)
}

// RemoveQualificationOption drops an entry from the qualification catalog.
// PRE: actor is an admin
func (c *Controller) RemoveQualificationOption(actorID, name string) error {
	return c.removeCatalogEntry(actorID, name, &c.qualifications, storage.KeyQualifications)
}

// SetRegistrationCode changes the invite code new members must present.
// PRE: actor is an admin
func (c *Controller) SetRegistrationCode(actorID, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorIsAdmin(actorID) {
		return ErrNotPermitted
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyCatalogEntry
	}
	c.registrationCode = code
	c.persist(storage.KeyRegistrationCode, code)
	return nil
}

// SetBackground stores the background image data for a view.
// PRE: actor is an admin
func (c *Controller) SetBackground(actorID, view, data string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorIsAdmin(actorID) {
		return ErrNotPermitted
	}
	backgrounds := make(map[string]string, len(c.backgrounds)+1)
	for k, v := range c.backgrounds {
		backgrounds[k] = v
	}
	if data == "" {
		delete(backgrounds, view)
	} else {
		backgrounds[view] = data
	}
	c.backgrounds = backgrounds
	c.persist(storage.KeyBackgrounds, backgrounds)
	return nil
}

// mutateUser applies fn to one user record copy-on-write and persists the
// users collection. Callers must hold c.mu.
func (c *Controller) mutateUser(userID string, fn func(*user.User) error) error {
	ui := c.userIndex(userID)
	if ui < 0 {
		return ErrUserNotFound
	}

	users := append([]user.User(nil), c.users...)
	u := cloneUser(users[ui])
	if err := fn(&u); err != nil {
		return err
	}
	users[ui] = u

	c.users = users
	c.persist(storage.KeyUsers, users)
	return nil
}

// awardIndex returns the index of the catalog award with the given id, or -1.
// Callers must hold c.mu.
func (c *Controller) awardIndex(id string) int {
	for i := range c.awards {
		if c.awards[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) addCatalogEntry(actorID, name string, list *[]string, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorIsAdmin(actorID) {
		return ErrNotPermitted
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCatalogEntry
	}
	for _, existing := range *list {
		if strings.EqualFold(existing, name) {
			return nil
		}
	}
	updated := append(append([]string(nil), *list...), name)
	*list = updated
	c.persist(key, updated)
	return nil
}

func (c *Controller) removeCatalogEntry(actorID, name string, list *[]string, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorIsAdmin(actorID) {
		return ErrNotPermitted
	}
	for i, existing := range *list {
		if strings.EqualFold(existing, name) {
			updated := append([]string(nil), (*list)[:i]...)
			updated = append(updated, (*list)[i+1:]...)
			*list = updated
			c.persist(key, updated)
			return nil
		}
	}
	return nil
}
