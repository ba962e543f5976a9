package award

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyName = errors.New("award name cannot be empty")
	ErrEmptyIcon = errors.New("award icon cannot be empty")
)

// Award is a badge an admin can grant to members. The seeded catalog can be
// extended in-app but entries are never deleted.
type Award struct {
	ID    string
	Name  string
	Icon  string
	Color string
}

// Validate checks if the Award has valid data.
// PRE: Award struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Award) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.Icon) == "" {
		return ErrEmptyIcon
	}
	return nil
}
