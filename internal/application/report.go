package application

import (
	"sort"

	"saunaclub/internal/domain/aufguss"
)

// MemberActivity is one row of the club activity report.
type MemberActivity struct {
	UserID                   string
	Name                     string
	PrimarySauna             string
	AufgussCount             int
	WorkHours                float64
	ShortNoticeCancellations int
	DaysSinceLastAufguss     int
	HasPastAufguss           bool
	Qualifications           []string
	Awards                   []string
}

// Report builds the per-member activity overview, sorted by Aufguss count
// descending, then by name. This is the read model behind the admin report
// page.
func (c *Controller) Report() []MemberActivity {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	rows := make([]MemberActivity, 0, len(c.users))
	for i := range c.users {
		u := c.users[i]
		days, ok := aufguss.DaysSinceLast(c.slots, u.ID, now)
		rows = append(rows, MemberActivity{
			UserID:                   u.ID,
			Name:                     u.Name,
			PrimarySauna:             u.PrimarySauna,
			AufgussCount:             u.AufgussCount,
			WorkHours:                u.WorkHours,
			ShortNoticeCancellations: u.ShortNoticeCancellations,
			DaysSinceLastAufguss:     days,
			HasPastAufguss:           ok,
			Qualifications:           append([]string(nil), u.Qualifications...),
			Awards:                   append([]string(nil), u.Awards...),
		})
	}

	sort.Slice(rows, func(a, b int) bool {
		if rows[a].AufgussCount != rows[b].AufgussCount {
			return rows[a].AufgussCount > rows[b].AufgussCount
		}
		return rows[a].Name < rows[b].Name
	})
	return rows
}
