package aufguss

import (
	"fmt"
	"time"
)

// WindowDays is the length of the rolling booking window (today inclusive).
const WindowDays = 30

// Venue describes one location, its saunas and its opening-hour rule.
// Hours returns the bookable time-of-day strings for a given calendar day;
// an empty result means the venue is closed that day.
type Venue struct {
	Name   string
	Saunas []string
	Hours  func(date time.Time) []string
}

// Venue name constants
const (
	VenueStadtbad    = "Stadtbad"
	VenuePanoramabad = "Panoramabad"
	VenueSeesauna    = "Seesauna"
)

// DefaultVenues returns the club's three venues with their schedule rules.
// ref anchors the Seesauna's seasonal closure, which runs through August 31
// of the reference year.
func DefaultVenues(ref time.Time) []Venue {
	seesaunaOpening := time.Date(ref.Year(), time.September, 1, 0, 0, 0, 0, ref.Location())

	return []Venue{
		{
			Name:   VenueStadtbad,
			Saunas: []string{"Finnische Sauna", "Kräutersauna"},
			Hours: func(date time.Time) []string {
				switch date.Weekday() {
				case time.Monday:
					return nil
				case time.Tuesday, time.Wednesday, time.Thursday:
					return hourly(14, 20)
				default: // Friday, Saturday, Sunday
					return hourly(11, 20)
				}
			},
		},
		{
			Name:   VenuePanoramabad,
			Saunas: []string{"Panoramasauna", "Erdsauna"},
			Hours: func(date time.Time) []string {
				return halfPast(10, 20)
			},
		},
		{
			Name:   VenueSeesauna,
			Saunas: []string{"Seesauna"},
			Hours: func(date time.Time) []string {
				if date.Before(seesaunaOpening) {
					return nil
				}
				return hourly(10, 20)
			},
		},
	}
}

// Generate produces the canonical unclaimed slot set for the rolling window
// today..today+29, per venue, per sauna, per day. Slot ids are deterministic,
// so generating twice for the same day yields the same ids.
func Generate(now time.Time, venues []Venue) []Slot {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var slots []Slot
	for offset := 0; offset < WindowDays; offset++ {
		day := today.AddDate(0, 0, offset)
		date := day.Format(DateFormat)
		for _, v := range venues {
			times := v.Hours(day)
			for _, sauna := range v.Saunas {
				for _, tm := range times {
					slots = append(slots, Slot{
						ID:       SlotID(v.Name, sauna, date, tm),
						Location: v.Name,
						Sauna:    sauna,
						Date:     date,
						Time:     tm,
					})
				}
			}
		}
	}
	return slots
}

// DaysSinceLast returns the whole days since the user's most recent claimed
// slot strictly before today (midnight-normalized). The second return value
// is false when the user has no past claimed slot.
func DaysSinceLast(slots []Slot, userID string, now time.Time) (int, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var last time.Time
	found := false
	for i := range slots {
		if slots[i].MasterID != userID {
			continue
		}
		d, err := time.ParseInLocation(DateFormat, slots[i].Date, now.Location())
		if err != nil {
			continue
		}
		if !d.Before(today) {
			continue
		}
		if !found || d.After(last) {
			last = d
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return int(today.Sub(last) / (24 * time.Hour)), true
}

func hourly(from, to int) []string {
	var times []string
	for h := from; h <= to; h++ {
		times = append(times, fmt.Sprintf("%02d:00", h))
	}
	return times
}

func halfPast(from, to int) []string {
	var times []string
	for h := from; h <= to; h++ {
		times = append(times, fmt.Sprintf("%02d:30", h))
	}
	return times
}
