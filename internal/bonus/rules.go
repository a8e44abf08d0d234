// Package bonus implements the supplementary point rules evaluated against
// activity event metadata. Rules are pure and independent: every applicable
// bonus stacks, missing metadata means "no bonus", never an error.
package bonus

import (
	"github.com/sproutcare/engagement-engine/internal/domain"
)

// Bonus is one supplementary point award computed from event metadata.
// The ledger materializes bonuses into transactions; this package never
// creates transactions itself so the audit trail has a single author.
type Bonus struct {
	Type        string
	Points      int
	Description string
}

// Bonus type identifiers, used as the transaction activity type
const (
	TypePhoto        = "bonus_photo"
	TypeHighQuality  = "bonus_photo_quality"
	TypeWeather      = "bonus_weather"
	TypeEarlyBird    = "bonus_early_bird"
	TypeNightOwl     = "bonus_night_owl"
	TypeDetailedNote = "bonus_detailed_note"
)

// Point values per rule
const (
	PhotoPoints        = 5
	HighQualityPoints  = 5
	EarlyBirdPoints    = 3
	NightOwlPoints     = 3
	DetailedNotePoints = 5
)

// Hour windows for the time-of-day rules. The two windows are disjoint,
// so at most one time-of-day bonus applies per event.
const (
	EarlyBirdStartHour = 5
	EarlyBirdEndHour   = 8
	NightOwlStartHour  = 21
)

// DetailedNoteMinLength is the minimum note length that earns the note bonus
const DetailedNoteMinLength = 50

// QualityHigh is the metadata value that triggers the photo quality bonus
const QualityHigh = "high"

// weatherPoints maps known weather conditions to their bonus.
// Unknown or absent weather contributes zero.
var weatherPoints = map[string]int{
	"rainy":  5,
	"sunny":  2,
	"snowy":  8,
	"severe": 10,
}

// Compute evaluates every bonus rule against the event and returns the
// bonuses that apply. The event's Timestamp is taken as user-local time;
// its hour drives the time-of-day rules.
func Compute(evt domain.ActivityEvent) []Bonus {
	var bonuses []Bonus

	if evt.Metadata.WithPhoto {
		bonuses = append(bonuses, Bonus{
			Type:        TypePhoto,
			Points:      PhotoPoints,
			Description: "Photo attached",
		})
		if evt.Metadata.Quality == QualityHigh {
			bonuses = append(bonuses, Bonus{
				Type:        TypeHighQuality,
				Points:      HighQualityPoints,
				Description: "High quality photo",
			})
		}
	}

	if pts, ok := weatherPoints[evt.Metadata.Weather]; ok {
		bonuses = append(bonuses, Bonus{
			Type:        TypeWeather,
			Points:      pts,
			Description: "Logged despite " + evt.Metadata.Weather + " weather",
		})
	}

	hour := evt.Timestamp.Hour()
	switch {
	case hour >= EarlyBirdStartHour && hour < EarlyBirdEndHour:
		bonuses = append(bonuses, Bonus{
			Type:        TypeEarlyBird,
			Points:      EarlyBirdPoints,
			Description: "Early bird",
		})
	case hour >= NightOwlStartHour:
		bonuses = append(bonuses, Bonus{
			Type:        TypeNightOwl,
			Points:      NightOwlPoints,
			Description: "Night owl",
		})
	}

	if len(evt.Metadata.Notes) >= DetailedNoteMinLength {
		bonuses = append(bonuses, Bonus{
			Type:        TypeDetailedNote,
			Points:      DetailedNotePoints,
			Description: "Detailed note",
		})
	}

	return bonuses
}

// Total sums the points of a bonus set
func Total(bonuses []Bonus) int {
	total := 0
	for _, b := range bonuses {
		total += b.Points
	}
	return total
}
