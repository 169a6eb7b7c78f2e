package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dmitrijs2005/hydratemate/internal/hydration"
)

// GuestProfile is the locally stored profile of a guest.
type GuestProfile struct {
	WeightKg      float64       `json:"weightKg"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Climate       Climate       `json:"climate"`
}

// DefaultGuestProfile is seeded on the first entry into guest mode.
func DefaultGuestProfile() GuestProfile {
	return GuestProfile{
		WeightKg:      DefaultWeightKg,
		ActivityLevel: DefaultActivityLevel,
		Climate:       DefaultClimate,
	}
}

func (p GuestProfile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.WeightKg, validation.Required, validation.Min(float64(WeightMinKg)), validation.Max(float64(WeightMaxKg))),
		validation.Field(&p.ActivityLevel, validation.Required, validation.In(ActivityLow, ActivityMedium, ActivityHigh)),
		validation.Field(&p.Climate, validation.Required, validation.In(ClimateNormal, ClimateHot)),
	)
}

// DailyGoal is the hydration goal in ml for this profile.
func (p GuestProfile) DailyGoal() int {
	return hydration.DailyGoal(p.WeightKg, string(p.ActivityLevel), string(p.Climate))
}

// GuestHydration is the guest's counter for one calendar day.
// RemainingMl is kept equal to max(0, GoalMl-ConsumedMl) by every method.
type GuestHydration struct {
	ConsumedMl  int    `json:"consumedMl"`
	GoalMl      int    `json:"goalMl"`
	RemainingMl int    `json:"remainingMl"`
	Date        string `json:"date"`
}

// NewGuestHydration returns an empty counter for day.
func NewGuestHydration(day string) GuestHydration {
	return GuestHydration{
		ConsumedMl:  0,
		GoalMl:      DefaultGoalMl,
		RemainingMl: DefaultGoalMl,
		Date:        day,
	}
}

// Add records ml of consumption.
func (h *GuestHydration) Add(ml int) {
	h.ConsumedMl += ml
	h.recompute()
}

// SetGoal replaces the goal.
func (h *GuestHydration) SetGoal(goalMl int) {
	h.GoalMl = goalMl
	h.recompute()
}

// ResetIfStale zeroes consumption when the counter belongs to a day other
// than today. It reports whether anything changed.
func (h *GuestHydration) ResetIfStale(today string) bool {
	if h.Date == today {
		return false
	}
	h.ConsumedMl = 0
	h.Date = today
	h.recompute()
	return true
}

// Percentage is the share of the goal reached, capped at 100.
func (h GuestHydration) Percentage() int {
	return hydration.Percentage(h.ConsumedMl, h.GoalMl)
}

func (h *GuestHydration) recompute() {
	h.RemainingMl = hydration.Remaining(h.ConsumedMl, h.GoalMl)
}

// GuestIntake is one drink recorded in guest mode. ClientID lets the
// backend discard duplicates if a migration is retried.
type GuestIntake struct {
	ClientID  string    `json:"clientId"`
	VolumeMl  int       `json:"volumeMl"`
	Source    Source    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
}

func (i GuestIntake) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.VolumeMl, validation.Required, validation.Min(IntakeMinMl), validation.Max(IntakeMaxMl)),
		validation.Field(&i.Source, validation.Required, validation.In(SourceSip, SourceDoubleSip, SourceGlass)),
	)
}

// GuestSnapshot is everything that travels to the backend on migration.
// It is built on demand and never persisted.
type GuestSnapshot struct {
	Hydration  *GuestHydration `json:"hydration"`
	Profile    *GuestProfile   `json:"profile"`
	History    []GuestIntake   `json:"history"`
	ExportedAt time.Time       `json:"exportedAt"`
}

// HasData reports whether there is anything worth migrating.
func (s *GuestSnapshot) HasData() bool {
	return s != nil && (s.Hydration != nil || len(s.History) > 0)
}
