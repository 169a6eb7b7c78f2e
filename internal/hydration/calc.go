// Package hydration holds the pure arithmetic of daily water goals.
package hydration

import (
	"math"
	"time"
)

const (
	// FallbackGoalMl is used when the weight is missing or invalid.
	FallbackGoalMl = 2500

	mlPerKg         = 35
	activityMedium  = 250
	activityHigh    = 500
	hotClimateBonus = 500
	dayLayout       = "2006-01-02"
)

// DailyGoal returns weight×35 ml plus activity and climate bonuses, rounded
// to the nearest ml. activity is LOW/MEDIUM/HIGH and climate NORMAL/HOT;
// unknown values add no bonus.
func DailyGoal(weightKg float64, activity, climate string) int {
	if math.IsNaN(weightKg) || weightKg <= 0 {
		return FallbackGoalMl
	}

	goal := weightKg * mlPerKg
	switch activity {
	case "MEDIUM":
		goal += activityMedium
	case "HIGH":
		goal += activityHigh
	}
	if climate == "HOT" {
		goal += hotClimateBonus
	}
	return int(math.Round(goal))
}

// Remaining is max(0, goal-consumed).
func Remaining(consumed, goal int) int {
	return max(0, goal-consumed)
}

// Percentage is consumed/goal in percent, rounded and capped at 100.
// A zero goal yields 0.
func Percentage(consumed, goal int) int {
	if goal == 0 {
		return 0
	}
	p := int(math.Round(float64(consumed) / float64(goal) * 100))
	return min(100, p)
}

// RoundTo50 rounds v to the nearest multiple of 50.
func RoundTo50(v float64) int {
	return int(math.Round(v/50) * 50)
}

// Average is the rounded mean of values, or 0 for none.
func Average(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}

// Day formats t as a UTC calendar date (YYYY-MM-DD), the key of the daily
// counter.
func Day(t time.Time) string {
	return t.UTC().Format(dayLayout)
}
