package models

// ActivityLevel is the user's self-reported activity.
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "LOW"
	ActivityMedium ActivityLevel = "MEDIUM"
	ActivityHigh   ActivityLevel = "HIGH"
)

// Climate is the user's ambient climate.
type Climate string

const (
	ClimateNormal Climate = "NORMAL"
	ClimateHot    Climate = "HOT"
)

// Source is the kind of drink recorded by an intake.
type Source string

const (
	SourceSip       Source = "SIP"
	SourceDoubleSip Source = "DOUBLE_SIP"
	SourceGlass     Source = "GLASS"
)

// Volume returns the preset amount in ml for the source, or 0 if unknown.
func (s Source) Volume() int {
	switch s {
	case SourceSip:
		return 50
	case SourceDoubleSip:
		return 100
	case SourceGlass:
		return 250
	}
	return 0
}

// Defaults used for guest seeding and registration.
const (
	DefaultWeightKg                    = 70
	DefaultActivityLevel ActivityLevel = ActivityMedium
	DefaultClimate       Climate       = ClimateNormal
	DefaultGoalMl                      = 2500
)

// Input limits shared by validators.
const (
	WeightMinKg = 30
	WeightMaxKg = 300

	PasswordMinLength = 6
	PasswordMaxLength = 100

	NameMinLength = 2
	NameMaxLength = 50

	IntakeMinMl = 50
	IntakeMaxMl = 2000
)
