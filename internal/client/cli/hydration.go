package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/hydratemate/internal/client/models"
)

const (
	usageDrink   = "usage: drink <sip|double_sip|glass|ml>"
	usageProfile = "usage: profile [<weight kg> <low|medium|high> <normal|hot>]"
)

// parseDrink accepts a source name or an amount such as "300" or "300ml".
// A zero volume means the source's preset.
func parseDrink(arg string) (models.Source, int, error) {
	src := models.Source(strings.ToUpper(arg))
	if src.Volume() > 0 {
		return src, 0, nil
	}

	ml, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(arg), "ml"))
	if err != nil || ml <= 0 {
		return "", 0, fmt.Errorf("unknown drink %q, %s", arg, usageDrink)
	}
	return sourceFor(ml), ml, nil
}

// sourceFor picks the smallest preset that holds ml.
func sourceFor(ml int) models.Source {
	switch {
	case ml <= models.SourceSip.Volume():
		return models.SourceSip
	case ml <= models.SourceDoubleSip.Volume():
		return models.SourceDoubleSip
	default:
		return models.SourceGlass
	}
}

func (a *App) Drink(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New(usageDrink)
	}
	src, ml, err := parseDrink(args[0])
	if err != nil {
		return err
	}

	h, err := a.auth.RecordGuestIntake(ctx, src, ml)
	if err != nil {
		return err
	}
	a.printHydration(h)
	return nil
}

func (a *App) Today(ctx context.Context) error {
	h, err := a.auth.GuestHydration(ctx)
	if err != nil {
		return err
	}
	a.printHydration(h)
	return nil
}

// Profile shows the guest profile, or with three arguments replaces it and
// moves the daily goal accordingly.
func (a *App) Profile(ctx context.Context, args []string) error {
	switch len(args) {
	case 0:
		p, err := a.auth.GuestProfile(ctx)
		if err != nil {
			return err
		}
		a.printf("Weight: %g kg, activity: %s, climate: %s, daily goal: %d ml\n",
			p.WeightKg, p.ActivityLevel, p.Climate, p.DailyGoal())
		return nil
	case 3:
	default:
		return errors.New(usageProfile)
	}

	weight, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid weight %q, %s", args[0], usageProfile)
	}
	p := models.GuestProfile{
		WeightKg:      weight,
		ActivityLevel: models.ActivityLevel(strings.ToUpper(args[1])),
		Climate:       models.Climate(strings.ToUpper(args[2])),
	}

	h, err := a.auth.UpdateGuestProfile(ctx, p)
	if err != nil {
		return err
	}
	a.printf("Daily goal set to %d ml\n", h.GoalMl)
	a.printHydration(h)
	return nil
}

func (a *App) History(ctx context.Context) error {
	history, err := a.auth.GuestHistory(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		a.println("No drinks recorded yet.")
		return nil
	}
	for _, in := range history {
		a.printf("%s  %-10s %5d ml\n", in.Timestamp.Local().Format("2006-01-02 15:04"), in.Source, in.VolumeMl)
	}
	return nil
}

func (a *App) printHydration(h models.GuestHydration) {
	a.printf("Today: %d / %d ml (%d%%), %d ml to go\n", h.ConsumedMl, h.GoalMl, h.Percentage(), h.RemainingMl)
	if h.RemainingMl == 0 {
		a.println("Daily goal reached!")
	}
}
