package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/hydratemate/internal/client/models"
	"github.com/dmitrijs2005/hydratemate/internal/client/repositories/kv"
	"github.com/dmitrijs2005/hydratemate/internal/hydration"
	"github.com/dmitrijs2005/hydratemate/internal/metrics"
)

func newClientID() string {
	return uuid.NewString()
}

func dayOf(t time.Time) string {
	return hydration.Day(t)
}

// CollectGuestData snapshots guest data for migration. It returns nil
// outside guest mode or when the store cannot be read. Entries that do not
// parse are removed and left out of the snapshot.
func (a *authService) CollectGuestData(ctx context.Context) *models.GuestSnapshot {
	if !a.IsGuest() {
		return nil
	}

	snap := &models.GuestSnapshot{History: []models.GuestIntake{}}

	var h models.GuestHydration
	found, err := a.load(ctx, a.store, keyGuestHydration, &h)
	if err != nil {
		a.log.Error(ctx, "failed to collect guest data", "error", err)
		return nil
	}
	if found {
		snap.Hydration = &h
	}

	var p models.GuestProfile
	found, err = a.load(ctx, a.store, keyGuestProfile, &p)
	if err != nil {
		a.log.Error(ctx, "failed to collect guest data", "error", err)
		return nil
	}
	if found {
		snap.Profile = &p
	}

	history, err := a.loadHistory(ctx, a.store)
	if err != nil {
		a.log.Error(ctx, "failed to collect guest data", "error", err)
		return nil
	}
	snap.History = history

	snap.ExportedAt = a.now().UTC()
	return snap
}

// MigrateGuestDataToBackend reports whether the backend accepted the
// snapshot. Failures are logged, never returned.
func (a *authService) MigrateGuestDataToBackend(ctx context.Context, token string, snapshot *models.GuestSnapshot) bool {
	if snapshot == nil {
		a.log.Warn(ctx, "no guest snapshot to migrate")
		return false
	}
	if err := a.client.MigrateGuestData(ctx, token, snapshot); err != nil {
		a.log.Error(ctx, "guest data migration failed", "error", err)
		a.metrics.RecordMigration(metrics.MigrationFailed)
		return false
	}
	a.metrics.RecordMigration(metrics.MigrationOK)
	a.log.Info(ctx, "guest data migrated", "intakes", len(snapshot.History))
	return true
}

// ClearGuestData removes the guest flag and all guest data. It does not
// touch the in-memory session.
func (a *authService) ClearGuestData(ctx context.Context) error {
	return a.store.Update(ctx, func(ctx context.Context, s kv.Store) error {
		return deleteKeys(ctx, s, guestKeys...)
	})
}

// CheckDailyReset zeroes the guest counter if it belongs to an earlier day
// and reports whether it did. Outside guest mode, or without a stored
// counter, it does nothing.
func (a *authService) CheckDailyReset(ctx context.Context) bool {
	if !a.IsGuest() {
		return false
	}

	today := a.today()
	var reset bool
	err := a.store.Update(ctx, func(ctx context.Context, s kv.Store) error {
		var h models.GuestHydration
		found, err := a.load(ctx, s, keyGuestHydration, &h)
		if err != nil || !found {
			return err
		}
		if !h.ResetIfStale(today) {
			return nil
		}
		reset = true
		return save(ctx, s, keyGuestHydration, h)
	})
	if err != nil {
		a.log.Error(ctx, "daily reset failed", "error", err)
		return false
	}
	if reset {
		a.log.Info(ctx, "guest counter reset for new day", "date", today)
	}
	return reset
}

// RecordGuestIntake appends a drink to the guest history and adds it to
// today's counter in one store update. A zero volume means the source's
// preset.
func (a *authService) RecordGuestIntake(ctx context.Context, source models.Source, volumeMl int) (models.GuestHydration, error) {
	if !a.IsGuest() {
		return models.GuestHydration{}, guardViolation()
	}

	if volumeMl == 0 {
		volumeMl = source.Volume()
	}
	now := a.now().UTC()
	intake := models.GuestIntake{
		ClientID:  a.newID(),
		VolumeMl:  volumeMl,
		Source:    source,
		Timestamp: now,
		Date:      dayOf(now),
	}
	if err := intake.Validate(); err != nil {
		return models.GuestHydration{}, fmt.Errorf("invalid intake: %w", err)
	}

	var out models.GuestHydration
	err := a.store.Update(ctx, func(ctx context.Context, s kv.Store) error {
		h, err := a.todayCounter(ctx, s)
		if err != nil {
			return err
		}
		history, err := a.loadHistory(ctx, s)
		if err != nil {
			return err
		}

		h.Add(intake.VolumeMl)
		history = append(history, intake)

		if err := save(ctx, s, keyGuestHistory, history); err != nil {
			return err
		}
		out = h
		return save(ctx, s, keyGuestHydration, h)
	})
	if err != nil {
		return models.GuestHydration{}, &AuthError{Kind: ErrStorage, Message: MsgStorageFailed, Err: err}
	}

	a.log.Debug(ctx, "guest intake recorded", "volume_ml", intake.VolumeMl, "source", string(source))
	return out, nil
}

// GuestHydration returns today's counter, zeroing a stale one first.
func (a *authService) GuestHydration(ctx context.Context) (models.GuestHydration, error) {
	if !a.IsGuest() {
		return models.GuestHydration{}, guardViolation()
	}

	var out models.GuestHydration
	err := a.store.Update(ctx, func(ctx context.Context, s kv.Store) error {
		h, err := a.todayCounter(ctx, s)
		if err != nil {
			return err
		}
		out = h
		return save(ctx, s, keyGuestHydration, h)
	})
	if err != nil {
		return models.GuestHydration{}, &AuthError{Kind: ErrStorage, Message: MsgStorageFailed, Err: err}
	}
	return out, nil
}

// GuestProfile returns the stored profile, or the defaults if there is none.
func (a *authService) GuestProfile(ctx context.Context) (models.GuestProfile, error) {
	if !a.IsGuest() {
		return models.GuestProfile{}, guardViolation()
	}

	var p models.GuestProfile
	found, err := a.load(ctx, a.store, keyGuestProfile, &p)
	if err != nil {
		return models.GuestProfile{}, &AuthError{Kind: ErrStorage, Message: MsgStorageFailed, Err: err}
	}
	if !found {
		return models.DefaultGuestProfile(), nil
	}
	return p, nil
}

func (a *authService) GuestHistory(ctx context.Context) ([]models.GuestIntake, error) {
	if !a.IsGuest() {
		return nil, guardViolation()
	}

	history, err := a.loadHistory(ctx, a.store)
	if err != nil {
		return nil, &AuthError{Kind: ErrStorage, Message: MsgStorageFailed, Err: err}
	}
	return history, nil
}

// UpdateGuestProfile stores profile and moves the counter's goal to the
// profile's daily goal.
func (a *authService) UpdateGuestProfile(ctx context.Context, profile models.GuestProfile) (models.GuestHydration, error) {
	if !a.IsGuest() {
		return models.GuestHydration{}, guardViolation()
	}
	if err := profile.Validate(); err != nil {
		return models.GuestHydration{}, fmt.Errorf("invalid profile: %w", err)
	}

	var out models.GuestHydration
	err := a.store.Update(ctx, func(ctx context.Context, s kv.Store) error {
		if err := save(ctx, s, keyGuestProfile, profile); err != nil {
			return err
		}
		h, err := a.todayCounter(ctx, s)
		if err != nil {
			return err
		}
		h.SetGoal(profile.DailyGoal())
		out = h
		return save(ctx, s, keyGuestHydration, h)
	})
	if err != nil {
		return models.GuestHydration{}, &AuthError{Kind: ErrStorage, Message: MsgStorageFailed, Err: err}
	}
	return out, nil
}

// todayCounter loads the counter, seeding defaults when it is absent and
// zeroing it when it is stale. The caller persists the result.
func (a *authService) todayCounter(ctx context.Context, s kv.Store) (models.GuestHydration, error) {
	today := a.today()

	var h models.GuestHydration
	found, err := a.load(ctx, s, keyGuestHydration, &h)
	if err != nil {
		return models.GuestHydration{}, err
	}
	if !found {
		return models.NewGuestHydration(today), nil
	}
	h.ResetIfStale(today)
	return h, nil
}

func (a *authService) loadHistory(ctx context.Context, s kv.Store) ([]models.GuestIntake, error) {
	var history []models.GuestIntake
	found, err := a.load(ctx, s, keyGuestHistory, &history)
	if err != nil {
		return nil, err
	}
	if !found || history == nil {
		return []models.GuestIntake{}, nil
	}
	return history, nil
}

// load decodes key into v and reports whether it was present. A value that
// does not parse is removed and reported as absent.
func (a *authService) load(ctx context.Context, s kv.Store, key string, v any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		a.log.Warn(ctx, "corrupted local state, removing key", "key", key, "error", err)
		if err := s.Delete(ctx, key); err != nil {
			return false, fmt.Errorf("failed to delete %s: %w", key, err)
		}
		return false, nil
	}
	return true, nil
}

func save(ctx context.Context, s kv.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, b)
}

func seedIfAbsent(ctx context.Context, s kv.Store, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if len(raw) > 0 {
		return nil
	}
	return save(ctx, s, key, v)
}
