// Package services contains application services for the HydrateMate client.
// This file defines the authentication service: the identity session state
// machine (anonymous, guest, authenticated) and its transitions.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/hydratemate/internal/client/client"
	"github.com/dmitrijs2005/hydratemate/internal/client/models"
	"github.com/dmitrijs2005/hydratemate/internal/client/repositories/kv"
	"github.com/dmitrijs2005/hydratemate/internal/common"
	"github.com/dmitrijs2005/hydratemate/internal/logging"
	"github.com/dmitrijs2005/hydratemate/internal/metrics"
)

// AuthService owns the identity session of one client process.
//
// Contract:
//   - Initialize: rebuild the session from the store, never touching the network.
//   - Login/Register: authenticate, persist token and user together, then
//     migrate guest data collected before the request.
//   - ContinueAsGuest: drop any session and enter guest mode, seeding guest
//     data only where absent.
//   - Logout: drop the session; guest data is left alone.
//   - UpgradeGuestToUser: Register, allowed only in guest mode.
//
// Transitions return a Result and never panic or leak transport errors.
// Guest-data operations live in guest.go.
type AuthService interface {
	Initialize(ctx context.Context) State
	Login(ctx context.Context, creds models.Credentials) Result
	Register(ctx context.Context, data models.RegisterData) Result
	ContinueAsGuest(ctx context.Context) Result
	Logout(ctx context.Context) Result
	UpgradeGuestToUser(ctx context.Context, data models.RegisterData) Result

	CollectGuestData(ctx context.Context) *models.GuestSnapshot
	MigrateGuestDataToBackend(ctx context.Context, token string, snapshot *models.GuestSnapshot) bool
	ClearGuestData(ctx context.Context) error
	CheckDailyReset(ctx context.Context) bool

	RecordGuestIntake(ctx context.Context, source models.Source, volumeMl int) (models.GuestHydration, error)
	GuestHydration(ctx context.Context) (models.GuestHydration, error)
	GuestProfile(ctx context.Context) (models.GuestProfile, error)
	GuestHistory(ctx context.Context) ([]models.GuestIntake, error)
	UpdateGuestProfile(ctx context.Context, profile models.GuestProfile) (models.GuestHydration, error)

	AuthHeaders() http.Header
	User() *models.User
	Token() string
	IsGuest() bool
	IsAuthenticated() bool
	State() State
}

type authService struct {
	client  client.Client
	store   kv.Store
	log     logging.Logger
	metrics metrics.Recorder
	now     func() time.Time
	newID   func() string

	mu      sync.RWMutex
	session session
}

type Option func(*authService)

func WithLogger(l logging.Logger) Option {
	return func(a *authService) { a.log = l }
}

func WithMetrics(r metrics.Recorder) Option {
	return func(a *authService) { a.metrics = r }
}

// WithClock replaces time.Now, which decides the calendar day of the guest
// counter.
func WithClock(now func() time.Time) Option {
	return func(a *authService) { a.now = now }
}

// NewAuthService constructs an AuthService bound to the given API client and
// store. The session starts anonymous until Initialize is called.
func NewAuthService(c client.Client, store kv.Store, opts ...Option) AuthService {
	a := &authService{
		client:  c,
		store:   store,
		log:     logging.Nop(),
		metrics: metrics.Nop(),
		now:     time.Now,
		newID:   newClientID,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("component", "auth")
	return a
}

func (a *authService) current() session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

func (a *authService) set(s session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
}

func (a *authService) User() *models.User {
	u := a.current().user
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func (a *authService) Token() string         { return a.current().token }
func (a *authService) IsGuest() bool         { return a.current().isGuest }
func (a *authService) IsAuthenticated() bool { return a.current().authenticated() }
func (a *authService) State() State          { return a.current().state() }

// AuthHeaders returns the bearer header for the in-memory token, or an empty
// header when there is none.
func (a *authService) AuthHeaders() http.Header {
	h := http.Header{}
	if tok := a.current().token; tok != "" {
		h.Set(common.AuthorizationHeader, common.BearerValue(tok))
	}
	return h
}

// Initialize restores the session persisted by a previous run. A stored user
// that does not parse drops both user and token; any other failure clears
// the whole auth session.
func (a *authService) Initialize(ctx context.Context) State {
	s, err := a.restore(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to restore session", "error", err)
		if err := a.clearAuth(ctx); err != nil {
			a.log.Error(ctx, "failed to clear session", "error", err)
		}
		return StateAnonymous
	}

	a.set(s)
	a.log.Debug(ctx, "session restored", "state", s.state().String())
	return s.state()
}

func (a *authService) restore(ctx context.Context) (session, error) {
	guest, err := a.store.Get(ctx, keyGuestMode)
	if err != nil {
		return session{}, err
	}
	if string(guest) == guestModeOn {
		return session{isGuest: true}, nil
	}

	token, err := a.store.Get(ctx, keyAuthToken)
	if err != nil {
		return session{}, err
	}
	s := session{token: string(token)}

	raw, err := a.store.Get(ctx, keyUser)
	if err != nil {
		return session{}, err
	}
	if len(raw) == 0 {
		return s, nil
	}

	var u *models.User
	err = json.Unmarshal(raw, &u)
	if err == nil && u == nil {
		err = errNullUser
	}
	if err != nil {
		a.log.Warn(ctx, "corrupted local state, dropping user and token", "key", keyUser, "error", err)
		err := a.store.Update(ctx, func(ctx context.Context, s kv.Store) error {
			return deleteKeys(ctx, s, keyUser, keyAuthToken)
		})
		if err != nil {
			return session{}, err
		}
		return session{}, nil
	}
	s.user = u
	return s, nil
}

var errNullUser = errors.New("stored user is null")

func (a *authService) Login(ctx context.Context, creds models.Credentials) Result {
	snapshot := a.CollectGuestData(ctx)

	resp, err := a.client.Login(ctx, creds)
	if err != nil {
		a.log.Error(ctx, "login failed", "error", err)
		return a.failure(opLogin, err)
	}
	return a.complete(ctx, opLogin, resp, snapshot)
}

func (a *authService) Register(ctx context.Context, data models.RegisterData) Result {
	snapshot := a.CollectGuestData(ctx)

	resp, err := a.client.Register(ctx, models.NewRegisterRequest(data))
	if err != nil {
		a.log.Error(ctx, "registration failed", "error", err)
		return a.failure(opRegister, err)
	}
	return a.complete(ctx, opRegister, resp, snapshot)
}

func (a *authService) UpgradeGuestToUser(ctx context.Context, data models.RegisterData) Result {
	if !a.IsGuest() {
		return Result{Err: guardViolation()}
	}
	return a.Register(ctx, data)
}

// complete persists the new session and hands any guest snapshot over to the
// backend. Token and user are written in one store update together with the
// removal of the guest flag.
func (a *authService) complete(ctx context.Context, op operation, resp *models.AuthResponse, snapshot *models.GuestSnapshot) Result {
	if !resp.Complete() {
		return fail(ErrMalformedResponse, "token or user missing in response", client.ErrMalformedResponse)
	}

	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		return fail(ErrMalformedResponse, op.fallback(), err)
	}

	err = a.store.Update(ctx, func(ctx context.Context, s kv.Store) error {
		if err := s.Set(ctx, keyAuthToken, []byte(resp.Token)); err != nil {
			return err
		}
		if err := s.Set(ctx, keyUser, userJSON); err != nil {
			return err
		}
		return s.Delete(ctx, keyGuestMode)
	})
	if err != nil {
		a.log.Error(ctx, "failed to persist session", "error", err)
		return fail(ErrStorage, MsgStorageFailed, err)
	}

	u := *resp.User
	a.set(session{user: &u, token: resp.Token})
	a.log.Info(ctx, "authenticated", "op", string(op), "user_id", u.ID)

	return ok(a.migrateOrClear(ctx, resp.Token, snapshot))
}

// migrateOrClear reports whether there was guest data to migrate. Guest keys
// are cleared when there was nothing to send or the backend accepted it.
func (a *authService) migrateOrClear(ctx context.Context, token string, snapshot *models.GuestSnapshot) bool {
	if !snapshot.HasData() {
		a.metrics.RecordMigration(metrics.MigrationSkipped)
		if err := a.ClearGuestData(ctx); err != nil {
			a.log.Error(ctx, "failed to clear guest data", "error", err)
		}
		return false
	}

	if a.MigrateGuestDataToBackend(ctx, token, snapshot) {
		if err := a.ClearGuestData(ctx); err != nil {
			a.log.Error(ctx, "failed to clear guest data", "error", err)
		}
	}
	return true
}

// ContinueAsGuest drops any session and enters guest mode. Existing guest
// profile and counter are kept.
func (a *authService) ContinueAsGuest(ctx context.Context) Result {
	a.set(session{})

	today := a.today()
	err := a.store.Update(ctx, func(ctx context.Context, s kv.Store) error {
		if err := deleteKeys(ctx, s, keyAuthToken, keyUser); err != nil {
			return err
		}
		if err := s.Set(ctx, keyGuestMode, []byte(guestModeOn)); err != nil {
			return err
		}
		if err := seedIfAbsent(ctx, s, keyGuestProfile, models.DefaultGuestProfile()); err != nil {
			return err
		}
		return seedIfAbsent(ctx, s, keyGuestHydration, models.NewGuestHydration(today))
	})
	if err != nil {
		a.log.Error(ctx, "failed to enter guest mode", "error", err)
		return fail(ErrStorage, MsgStorageFailed, err)
	}

	a.set(session{isGuest: true})
	a.log.Info(ctx, "guest mode entered")
	return ok(false)
}

// Logout clears token, user and guest flag. Guest profile, counter and
// history survive.
func (a *authService) Logout(ctx context.Context) Result {
	if err := a.clearAuth(ctx); err != nil {
		a.log.Error(ctx, "failed to clear session", "error", err)
		return fail(ErrStorage, MsgStorageFailed, err)
	}
	a.log.Info(ctx, "logged out")
	return ok(false)
}

func (a *authService) clearAuth(ctx context.Context) error {
	a.set(session{})
	return a.store.Update(ctx, func(ctx context.Context, s kv.Store) error {
		return deleteKeys(ctx, s, authKeys...)
	})
}

type operation string

const (
	opLogin    operation = "login"
	opRegister operation = "register"
)

func (op operation) fallback() string {
	if op == opRegister {
		return MsgRegisterFailed
	}
	return MsgLoginFailed
}

// rejectionStatus is the status whose missing "error" field falls back to a
// fixed message.
func (op operation) rejectionStatus() (int, string) {
	if op == opRegister {
		return http.StatusBadRequest, MsgInvalidRegistration
	}
	return http.StatusUnauthorized, MsgInvalidCredentials
}

// failure maps a backend client error to a Result.
func (a *authService) failure(op operation, err error) Result {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		status, fallback := op.rejectionStatus()
		switch {
		case apiErr.StatusCode == http.StatusInternalServerError:
			return fail(ErrServerFault, MsgServerError, err)
		case apiErr.StatusCode == status:
			msg := apiErr.ErrorText
			if msg == "" {
				msg = fallback
			}
			return fail(ErrClientRejection, msg, err)
		case apiErr.ServerFault():
			return fail(ErrServerFault, apiErr.Error(), err)
		default:
			return fail(ErrClientRejection, apiErr.Error(), err)
		}

	case errors.Is(err, client.ErrMalformedResponse):
		return fail(ErrMalformedResponse, err.Error(), err)

	default:
		return fail(ErrTransport, op.fallback(), err)
	}
}

func (a *authService) today() string {
	return dayOf(a.now())
}

func deleteKeys(ctx context.Context, s kv.Store, keys ...string) error {
	for _, k := range keys {
		if err := s.Delete(ctx, k); err != nil {
			return fmt.Errorf("failed to delete %s: %w", k, err)
		}
	}
	return nil
}
