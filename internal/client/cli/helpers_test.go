package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/hydratemate/internal/client/models"
	"github.com/dmitrijs2005/hydratemate/internal/client/repositories/kv"
	"github.com/dmitrijs2005/hydratemate/internal/client/services"
)

var now = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

// apiStub implements client.Client.
type apiStub struct {
	mu sync.Mutex

	loginResp    *models.AuthResponse
	loginErr     error
	registerResp *models.AuthResponse
	registerErr  error
	meResp       *models.User
	meErr        error

	loginCalls   int
	lastRegister models.RegisterRequest
	migrations   []*models.GuestSnapshot
	meTokens     []string
}

func (s *apiStub) Login(_ context.Context, _ models.Credentials) (*models.AuthResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginCalls++
	return s.loginResp, s.loginErr
}

func (s *apiStub) Register(_ context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRegister = req
	return s.registerResp, s.registerErr
}

func (s *apiStub) MigrateGuestData(_ context.Context, _ string, snap *models.GuestSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrations = append(s.migrations, snap)
	return nil
}

func (s *apiStub) Me(_ context.Context, token string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meTokens = append(s.meTokens, token)
	return s.meResp, s.meErr
}

func session(token string) *models.AuthResponse {
	return &models.AuthResponse{
		Token: token,
		User:  &models.User{ID: 7, Email: "n@e.com", Name: "Nina"},
	}
}

// pipedInput makes GetPassword read from the App's reader.
func pipedInput(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

type harness struct {
	app   *App
	auth  services.AuthService
	api   *apiStub
	store *kv.MemoryStore
	out   *bytes.Buffer
}

func newHarness(t *testing.T, api *apiStub, lines ...string) *harness {
	t.Helper()
	pipedInput(t)
	if api == nil {
		api = &apiStub{}
	}
	store := kv.NewMemoryStore()
	auth := services.NewAuthService(api, store, services.WithClock(fixedClock))
	out := &bytes.Buffer{}
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	app := NewApp(auth, api, WithInput(in), WithOutput(out), WithClock(fixedClock))
	return &harness{app: app, auth: auth, api: api, store: store, out: out}
}
