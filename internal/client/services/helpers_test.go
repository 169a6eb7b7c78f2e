package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/hydratemate/internal/client/models"
	"github.com/dmitrijs2005/hydratemate/internal/client/repositories/kv"
)

var (
	today     = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	todayDay  = "2026-10-18"
	yesterday = "2026-10-17"
)

func fixedClock() time.Time { return today }

// fakeClient implements client.Client for unit tests of AuthService.
type fakeClient struct {
	mu sync.Mutex

	LoginResp    *models.AuthResponse
	LoginErr     error
	RegisterResp *models.AuthResponse
	RegisterErr  error
	MigrateErr   error
	MeResp       *models.User
	MeErr        error

	LastCreds     models.Credentials
	LastRegister  models.RegisterRequest
	LoginCalls    int
	RegisterCalls int
	Migrations    []*models.GuestSnapshot
	MigrateTokens []string
}

func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	f.LastCreds = creds
	return f.LoginResp, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RegisterCalls++
	f.LastRegister = req
	return f.RegisterResp, f.RegisterErr
}

func (f *fakeClient) MigrateGuestData(ctx context.Context, token string, snapshot *models.GuestSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MigrateTokens = append(f.MigrateTokens, token)
	f.Migrations = append(f.Migrations, snapshot)
	return f.MigrateErr
}

func (f *fakeClient) Me(ctx context.Context, token string) (*models.User, error) {
	return f.MeResp, f.MeErr
}

func authOK(token string, id int64) *models.AuthResponse {
	return &models.AuthResponse{
		Token: token,
		User:  &models.User{ID: id, Email: "test@example.com", Name: "Test User"},
	}
}

// failingStore wraps a Store and fails selected operations.
type failingStore struct {
	kv.Store
	getErr    error
	updateErr error
}

func (s *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.Store.Get(ctx, key)
}

func (s *failingStore) Update(ctx context.Context, fn func(ctx context.Context, st kv.Store) error) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.Store.Update(ctx, fn)
}

var errDisk = errors.New("disk I/O error")

func newService(t *testing.T, fc *fakeClient, opts ...Option) (AuthService, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return NewAuthService(fc, store, opts...), store
}

func putJSON(t *testing.T, s kv.Store, key string, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), key, b))
}

func putRaw(t *testing.T, s kv.Store, key, v string) {
	t.Helper()
	require.NoError(t, s.Set(context.Background(), key, []byte(v)))
}

func getRaw(t *testing.T, s kv.Store, key string) string {
	t.Helper()
	b, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	return string(b)
}

func getJSON[T any](t *testing.T, s kv.Store, key string) T {
	t.Helper()
	var v T
	b, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	require.NotEmpty(t, b, "key %s is absent", key)
	require.NoError(t, json.Unmarshal(b, &v))
	return v
}

func hasKey(t *testing.T, s kv.Store, key string) bool {
	t.Helper()
	b, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	return len(b) > 0
}

// enterGuest puts svc into guest mode and returns it for chaining.
func enterGuest(t *testing.T, svc AuthService) AuthService {
	t.Helper()
	res := svc.ContinueAsGuest(context.Background())
	require.True(t, res.Success, res.Message())
	return svc
}
