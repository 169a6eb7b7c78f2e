package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/hydratemate/internal/client/client"
	"github.com/dmitrijs2005/hydratemate/internal/client/models"
	"github.com/dmitrijs2005/hydratemate/internal/client/services"
)

func TestRun_GuestTracksIntake(t *testing.T) {
	h := newHarness(t, nil,
		"guest",
		"drink glass",
		"drink 300ml",
		"today",
		"history",
		"exit",
	)

	h.app.Run(context.Background())

	out := h.out.String()
	assert.Contains(t, out, "Guest mode active")
	assert.Contains(t, out, "Today: 250 / 2500 ml (10%), 2250 ml to go")
	assert.Contains(t, out, "Today: 550 / 2500 ml (22%), 1950 ml to go")
	assert.Contains(t, out, "GLASS")
	assert.Contains(t, out, "  300 ml")
	assert.Equal(t, services.StateGuest, h.auth.State())
}

func TestRun_GuestProfileMovesGoal(t *testing.T) {
	h := newHarness(t, nil,
		"guest",
		"profile",
		"profile 80 high hot",
		"profile 10 high hot",
		"profile 80",
		"exit",
	)

	h.app.Run(context.Background())

	out := h.out.String()
	assert.Contains(t, out, "Weight: 70 kg, activity: MEDIUM, climate: NORMAL, daily goal: 2700 ml")
	assert.Contains(t, out, "Daily goal set to 3800 ml")
	assert.Contains(t, out, "Error: invalid profile")
	assert.Contains(t, out, "Error: "+usageProfile)
}

func TestRun_DrinkOutsideGuestMode(t *testing.T) {
	h := newHarness(t, nil, "drink sip", "drink", "drink coffee", "exit")

	h.app.Run(context.Background())

	out := h.out.String()
	assert.Contains(t, out, "Error: "+services.MsgNotGuest)
	assert.Contains(t, out, "Error: "+usageDrink)
	assert.Contains(t, out, `unknown drink "coffee"`)
}

func TestRun_LoginFromGuestMigrates(t *testing.T) {
	api := &apiStub{loginResp: session("tok-1")}
	h := newHarness(t, api,
		"guest",
		"drink glass",
		"login",
		"n@e.com",
		"secret1",
		"exit",
	)

	h.app.Run(context.Background())

	out := h.out.String()
	assert.Contains(t, out, "Welcome back, Nina!")
	assert.Contains(t, out, "Your guest data was transferred to your account.")
	require.Len(t, api.migrations, 1)
	assert.Equal(t, 250, api.migrations[0].Hydration.ConsumedMl)
	assert.Equal(t, services.StateAuthenticated, h.auth.State())
	assert.Contains(t, out, "hm (n@e.com)> ")

	raw, err := h.store.Get(context.Background(), "guestHistory")
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestRun_LoginValidatesBeforeCallingBackend(t *testing.T) {
	api := &apiStub{loginResp: session("tok-1")}
	h := newHarness(t, api, "login", "not-an-email", "secret1", "exit")

	h.app.Run(context.Background())

	assert.Contains(t, h.out.String(), "must be a valid email address")
	assert.Zero(t, api.loginCalls)
	assert.Equal(t, services.StateAnonymous, h.auth.State())
}

func TestRun_LoginRejected(t *testing.T) {
	api := &apiStub{loginErr: &client.APIError{StatusCode: 401}}
	h := newHarness(t, api, "login", "n@e.com", "wrong-pass", "exit")

	h.app.Run(context.Background())

	assert.Contains(t, h.out.String(), "Error: "+services.MsgInvalidCredentials)
	assert.Equal(t, services.StateAnonymous, h.auth.State())
}

func TestRun_RegisterSendsDefaults(t *testing.T) {
	api := &apiStub{registerResp: session("tok-2")}
	h := newHarness(t, api, "register", "Nina", "n@e.com", "secret1", "logout", "exit")

	h.app.Run(context.Background())

	out := h.out.String()
	assert.Contains(t, out, "Account created. Welcome, Nina!")
	assert.NotContains(t, out, "transferred")
	assert.Contains(t, out, "Logged out.")
	assert.Equal(t, models.NewRegisterRequest(models.RegisterData{
		Name: "Nina", Email: "n@e.com", Password: "secret1",
	}), api.lastRegister)
	assert.Equal(t, services.StateAnonymous, h.auth.State())
}

func TestRun_UpgradeRequiresGuest(t *testing.T) {
	api := &apiStub{registerResp: session("tok-3")}
	h := newHarness(t, api, "upgrade", "guest", "drink sip", "upgrade", "Nina", "n@e.com", "secret1", "exit")

	h.app.Run(context.Background())

	out := h.out.String()
	assert.Contains(t, out, "Error: "+services.MsgNotGuest)
	assert.Contains(t, out, "Account created. Welcome, Nina!")
	assert.Contains(t, out, "Your guest data was transferred to your account.")
	require.Len(t, api.migrations, 1)
	assert.Equal(t, services.StateAuthenticated, h.auth.State())
}

func TestRun_RestoresSessionAndResetsStaleCounter(t *testing.T) {
	h := newHarness(t, nil, "today", "exit")
	ctx := context.Background()

	stale, err := json.Marshal(models.GuestHydration{ConsumedMl: 900, GoalMl: 2500, RemainingMl: 1600, Date: "2026-10-17"})
	require.NoError(t, err)
	require.NoError(t, h.store.Set(ctx, "guestMode", []byte("true")))
	require.NoError(t, h.store.Set(ctx, "guestHydrationData", stale))

	h.app.Run(ctx)

	out := h.out.String()
	assert.Contains(t, out, "A new day has started")
	assert.Contains(t, out, "Today: 0 / 2500 ml (0%), 2500 ml to go")
}

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "n@e.com",
		"exp": jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name  string
		token string
		meErr error
		want  []string
	}{
		{
			name:  "valid session",
			token: mintToken(t, now.Add(time.Hour)),
			want:  []string{"Mode: authenticated", "User: Nina <n@e.com>", "Token valid until", "Backend confirms account #7 (n@e.com)"},
		},
		{
			name:  "expired token rejected by backend",
			token: mintToken(t, now.Add(-time.Hour)),
			meErr: &client.APIError{StatusCode: 401},
			want:  []string{"Token expired at", "no longer accepts this session"},
		},
		{
			name:  "opaque token, backend down",
			token: "opaque-token",
			meErr: client.ErrUnavailable,
			want:  []string{"Mode: authenticated", "Error: backend check failed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &apiStub{
				loginResp: session(tt.token),
				meResp:    &models.User{ID: 7, Email: "n@e.com", Name: "Nina"},
				meErr:     tt.meErr,
			}
			h := newHarness(t, api, "login", "n@e.com", "secret1", "status", "exit")

			h.app.Run(context.Background())

			out := h.out.String()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			assert.Equal(t, []string{tt.token}, api.meTokens)
		})
	}
}

func TestStatus_AnonymousSkipsBackend(t *testing.T) {
	api := &apiStub{}
	h := newHarness(t, api, "status", "guest", "status", "exit")

	h.app.Run(context.Background())

	out := h.out.String()
	assert.Contains(t, out, "Mode: anonymous")
	assert.Contains(t, out, "Mode: guest")
	assert.Empty(t, api.meTokens)
}

func TestStartDailyResetWatcher(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	stale, err := json.Marshal(models.GuestHydration{ConsumedMl: 400, GoalMl: 2500, RemainingMl: 2100, Date: "2026-10-17"})
	require.NoError(t, err)
	require.NoError(t, h.store.Set(ctx, "guestMode", []byte("true")))
	require.NoError(t, h.store.Set(ctx, "guestHydrationData", stale))
	require.Equal(t, services.StateGuest, h.auth.Initialize(ctx))

	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		h.app.StartDailyResetWatcher(wctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		raw, err := h.store.Get(ctx, "guestHydrationData")
		if err != nil {
			return false
		}
		var got models.GuestHydration
		return json.Unmarshal(raw, &got) == nil && got.Date == "2026-10-18" && got.ConsumedMl == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestParseDrink(t *testing.T) {
	tests := []struct {
		in     string
		source models.Source
		ml     int
	}{
		{"sip", models.SourceSip, 0},
		{"DOUBLE_SIP", models.SourceDoubleSip, 0},
		{"Glass", models.SourceGlass, 0},
		{"50", models.SourceSip, 50},
		{"80ml", models.SourceDoubleSip, 80},
		{"330", models.SourceGlass, 330},
	}
	for _, tt := range tests {
		src, ml, err := parseDrink(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.source, src, tt.in)
		assert.Equal(t, tt.ml, ml, tt.in)
	}

	for _, bad := range []string{"tea", "0", "0ml", "-100"} {
		_, _, err := parseDrink(bad)
		assert.Error(t, err, bad)
	}
}
