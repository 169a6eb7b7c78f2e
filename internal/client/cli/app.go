package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/hydratemate/internal/client/client"
	"github.com/dmitrijs2005/hydratemate/internal/client/services"
	"github.com/dmitrijs2005/hydratemate/internal/logging"
)

// DailyResetInterval is how often a running CLI checks for day rollover.
const DailyResetInterval = time.Minute

type App struct {
	auth   services.AuthService
	api    client.Client
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

type Option func(*App)

func WithInput(r io.Reader) Option {
	return func(a *App) { a.reader = bufio.NewReader(r) }
}

func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// NewApp builds the interactive client on top of auth. api is used only
// for the server-side session check of the status command.
func NewApp(auth services.AuthService, api client.Client, opts ...Option) *App {
	a := &App{
		auth:   auth,
		api:    api,
		log:    logging.Nop(),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run restores the previous session and serves commands until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	state := a.auth.Initialize(ctx)
	a.log.Info(ctx, "session restored", "state", state.String())

	if a.auth.CheckDailyReset(ctx) {
		a.println("A new day has started, your counter was reset.")
	}

	a.println("Welcome to HydrateMate CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// StartDailyResetWatcher calls CheckDailyReset every interval until ctx is
// done, so a session left open past midnight starts the new day at zero.
func (a *App) StartDailyResetWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.auth.CheckDailyReset(ctx) {
				a.log.Info(ctx, "guest counter reset by watcher")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) state() services.State {
	return a.auth.State()
}

func (a *App) getStatus() string {
	switch a.auth.State() {
	case services.StateGuest:
		return "guest"
	case services.StateAuthenticated:
		if u := a.auth.User(); u != nil && u.Email != "" {
			return u.Email
		}
		return "signed in"
	default:
		return "anonymous"
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
