package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/hydratemate/internal/client/services"
)

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests use a recording stub.
type execIface interface {
	state() services.State
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Guest(ctx context.Context) error
	Upgrade(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Drink(ctx context.Context, args []string) error
	Today(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	History(ctx context.Context) error
}

const (
	helpAnonymous     = "Available commands: register, login, guest, status, exit"
	helpGuest         = "Available commands: drink <sip|double_sip|glass|ml>, today, profile [weight activity climate], history, upgrade, login, logout, status, exit"
	helpAuthenticated = "Available commands: status, logout, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// The prompt shows statusFn. A failing command prints its error and the
// loop carries on; it ends on "exit", "quit", end of input or when ctx is
// done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "hm (%s)> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			fmt.Fprintln(w, helpFor(a.state()))
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "guest":
			cmdErr = a.Guest(ctx)
		case "upgrade":
			cmdErr = a.Upgrade(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "status":
			cmdErr = a.Status(ctx)
		case "drink", "d":
			cmdErr = a.Drink(ctx, args)
		case "today":
			cmdErr = a.Today(ctx)
		case "profile":
			cmdErr = a.Profile(ctx, args)
		case "history":
			cmdErr = a.History(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", cmdErr)
		}
	}
}

func helpFor(s services.State) string {
	switch s {
	case services.StateGuest:
		return helpGuest
	case services.StateAuthenticated:
		return helpAuthenticated
	default:
		return helpAnonymous
	}
}
