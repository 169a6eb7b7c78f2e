package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hydratemate/internal/client/client"
	"github.com/dmitrijs2005/hydratemate/internal/client/tokeninfo"
)

// Status prints the session mode. For a signed-in user it also shows the
// token expiry and asks the backend whether the session is still valid.
func (a *App) Status(ctx context.Context) error {
	a.printf("Mode: %s\n", a.auth.State())
	if a.auth.IsGuest() || a.auth.Token() == "" {
		return nil
	}

	if u := a.auth.User(); u != nil {
		a.printf("User: %s <%s>\n", u.Name, u.Email)
	}

	token := a.auth.Token()
	info, err := tokeninfo.Inspect(token)
	switch {
	case err != nil:
		a.log.Debug(ctx, "token not inspectable", "error", err)
	case info.ExpiresAt.IsZero():
	case info.Expired(a.now()):
		a.printf("Token expired at %s\n", info.ExpiresAt.Local().Format(time.DateTime))
	default:
		a.printf("Token valid until %s\n", info.ExpiresAt.Local().Format(time.DateTime))
	}

	me, err := a.api.Me(ctx, token)
	if errors.Is(err, client.ErrUnauthorized) {
		a.println("The backend no longer accepts this session. Please log out and log in again.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("backend check failed: %w", err)
	}
	a.printf("Backend confirms account #%d (%s)\n", me.ID, me.Email)
	return nil
}
