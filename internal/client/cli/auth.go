package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/hydratemate/internal/client/models"
	"github.com/dmitrijs2005/hydratemate/internal/client/services"
	"github.com/dmitrijs2005/hydratemate/internal/common"
)

// getSimpleText and getPassword point to the interactive input helpers and
// can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) readCredentials() (models.Credentials, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return models.Credentials{}, err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return models.Credentials{}, err
	}
	defer common.WipeBytes(password)

	return models.Credentials{Email: email, Password: string(password)}, nil
}

func (a *App) readRegisterData() (models.RegisterData, error) {
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return models.RegisterData{}, err
	}
	creds, err := a.readCredentials()
	if err != nil {
		return models.RegisterData{}, err
	}
	return models.RegisterData{Name: name, Email: creds.Email, Password: creds.Password}, nil
}

// Login prompts for email and password and signs in. Guest data, if any,
// is moved to the account.
func (a *App) Login(ctx context.Context) error {
	creds, err := a.readCredentials()
	if err != nil {
		return err
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	res := a.auth.Login(ctx, creds)
	if !res.Success {
		return res.Err
	}
	a.printf("Welcome back, %s!\n", a.displayName())
	a.reportMigration(res)
	return nil
}

// Register prompts for name, email and password and creates an account.
func (a *App) Register(ctx context.Context) error {
	data, err := a.readRegisterData()
	if err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res := a.auth.Register(ctx, data)
	if !res.Success {
		return res.Err
	}
	a.printf("Account created. Welcome, %s!\n", a.displayName())
	a.reportMigration(res)
	return nil
}

// Upgrade turns the current guest into a registered account. It refuses
// before prompting when no guest session is active.
func (a *App) Upgrade(ctx context.Context) error {
	if !a.auth.IsGuest() {
		return errors.New(services.MsgNotGuest)
	}
	data, err := a.readRegisterData()
	if err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res := a.auth.UpgradeGuestToUser(ctx, data)
	if !res.Success {
		return res.Err
	}
	a.printf("Account created. Welcome, %s!\n", a.displayName())
	a.reportMigration(res)
	return nil
}

func (a *App) Guest(ctx context.Context) error {
	res := a.auth.ContinueAsGuest(ctx)
	if !res.Success {
		return res.Err
	}
	a.println("Guest mode active. Your data stays on this device until you register.")
	return nil
}

// Logout ends the session. Guest data is kept for the next guest session.
func (a *App) Logout(ctx context.Context) error {
	res := a.auth.Logout(ctx)
	if !res.Success {
		return res.Err
	}
	a.println("Logged out.")
	return nil
}

func (a *App) reportMigration(res services.Result) {
	if res.Migrated {
		a.println("Your guest data was transferred to your account.")
	}
}

func (a *App) displayName() string {
	u := a.auth.User()
	switch {
	case u == nil:
		return "there"
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}
