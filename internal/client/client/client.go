package client

import (
	"context"

	"github.com/dmitrijs2005/hydratemate/internal/client/models"
)

// Client is the backend API contract used by the auth service.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	MigrateGuestData(ctx context.Context, token string, snapshot *models.GuestSnapshot) error
	Me(ctx context.Context, token string) (*models.User, error)
}
