package ports

import (
	"context"

	"github.com/dockside/truck-management/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	// Login verifies credentials and returns a signed bearer token carrying
	// the username and role claims, plus the authenticated user.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
