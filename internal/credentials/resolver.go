package credentials

import (
	"context"
	"errors"

	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jcampos-dev/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

type userLoader interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Credential is the read-only identity view handed to the authenticator.
// It never exposes the raw password, only the stored hash.
type Credential struct {
	UserID       string
	Username     string
	PasswordHash string
	Authorities  []string
}

// Resolver maps usernames to stored credentials during login.
type Resolver struct {
	users userLoader
}

// NewResolver builds a credential resolver over the user store.
func NewResolver(users userLoader) (*Resolver, error) {
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user loader required")
	}
	return &Resolver{users: users}, nil
}

// Resolve returns the credential for the username. A missing account is
// reported as an authentication failure rather than a lookup miss so the
// response does not reveal which usernames exist. Resolve never mutates
// account state.
func (r *Resolver) Resolve(ctx context.Context, username string) (*Credential, error) {
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	user, err := r.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve credential")
	}

	return &Credential{
		UserID:       user.ID.String(),
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Authorities:  []string{},
	}, nil
}
