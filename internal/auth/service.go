package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jcampos-dev/storefront-backend/internal/credentials"
	"github.com/jcampos-dev/storefront-backend/internal/users"
	pkgAuth "github.com/jcampos-dev/storefront-backend/pkg/auth"
	"github.com/jcampos-dev/storefront-backend/pkg/auth/session"
	"github.com/jcampos-dev/storefront-backend/pkg/config"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jcampos-dev/storefront-backend/pkg/errors"
	"github.com/jcampos-dev/storefront-backend/pkg/security"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type credentialResolver interface {
	Resolve(ctx context.Context, username string) (*credentials.Credential, error)
}

type userLoader interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Resolver       credentialResolver
	Users          userLoader
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

type service struct {
	resolver credentialResolver
	users    userLoader
	session  sessionManager
	jwtCfg   config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "credential resolver required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user loader required")
	}
	if params.SessionManager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager required")
	}
	return &service{
		resolver: params.Resolver,
		users:    params.Users,
		session:  params.SessionManager,
		jwtCfg:   params.JWTConfig,
	}, nil
}

// Login resolves the stored credential, verifies the password against its
// hash, and issues an access/refresh token pair. Failures surface as a
// uniform unauthorized error.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	credential, err := s.resolver.Resolve(ctx, username)
	if err != nil {
		return nil, err
	}

	valid, err := security.VerifyPassword(req.Password, credential.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByUsername(ctx, credential.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	userID, err := uuid.Parse(credential.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse user id")
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:   userID,
		Username: credential.Username,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}
