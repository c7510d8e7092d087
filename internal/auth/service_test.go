package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jcampos-dev/storefront-backend/internal/credentials"
	pkgAuth "github.com/jcampos-dev/storefront-backend/pkg/auth"
	"github.com/jcampos-dev/storefront-backend/pkg/config"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jcampos-dev/storefront-backend/pkg/errors"
	"github.com/jcampos-dev/storefront-backend/pkg/security"
	"gorm.io/gorm"
)

type stubUserLoader struct {
	users map[string]*models.User
}

func (s stubUserLoader) FindByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type stubSessionManager struct {
	refreshToken string
	accessIDs    []string
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	s.accessIDs = append(s.accessIDs, accessID)
	return s.refreshToken, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 30,
	}
}

func buildTestService(t *testing.T, user *models.User) (Service, *stubSessionManager) {
	t.Helper()

	loader := stubUserLoader{users: map[string]*models.User{}}
	if user != nil {
		loader.users[user.Username] = user
	}
	resolver, err := credentials.NewResolver(loader)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		Resolver:       resolver,
		Users:          loader,
		SessionManager: sessionMgr,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, sessionMgr
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestServiceLoginIssuesTokens(t *testing.T) {
	password := "shopper-secret"
	user := &models.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: mustHashPassword(t, password),
	}

	svc, sessionMgr := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("username claim = %s, want alice", claims.Username)
	}
	if claims.UserID != user.ID {
		t.Fatalf("user id claim = %s, want %s", claims.UserID, user.ID)
	}
	if resp.RefreshToken != "refresh-token" {
		t.Fatalf("refresh token = %s, want stub value", resp.RefreshToken)
	}
	if len(sessionMgr.accessIDs) != 1 || sessionMgr.accessIDs[0] != claims.ID {
		t.Fatalf("session keyed by %v, want jti %s", sessionMgr.accessIDs, claims.ID)
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Fatalf("expected user payload, got %+v", resp.User)
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: mustHashPassword(t, "right-password"),
	}
	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginUnknownUser(t *testing.T) {
	svc, _ := buildTestService(t, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Username: "nobody",
		Password: "whatever-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginEmptyCredentials(t *testing.T) {
	svc, _ := buildTestService(t, nil)

	_, err := svc.Login(context.Background(), LoginRequest{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}
