package credentials

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jcampos-dev/storefront-backend/pkg/errors"
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

func TestResolveReturnsStoredHash(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
	}
	resolver, err := NewResolver(stubUserLoader{users: map[string]*models.User{"alice": user}})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	credential, err := resolver.Resolve(context.Background(), "alice")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if credential.Username != "alice" {
		t.Fatalf("username = %s, want alice", credential.Username)
	}
	if credential.PasswordHash != user.PasswordHash {
		t.Fatal("expected the stored hash to be returned unchanged")
	}
	if credential.Authorities == nil || len(credential.Authorities) != 0 {
		t.Fatalf("authorities = %v, want empty non-nil slice", credential.Authorities)
	}
}

func TestResolveUnknownUsernameIsUnauthorized(t *testing.T) {
	resolver, err := NewResolver(stubUserLoader{users: map[string]*models.User{}})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), "nobody")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestResolveEmptyUsernameIsUnauthorized(t *testing.T) {
	resolver, err := NewResolver(stubUserLoader{users: map[string]*models.User{}})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}
