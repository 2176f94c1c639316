package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"devconnector/internal/infrastructure/persistence/memory"
	"devconnector/internal/pkg/apperr"
	"devconnector/internal/pkg/jwt"
)

func newTestService(t *testing.T) (*Service, jwt.Service) {
	t.Helper()
	tokens := jwt.NewHMACService("test-secret", time.Hour)
	return NewService(memory.NewUserRepository(), tokens, zerolog.Nop()), tokens
}

func TestRegisterLoginMe(t *testing.T) {
	svc, tokens := newTestService(t)
	ctx := context.Background()

	tok, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: " Alice@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := tokens.ValidateToken(tok)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("claims: %v", err)
	}

	me, err := svc.Me(ctx, id)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Email != "alice@example.com" || me.PasswordHash != "" {
		t.Fatalf("unexpected identity: %+v", me)
	}
	if !strings.HasPrefix(me.Avatar, "https://www.gravatar.com/avatar/") {
		t.Fatalf("unexpected avatar: %q", me.Avatar)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Register(ctx, in)
	ve, ok := apperr.AsValidation(err)
	if !ok || ve.Fields[0].Msg != "User already exists" {
		t.Fatalf("expected duplicate violation, got %v", err)
	}
}

func TestRegister_AllViolations(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "nope", Password: "123"})
	ve, ok := apperr.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Fields) != 3 {
		t.Fatalf("expected 3 violations, got %+v", ve.Fields)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, in := range []LoginInput{
		{Email: "alice@example.com", Password: "wrong"},
		{Email: "bob@example.com", Password: "secret1"},
	} {
		_, err := svc.Login(ctx, in)
		ve, ok := apperr.AsValidation(err)
		if !ok || ve.Fields[0].Msg != MessageInvalidCredentials {
			t.Fatalf("Login(%s): expected invalid credentials, got %v", in.Email, err)
		}
	}
}

func TestMe_DeletedIdentity(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Me(context.Background(), uuid.New()); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
