package auth

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"devconnector/internal/domain/user"
	"devconnector/internal/pkg/apperr"
	"devconnector/internal/pkg/jwt"
)

const MessageInvalidCredentials = "Invalid Credentials"

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var (
	registerMessages = apperr.Messages{
		"name":     "Name is required",
		"email":    "Please include a valid email",
		"password": "Please enter a password with 6 or more characters",
	}
	loginMessages = apperr.Messages{
		"email":    "Please include a valid email",
		"password": "Password is required",
	}
)

// Service issues tokens for registered identities.
type Service struct {
	users  user.Repository
	tokens jwt.Service
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(users user.Repository, tokens jwt.Service, log zerolog.Logger) *Service {
	return &Service{users: users, tokens: tokens, log: log, now: time.Now}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := apperr.Validate(in, registerMessages).OrNil(); err != nil {
		return "", err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return "", userExists()
	} else if !errors.Is(err, user.ErrNotFound) {
		return "", apperr.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Internal(err)
	}

	u := user.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		Avatar:       gravatarURL(in.Email),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return "", userExists()
		}
		return "", apperr.Internal(err)
	}

	s.log.Info().Str("user_id", u.ID.String()).Msg("user registered")
	return s.issue(u.ID)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := apperr.Validate(in, loginMessages).OrNil(); err != nil {
		return "", err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", invalidCredentials()
		}
		return "", apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return "", invalidCredentials()
	}

	return s.issue(u.ID)
}

// Me returns the caller's identity without its password hash.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, apperr.ErrUnauthenticated
		}
		return user.User{}, apperr.Internal(err)
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *Service) issue(userID uuid.UUID) (string, error) {
	tok, err := s.tokens.GenerateToken(userID)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return tok, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func gravatarURL(email string) string {
	sum := md5.Sum([]byte(email))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}

func userExists() error {
	return &apperr.ValidationError{Fields: []apperr.FieldError{{Param: "email", Msg: "User already exists"}}}
}

func invalidCredentials() error {
	return &apperr.ValidationError{Fields: []apperr.FieldError{{Param: "credentials", Msg: MessageInvalidCredentials}}}
}
