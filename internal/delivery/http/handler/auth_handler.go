package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"devconnector/internal/delivery/http/dto"
	"devconnector/internal/delivery/http/middleware"
	"devconnector/internal/domain/user"
	"devconnector/internal/pkg/apperr"
	"devconnector/internal/pkg/response"
	ucauth "devconnector/internal/usecase/auth"
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (string, error)
	Login(ctx context.Context, in ucauth.LoginInput) (string, error)
	Me(ctx context.Context, userID uuid.UUID) (user.User, error)
}

type AuthHandler struct {
	uc AuthUsecase
}

func NewAuthHandler(uc AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router, authMw fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/users", h.Register)
	r.Post("/auth", h.Login)
	r.Get("/auth", authMw, h.Me)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req ucauth.RegisterInput
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	tok, err := h.uc.Register(c.Context(), req)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.TokenResponse{Token: tok})
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req ucauth.LoginInput
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	tok, err := h.uc.Login(c.Context(), req)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.TokenResponse{Token: tok})
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	u, err := h.uc.Me(c.Context(), userID)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewIdentityResponse(u))
}

func mapAuthUsecaseError(err error) error {
	if ve, ok := apperr.AsValidation(err); ok {
		return validationFailed(ve)
	}

	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return middleware.NewAppError(fiber.StatusUnauthorized, middleware.MessageInvalidToken, nil, err)
	default:
		return internalError(err)
	}
}
