package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"devconnector/internal/delivery/http/dto"
	"devconnector/internal/delivery/http/middleware"
	"devconnector/internal/domain/post"
	"devconnector/internal/pkg/apperr"
	"devconnector/internal/pkg/response"
	ucpost "devconnector/internal/usecase/post"
)

const (
	MessagePostNotFound    = "Post not found"
	MessageCommentNotFound = "Comment does not exist"
	MessageNotAuthorized   = "User not authorized"
	MessagePostRemoved     = "Post removed"
	MessageCommentRemoved  = "Comment removed"
)

type PostUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, in ucpost.TextInput) (post.Post, error)
	List(ctx context.Context) ([]post.Post, error)
	GetByID(ctx context.Context, rawID string) (post.Post, error)
	DeleteByID(ctx context.Context, userID uuid.UUID, rawID string) error
	AddComment(ctx context.Context, userID uuid.UUID, rawPostID string, in ucpost.TextInput) ([]post.Comment, error)
	RemoveComment(ctx context.Context, userID uuid.UUID, rawPostID, rawCommentID string) ([]post.Comment, error)
}

// PostHandler serves /posts. Every route requires a token; the group is
// mounted behind the auth middleware.
type PostHandler struct {
	uc PostUsecase
}

func NewPostHandler(uc PostUsecase) *PostHandler {
	return &PostHandler{uc: uc}
}

func (h *PostHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/:id", h.GetByID)
	r.Delete("/:id", h.Delete)
	r.Post("/comment/:id", h.AddComment)
	r.Delete("/comment/:id/:comment_id", h.RemoveComment)
}

func (h *PostHandler) Create(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req ucpost.TextInput
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	p, err := h.uc.Create(c.Context(), userID, req)
	if err != nil {
		return mapPostUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *PostHandler) List(c fiber.Ctx) error {
	items, err := h.uc.List(c.Context())
	if err != nil {
		return mapPostUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *PostHandler) GetByID(c fiber.Ctx) error {
	p, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapPostUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *PostHandler) Delete(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteByID(c.Context(), userID, c.Params("id")); err != nil {
		return mapPostUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, MessagePostRemoved, dto.MessageResponse{Msg: MessagePostRemoved})
}

func (h *PostHandler) AddComment(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req ucpost.TextInput
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	comments, err := h.uc.AddComment(c.Context(), userID, c.Params("id"), req)
	if err != nil {
		return mapPostUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, comments)
}

func (h *PostHandler) RemoveComment(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	comments, err := h.uc.RemoveComment(c.Context(), userID, c.Params("id"), c.Params("comment_id"))
	if err != nil {
		return mapPostUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, MessageCommentRemoved, comments)
}

func mapPostUsecaseError(err error) error {
	if ve, ok := apperr.AsValidation(err); ok {
		return validationFailed(ve)
	}

	switch {
	case errors.Is(err, ucpost.ErrCommentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, MessageCommentNotFound, nil, err)
	case errors.Is(err, apperr.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, MessagePostNotFound, nil, err)
	case errors.Is(err, apperr.ErrForbidden):
		return middleware.NewAppError(fiber.StatusUnauthorized, MessageNotAuthorized, nil, err)
	case errors.Is(err, apperr.ErrUnauthenticated):
		return middleware.NewAppError(fiber.StatusUnauthorized, middleware.MessageInvalidToken, nil, err)
	default:
		return internalError(err)
	}
}
