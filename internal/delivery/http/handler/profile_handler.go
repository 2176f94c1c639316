package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"devconnector/internal/delivery/http/dto"
	"devconnector/internal/delivery/http/middleware"
	"devconnector/internal/infrastructure/github"
	"devconnector/internal/pkg/apperr"
	"devconnector/internal/pkg/response"
	ucprofile "devconnector/internal/usecase/profile"
)

const (
	MessageNoProfile       = "There is no profile for this user"
	MessageProfileNotFound = "Profile not found"
	MessageNoGitHubProfile = "No Github profile found"
	MessageUserDeleted     = "User deleted"
)

type ProfileUsecase interface {
	Upsert(ctx context.Context, userID uuid.UUID, in ucprofile.UpsertInput) (ucprofile.View, error)
	FetchSelf(ctx context.Context, userID uuid.UUID) (ucprofile.View, error)
	FetchAll(ctx context.Context) ([]ucprofile.View, error)
	FetchByIdentity(ctx context.Context, rawUserID string) (ucprofile.View, error)
	DeleteSelf(ctx context.Context, userID uuid.UUID) error
	PrependExperience(ctx context.Context, userID uuid.UUID, in ucprofile.ExperienceInput) (ucprofile.View, error)
	PrependEducation(ctx context.Context, userID uuid.UUID, in ucprofile.EducationInput) (ucprofile.View, error)
	RemoveExperience(ctx context.Context, userID uuid.UUID, rawEntryID string) (ucprofile.View, error)
	RemoveEducation(ctx context.Context, userID uuid.UUID, rawEntryID string) (ucprofile.View, error)
	GitHubRepos(ctx context.Context, username string) ([]github.Repo, error)
}

type ProfileHandler struct {
	uc ProfileUsecase
}

func NewProfileHandler(uc ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router, authMw fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/", h.FetchAll)
	r.Get("/user/:user_id", h.FetchByIdentity)
	r.Get("/github/:username", h.GitHubRepos)

	r.Get("/me", authMw, h.FetchSelf)
	r.Post("/", authMw, h.Upsert)
	r.Delete("/", authMw, h.DeleteSelf)
	r.Put("/experience", authMw, h.AddExperience)
	r.Delete("/experience/:exp_id", authMw, h.RemoveExperience)
	r.Put("/education", authMw, h.AddEducation)
	r.Delete("/education/:edu_id", authMw, h.RemoveEducation)
}

func (h *ProfileHandler) FetchSelf(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	v, err := h.uc.FetchSelf(c.Context(), userID)
	if err != nil {
		return mapProfileUsecaseError(err, MessageNoProfile)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *ProfileHandler) Upsert(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req ucprofile.UpsertInput
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	v, err := h.uc.Upsert(c.Context(), userID, req)
	if err != nil {
		return mapProfileUsecaseError(err, MessageNoProfile)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *ProfileHandler) FetchAll(c fiber.Ctx) error {
	items, err := h.uc.FetchAll(c.Context())
	if err != nil {
		return mapProfileUsecaseError(err, MessageProfileNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *ProfileHandler) FetchByIdentity(c fiber.Ctx) error {
	v, err := h.uc.FetchByIdentity(c.Context(), c.Params("user_id"))
	if err != nil {
		return mapProfileUsecaseError(err, MessageProfileNotFound)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *ProfileHandler) DeleteSelf(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteSelf(c.Context(), userID); err != nil {
		return mapProfileUsecaseError(err, MessageNoProfile)
	}
	return response.Success(c, fiber.StatusOK, MessageUserDeleted, dto.MessageResponse{Msg: MessageUserDeleted})
}

func (h *ProfileHandler) AddExperience(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req ucprofile.ExperienceInput
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	v, err := h.uc.PrependExperience(c.Context(), userID, req)
	if err != nil {
		return mapProfileUsecaseError(err, MessageNoProfile)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *ProfileHandler) RemoveExperience(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	v, err := h.uc.RemoveExperience(c.Context(), userID, c.Params("exp_id"))
	if err != nil {
		return mapProfileUsecaseError(err, MessageNoProfile)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *ProfileHandler) AddEducation(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req ucprofile.EducationInput
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	v, err := h.uc.PrependEducation(c.Context(), userID, req)
	if err != nil {
		return mapProfileUsecaseError(err, MessageNoProfile)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *ProfileHandler) RemoveEducation(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	v, err := h.uc.RemoveEducation(c.Context(), userID, c.Params("edu_id"))
	if err != nil {
		return mapProfileUsecaseError(err, MessageNoProfile)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, v)
}

func (h *ProfileHandler) GitHubRepos(c fiber.Ctx) error {
	repos, err := h.uc.GitHubRepos(c.Context(), c.Params("username"))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, MessageNoGitHubProfile, nil, err)
		}
		return internalError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, repos)
}

// mapProfileUsecaseError reports a missing profile as 400 with notFoundMsg.
func mapProfileUsecaseError(err error, notFoundMsg string) error {
	if ve, ok := apperr.AsValidation(err); ok {
		return validationFailed(ve)
	}

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return middleware.NewAppError(fiber.StatusBadRequest, notFoundMsg, nil, err)
	case errors.Is(err, apperr.ErrUnauthenticated):
		return middleware.NewAppError(fiber.StatusUnauthorized, middleware.MessageInvalidToken, nil, err)
	default:
		return internalError(err)
	}
}
