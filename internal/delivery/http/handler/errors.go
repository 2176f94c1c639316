package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"devconnector/internal/delivery/http/middleware"
	"devconnector/internal/pkg/apperr"
	"devconnector/internal/pkg/response"
)

const messageBadRequest = "Bad request"

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, messageBadRequest, nil, err)
}

func internalError(err error) error {
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}

// validationFailed reports every violated field at once.
func validationFailed(ve *apperr.ValidationError) error {
	fields := make([]response.FieldError, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, response.FieldError{Param: f.Param, Msg: f.Msg})
	}
	return middleware.NewAppError(fiber.StatusBadRequest, response.MessageValidationFailed, response.ValidationData{Errors: fields}, ve)
}

func callerID(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, middleware.MessageNoToken, nil, nil)
	}
	return id, nil
}
