package handlers

import (
	"errors"

	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/apperr"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the response envelope. Unexpected
// errors come back as a generic failure with the detail suppressed; the
// service layer already logged what it needed to.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrUnknownTrain),
		errors.Is(err, apperr.ErrUnknownCoach):
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		utils.Error(c, utils.NOT_FOUND, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		utils.Error(c, utils.CONFLICT, err.Error())
	case errors.Is(err, apperr.ErrAuth):
		utils.Error(c, utils.UNAUTHORIZED, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		utils.Error(c, utils.FORBIDDEN, err.Error())
	default:
		utils.Error(c, utils.ERROR, "an internal error occurred")
	}
}

// actorID returns the authenticated user id from the context, when present,
// for audit entries.
func actorID(c *gin.Context) *uint {
	value, exists := c.Get("userID")
	if !exists {
		return nil
	}
	id, ok := value.(uint)
	if !ok {
		return nil
	}
	return &id
}
