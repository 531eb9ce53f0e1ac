package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
)

const internalMessage = "internal server error"

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "message": msg})
}

// statusFor maps the error kinds every route shares. Anything else is
// answered with the route's fallback status.
func statusFor(err error, fallback int) int {
	switch {
	case customErrors.IsInternal(err):
		return http.StatusInternalServerError
	case customErrors.IsInvalidArgument(err):
		return http.StatusBadRequest
	case customErrors.IsInvalidToken(err):
		return http.StatusUnauthorized
	case customErrors.IsForbidden(err):
		return http.StatusForbidden
	case customErrors.IsInvalidCredentials(err), customErrors.IsProvider(err),
		errors.Is(err, customErrors.ErrUserBlocked), errors.Is(err, customErrors.ErrNewPasswordRequired):
		return http.StatusBadRequest
	default:
		return fallback
	}
}

// handleError writes the failure body. Internal causes are recorded on the
// context for the error handler and never shown to the client.
func handleError(c *gin.Context, err error, fallback int) {
	status := statusFor(err, fallback)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		fail(c, status, internalMessage)
		return
	}
	fail(c, status, err.Error())
}
