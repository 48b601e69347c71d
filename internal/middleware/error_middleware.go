package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

// ErrorResponse is the JSON body of a failed live request
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps an application error to its HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrActionDisabled), errors.Is(err, apperrors.ErrActionUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrBackendUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message is the user-facing text for an error; internal details stay in the logs
func Message(err error) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	switch StatusFor(err) {
	case http.StatusNotFound:
		return "The page or record you were looking for does not exist."
	case http.StatusForbidden:
		return "You do not have access to this page."
	case http.StatusConflict:
		return "The request conflicts with the current state. Please refresh and try again."
	case http.StatusBadGateway:
		return "The class management service is unavailable. Please try again later."
	case http.StatusInternalServerError:
		return "Something went wrong. Please try again."
	default:
		return "The request could not be processed."
	}
}

// ErrorHandler turns the last error attached to the context into a response
// when the handler did not write one. Live requests get JSON; page requests
// are handed to renderPage.
func ErrorHandler(renderPage func(c *gin.Context, status int, err error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		status := StatusFor(last.Err)
		if IsLive(c) || renderPage == nil {
			c.JSON(status, ErrorResponse{Error: Message(last.Err)})
			return
		}
		renderPage(c, status, last.Err)
	}
}

// IsLive reports whether the request came from the page script rather than a
// full navigation
func IsLive(c *gin.Context) bool {
	return c.GetHeader(liveHeader) == "1"
}
