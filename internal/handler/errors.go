package handler

import (
	"errors"
	"net/http"
	"strconv"

	"rentkar/internal/service"
	"rentkar/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to an HTTP status. Validation and
// conflict are kept distinct (400 vs 409) so clients can tell "fix your
// input" from "the request moved on without you".
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var rateErr *service.RateLimitError

	switch {
	case errors.As(err, &rateErr):
		c.Header("Retry-After", strconv.Itoa(int(rateErr.RetryAfter.Seconds())))
		status = http.StatusTooManyRequests
		message = err.Error()
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = err.Error()
	}

	c.JSON(status, response.Error(status, message))
}
