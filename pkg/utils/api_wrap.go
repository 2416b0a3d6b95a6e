package utils

import (
	"errors"
	"net/http"

	"aitravel/pkg/logger"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondSuccessWithStatus(c, http.StatusOK, data, message)
}

func RespondSuccessWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Success: true,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Success: false,
		Error:   message,
		TraceID: c.GetString("trace_id"),
	})
}

// StatusForError maps service sentinels onto HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrWeakPassword),
		errors.Is(err, ErrPasswordTooLong),
		errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrInvalidCard),
		errors.Is(err, ErrInvalidExpiry),
		errors.Is(err, ErrCardExpired),
		errors.Is(err, ErrNothingToCharge):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotAuthenticated),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrProviderAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrTripNotFound),
		errors.Is(err, ErrDayNotFound),
		errors.Is(err, ErrActivityNotFound),
		errors.Is(err, ErrPaymentMethodNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrProviderRateLimit):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func HandleServiceError(c *gin.Context, err error) {
	code := StatusForError(err)

	switch {
	case errors.Is(err, ErrNotAuthenticated):
		RespondError(c, code, "Not authenticated")
	case code == http.StatusInternalServerError:
		logger.Log.Errorw("request failed",
			"trace_id", c.GetString("trace_id"),
			"path", c.FullPath(),
			"error", err,
		)
		RespondError(c, code, "Internal server error")
	default:
		RespondError(c, code, err.Error())
	}
}
