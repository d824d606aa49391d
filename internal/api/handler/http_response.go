package handler

import (
	"net/http"

	"github.com/dreykodrey/donations-backend/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope every failed request is answered with.
// Successful responses are flat payloads defined per endpoint; the payment
// provider callbacks and the public page depend on their exact shapes.
type ErrorResponse struct {
	Error         *ErrorInfo `json:"error"`
	CorrelationID string     `json:"correlation_id,omitempty"`
}

// RespondWithError sends a JSON error response
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, &ErrorResponse{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondBadRequest sends a 400 Bad Request response with an error
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// RespondInternalError sends a 500 Internal Server Error response
func RespondInternalError(c *gin.Context, code, message string) {
	if code == "" {
		code = "INTERNAL_SERVER_ERROR"
	}
	if message == "" {
		message = "An internal server error occurred"
	}
	RespondWithError(c, http.StatusInternalServerError, code, message)
}

// RespondBadGateway sends a 502 Bad Gateway response for upstream failures
func RespondBadGateway(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadGateway, "UPSTREAM_ERROR", message)
}
