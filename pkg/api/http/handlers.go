package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the body of the health probe
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WelcomeMessage is the body of the index endpoint
type WelcomeMessage struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Payloads are constant for the process lifetime.
var (
	healthy = HealthStatus{
		Status:  "healthy",
		Message: "Application is running",
	}
	welcome = WelcomeMessage{
		Message: "Welcome to the micro-services demo!",
	}
	internalError = ErrorResponse{
		Error: ErrorDetail{
			Code:    "INTERNAL",
			Message: "internal server error",
		},
	}
)

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	s.logger.Info("Health check requested")
	c.JSON(http.StatusOK, healthy)
}

// handleIndex handles the welcome endpoint
func (s *Server) handleIndex(c *gin.Context) {
	s.logger.Info("Index endpoint requested")
	c.JSON(http.StatusOK, welcome)
}
