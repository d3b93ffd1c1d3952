// Package response writes the JSON envelopes shared by every endpoint.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope wraps every successful response.
type Envelope struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
}

// ErrorEnvelope wraps every failed response. Stack is only set in development.
type ErrorEnvelope struct {
	Success    bool     `json:"success"`
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	Stack      string   `json:"stack,omitempty"`
}

// Success writes a success envelope with the given status.
func Success(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{
		Success:    status < http.StatusBadRequest,
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

func OK(c *gin.Context, data interface{}, message string) {
	Success(c, http.StatusOK, data, message)
}

func Created(c *gin.Context, data interface{}, message string) {
	Success(c, http.StatusCreated, data, message)
}

// Error writes an error envelope. errs is never rendered as null.
func Error(c *gin.Context, status int, message string, errs []string, stack string) {
	if errs == nil {
		errs = []string{}
	}
	c.JSON(status, ErrorEnvelope{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Errors:     errs,
		Stack:      stack,
	})
}
