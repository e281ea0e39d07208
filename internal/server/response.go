package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the body of a failed request.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps an APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError aborts the handler chain and writes err under code with status.
// A nil err is reported as "unknown error".
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondOK writes payload as a 200 JSON response.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
