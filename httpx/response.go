// Package httpx carries the uniform response envelope the API speaks.
package httpx

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/ghassen-kharrat/barbachli-sub001/apperrors"
)

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK writes a success envelope.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Message writes a success envelope with a message and no data.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: true, Message: message})
}

// Error maps a service error to its status code. Internal errors are logged
// and surfaced opaquely so storage details never leak to clients.
func Error(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if !apperrors.IsUserFacing(err) {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = apperrors.ErrInternal.Error()
	}
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}

// Abort writes a failure envelope with an explicit status, for middleware.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
