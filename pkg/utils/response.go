package utils

import (
	"github.com/gin-gonic/gin"
)

// Response is the envelope used by the service endpoints (ping, payments,
// middleware rejections). Resource routes reply with plain text or the
// bare documents the dashboard expects.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func APIResponse(c *gin.Context, code int, success bool, message string, data any) {
	c.JSON(code, Response{
		Success: success,
		Message: message,
		Data:    data,
	})
}

// AbortResponse writes the envelope and stops the handler chain.
func AbortResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{Success: false, Message: message})
}

// Text replies with a plain text status message.
func Text(c *gin.Context, code int, message string) {
	c.String(code, message)
}
