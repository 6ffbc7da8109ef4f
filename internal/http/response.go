package http

import (
	"github.com/gin-gonic/gin"
)

// Response envelope shared by every endpoint: {success, message?, data?} on
// the happy path, {success:false, error} otherwise.

type SuccessResp struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(200, SuccessResp{Success: true, Message: message, Data: data})
}

func Fail(c *gin.Context, httpCode int, msg string) {
	c.JSON(httpCode, ErrorResp{Success: false, Error: msg})
}
