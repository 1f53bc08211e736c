package response

import (
	"github.com/gin-gonic/gin"
)

// The dashboard API has no response envelope: success bodies are the DTOs
// themselves, errors are {"error": message, "issues": {field: detail}}.
// Request tracing travels in the X-Request-ID header instead.

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Issues map[string]string `json:"issues,omitempty"`
}

// OK sends a 200 response with the body as-is.
func OK(c *gin.Context, body interface{}) {
	c.JSON(200, body)
}

// JSON sends a success response with the given status and body as-is.
func JSON(c *gin.Context, statusCode int, body interface{}) {
	c.JSON(statusCode, body)
}

// Fail sends an error response with no field-level details.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, ErrorBody{Error: GetMessage(code)})
}

// FailWithIssues sends an error response carrying a machine-readable issue
// list, keyed by wire field name.
func FailWithIssues(c *gin.Context, statusCode int, code ErrCode, issues map[string]string) {
	c.JSON(statusCode, ErrorBody{Error: GetMessage(code), Issues: issues})
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{Error: GetMessage(code)})
}
