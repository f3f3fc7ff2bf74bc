package response

import "github.com/gin-gonic/gin"

// Envelope is the body of every JSON reply. Exactly one of Data or Error
// is set.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, failure(code, message, nil))
}

// ErrorWithDetails is Error plus a machine-readable payload, usually the
// per-field validation messages.
func ErrorWithDetails(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, failure(code, message, details))
}

// Abort writes the error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, failure(code, message, nil))
}

func failure(code, message string, details any) Envelope {
	return Envelope{Error: &ErrorBody{Code: code, Message: message, Details: details}}
}
