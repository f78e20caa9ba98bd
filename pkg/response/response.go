package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/society-admin/backend/internal/apperr"
)

// Body is the envelope for status and error responses.
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	// Partial marks a multi-step operation that was only partly applied.
	Partial bool `json:"partial,omitempty"`
}

// OK sends a 200 JSON response with data as the whole body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Success sends 200 {"success":true} merged with extra fields.
func Success(c *gin.Context, extra gin.H) {
	body := gin.H{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Message sends 200 with a user-facing message.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Body{Success: true, Message: msg})
}

// Error sends the status mapped from err's kind with err's message.
func Error(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), Body{Success: false, Error: err.Error(), Partial: apperr.IsPartialFailure(err)})
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, err string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Error: err})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}
