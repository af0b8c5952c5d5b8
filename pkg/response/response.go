// Package response writes the JSON envelope shared by every endpoint.
//
// A success body is {"data": ...}; list endpoints that page their results add
// {"pagination": {"page", "page_size", "total_count"}}. A failure body is
// {"error": {"code", "message", "status", "fields"}} with the HTTP status taken from the error.
// Bodies carry per-user inbox and roster data, so none of them may be cached.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
)

// Envelope is the body of every JSON response. Exactly one of Data and Error is set.
type Envelope struct {
	Data       interface{}        `json:"data,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
	Error      *appErrors.Error   `json:"error,omitempty"`
}

// OK responds 200 with data.
func OK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, Envelope{Data: data})
}

// Page responds 200 with one page of a list and its position.
func Page(c *gin.Context, data interface{}, pagination *models.Pagination) {
	write(c, http.StatusOK, Envelope{Data: data, Pagination: pagination})
}

// Created responds 201 with the stored resource.
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, Envelope{Data: data})
}

// Error maps err to its API error and writes it.
// Server-side failures are attached to the gin context so the access logger records the cause.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	write(c, appErr.Status, Envelope{Error: appErr})
}

// Abort writes the error and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// NoContent responds 204 with no body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func write(c *gin.Context, status int, body Envelope) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, body)
}
