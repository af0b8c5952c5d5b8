package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noah-isme/school-connect-api/internal/middleware"
	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func accountFromContext(c *gin.Context) *models.User {
	value, exists := c.Get(middleware.ContextAccountKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// requireCaller returns the authenticated user id or writes 401.
func requireCaller(c *gin.Context) (string, bool) {
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

// semesterQuery reads the semester scope of list endpoints.
func semesterQuery(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Query("semesterId"))
	if id == "" {
		id = strings.TrimSpace(c.Query("semester_id"))
	}
	if id == "" {
		response.Error(c, appErrors.Validation("semesterId is required", []appErrors.FieldError{{Field: "semesterId", Message: "semesterId is required"}}))
		return "", false
	}
	if !isUUID(id) {
		response.Error(c, invalidID("semesterId"))
		return "", false
	}
	return id, true
}

// idParam reads a UUID path parameter or writes 400.
func idParam(c *gin.Context, key string) (string, bool) {
	id := strings.TrimSpace(c.Param(key))
	if !isUUID(id) {
		response.Error(c, invalidID(key))
		return "", false
	}
	return id, true
}

func isUUID(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil && len(raw) == 36
}

func invalidID(field string) error {
	return appErrors.Validation("invalid "+field, []appErrors.FieldError{{Field: field, Message: field + " must be a valid UUID"}})
}

func pageQuery(c *gin.Context) models.PageQuery {
	var page models.PageQuery
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page.Page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		page.PageSize = v
	}
	return page.Normalize()
}

func timeQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, appErrors.Validation("invalid "+key, []appErrors.FieldError{{Field: key, Message: key + " must be an RFC3339 timestamp"}})
	}
	return &t, nil
}

func versionQuery(c *gin.Context) (int, bool) {
	v, err := strconv.Atoi(c.Query("version"))
	if err != nil || v < 1 {
		response.Error(c, appErrors.Validation("version is required", []appErrors.FieldError{{Field: "version", Message: "version must be a positive integer"}}))
		return 0, false
	}
	return v, true
}
