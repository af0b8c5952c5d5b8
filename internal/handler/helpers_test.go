package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-connect-api/internal/middleware"
	"github.com/noah-isme/school-connect-api/internal/models"
)

// newTestRouter authenticates requests carrying X-Test-User as that user.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			role := models.UserRole(c.GetHeader("X-Test-Role"))
			if role == "" {
				role = models.RoleTeacher
			}
			c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: id, Role: role})
			c.Set(middleware.ContextAccountKey, &models.User{ID: id, Role: role, Active: true})
		}
		c.Next()
	})
	return router
}

func performRequest(router *gin.Engine, method, path, user string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelopeBody struct {
	Data       json.RawMessage    `json:"data"`
	Error      *errorBody         `json:"error"`
	Pagination *models.Pagination `json:"pagination"`
}

type errorBody struct {
	Code   string `json:"code"`
	Status int    `json:"status"`
	Fields []struct {
		Field string `json:"field"`
	} `json:"fields"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var env envelopeBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func requireErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
}

