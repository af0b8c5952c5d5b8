package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-connect-api/internal/handler"
	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/middleware/requestid"
)

type tokenTable map[string]*models.User

func (t tokenTable) Resolve(ctx context.Context, token string) (*models.User, *models.JWTClaims, error) {
	user, ok := t[token]
	if !ok {
		return nil, nil, appErrors.ErrInvalidToken
	}
	return user, &models.JWTClaims{UserID: user.ID, Role: user.Role}, nil
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Options{
		Resolver: tokenTable{
			"parent-token": {ID: "parent-1", Role: models.RoleParent, Active: true},
		},
		Probes: handler.NewMetricsHandler(nil, nil),
	})
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouterHealthCarriesRequestID(t *testing.T) {
	w := serve(newTestEngine(), httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestid.Header))
}

func TestRouterProtectedRoutesRequireToken(t *testing.T) {
	router := newTestEngine()

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/semesters", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrUnauthorized.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/contacts", nil)
	req.Header.Set("Authorization", "Bearer unknown")
	w = serve(router, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrInvalidToken.Code)
}

func TestRouterSemesterCreationIsTeacherOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/semesters", nil)
	req.Header.Set("Authorization", "Bearer parent-token")
	w := serve(newTestEngine(), req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrForbidden.Code)
}

func TestRouterCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/messages", nil)
	req.Header.Set("Origin", "https://app.school.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(newTestEngine(), req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
