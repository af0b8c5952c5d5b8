package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", handler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	body := map[string]json.RawMessage{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestOKWritesDataOnly(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { OK(c, gin.H{"unread_count": 3}) })

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"unread_count":3}`, string(body["data"]))
	assert.NotContains(t, body, "pagination")
	assert.NotContains(t, body, "error")
	assert.NotContains(t, body, "meta")
}

func TestPageIncludesPagination(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Page(c, []string{"a", "b"}, &models.Pagination{Page: 2, PageSize: 2, TotalCount: 5})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["a","b"]`, string(body["data"]))
	assert.JSONEq(t, `{"page":2,"page_size":2,"total_count":5}`, string(body["pagination"]))
}

func TestCreatedAndNoContent(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { Created(c, gin.H{"id": "x"}) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"x"}`, string(body["data"]))

	w, _ = serve(t, func(c *gin.Context) { NoContent(c) })
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestErrorUsesStatusFromError(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { Error(c, appErrors.ErrSemesterNotFound) })

	assert.Equal(t, appErrors.ErrSemesterNotFound.Status, w.Code)
	assert.NotContains(t, body, "data")
	var apiErr struct{ Code string }
	require.NoError(t, json.Unmarshal(body["error"], &apiErr))
	assert.Equal(t, appErrors.ErrSemesterNotFound.Code, apiErr.Code)
}

func TestErrorRecordsInternalCause(t *testing.T) {
	var recorded []*gin.Error
	cause := errors.New("db down")
	w, body := serve(t, func(c *gin.Context) {
		Error(c, cause)
		recorded = c.Errors
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Len(t, recorded, 1)
	assert.ErrorIs(t, recorded[0].Err, cause)
	assert.NotContains(t, string(body["error"]), "db down")
}

func TestAbortStopsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reached := false
	r.GET("/", func(c *gin.Context) { Abort(c, appErrors.ErrForbidden) }, func(c *gin.Context) { reached = true })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, reached)
}
