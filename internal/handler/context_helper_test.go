package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
)

func TestIDParamRejectsMalformedIDs(t *testing.T) {
	router := newTestRouter()
	router.GET("/things/:id", func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, id)
	})

	w := performRequest(router, http.MethodGet, "/things/5b0c7a8e-2f3d-4c1a-9e6b-0a1b2c3d4e51", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5b0c7a8e-2f3d-4c1a-9e6b-0a1b2c3d4e51", w.Body.String())

	for _, raw := range []string{"xyz", "123", "{5b0c7a8e-2f3d-4c1a-9e6b-0a1b2c3d4e51}", "5b0c7a8e2f3d4c1a9e6b0a1b2c3d4e51"} {
		w := performRequest(router, http.MethodGet, "/things/"+raw, "", nil)
		requireErrorCode(t, w, http.StatusBadRequest, appErrors.ErrValidation.Code)
		env := decodeEnvelope(t, w)
		require.Len(t, env.Error.Fields, 1, raw)
		assert.Equal(t, "id", env.Error.Fields[0].Field)
	}
}

func TestSemesterQueryRejectsMalformedID(t *testing.T) {
	router := newTestRouter()
	router.GET("/scoped", func(c *gin.Context) {
		id, ok := semesterQuery(c)
		if !ok {
			return
		}
		c.String(http.StatusOK, id)
	})

	w := performRequest(router, http.MethodGet, "/scoped?semesterId=abc", "", nil)
	requireErrorCode(t, w, http.StatusBadRequest, appErrors.ErrValidation.Code)
	env := decodeEnvelope(t, w)
	require.Len(t, env.Error.Fields, 1)
	assert.Equal(t, "semesterId", env.Error.Fields[0].Field)

	w = performRequest(router, http.MethodGet, "/scoped?semester_id=5b0c7a8e-2f3d-4c1a-9e6b-0a1b2c3d4e51", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
