package handler

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
)

const testDiscussionID = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"

type discussionServiceMock struct {
	calls   []string
	lastID  string
	replyID string
	err     error
}

func (m *discussionServiceMock) record(op, id string) {
	m.calls = append(m.calls, op)
	m.lastID = id
}

func (m *discussionServiceMock) Create(ctx context.Context, callerID string, req models.CreateDiscussionRequest) (*models.Discussion, error) {
	m.record("create", "")
	return &models.Discussion{ID: testDiscussionID}, m.err
}

func (m *discussionServiceMock) List(ctx context.Context, callerID string, filter models.DiscussionFilter) ([]models.Discussion, *models.Pagination, error) {
	m.record("list", filter.SemesterID)
	return nil, &models.Pagination{Page: 1, PageSize: 20}, m.err
}

func (m *discussionServiceMock) Search(ctx context.Context, callerID string, filter models.DiscussionFilter) ([]models.Discussion, *models.Pagination, error) {
	m.record("search", filter.SemesterID)
	return nil, &models.Pagination{Page: 1, PageSize: 20}, m.err
}

func (m *discussionServiceMock) Get(ctx context.Context, callerID, id string) (*models.Discussion, error) {
	m.record("get", id)
	if m.err != nil {
		return nil, m.err
	}
	return &models.Discussion{ID: id}, nil
}

func (m *discussionServiceMock) Update(ctx context.Context, callerID, id string, req models.UpdateDiscussionRequest) (*models.Discussion, error) {
	m.record("update", id)
	return &models.Discussion{ID: id}, m.err
}

func (m *discussionServiceMock) Delete(ctx context.Context, callerID, id string) error {
	m.record("delete", id)
	return m.err
}

func (m *discussionServiceMock) AddReply(ctx context.Context, callerID, id string, req models.ReplyRequest) (*models.Reply, error) {
	m.record("reply", id)
	if m.err != nil {
		return nil, m.err
	}
	return &models.Reply{}, nil
}

func (m *discussionServiceMock) UpdateReply(ctx context.Context, callerID, id, replyID string, req models.ReplyRequest) (*models.Reply, error) {
	m.record("update-reply", id)
	m.replyID = replyID
	return &models.Reply{}, m.err
}

func (m *discussionServiceMock) DeleteReply(ctx context.Context, callerID, id, replyID string) error {
	m.record("delete-reply", id)
	m.replyID = replyID
	return m.err
}

func (m *discussionServiceMock) TogglePin(ctx context.Context, callerID, id string) (*models.Discussion, error) {
	m.record("pin", id)
	return &models.Discussion{ID: id}, m.err
}

func (m *discussionServiceMock) ToggleClose(ctx context.Context, callerID, id string) (*models.Discussion, error) {
	m.record("close", id)
	return &models.Discussion{ID: id}, m.err
}

func newDiscussionRouter(svc *discussionServiceMock) *gin.Engine {
	h := NewDiscussionHandler(svc)
	router := newTestRouter()
	router.GET("/discussions", h.List)
	router.GET("/discussions/search", h.Search)
	router.GET("/discussions/:id", h.Get)
	router.DELETE("/discussions/:id", h.Delete)
	router.POST("/discussions/:id/replies", h.AddReply)
	router.DELETE("/discussions/:id/replies/:replyId", h.DeleteReply)
	router.PUT("/discussions/:id/pin", h.TogglePin)
	return router
}

func TestDiscussionHandlerRoutesIDs(t *testing.T) {
	svc := &discussionServiceMock{}
	router := newDiscussionRouter(svc)

	w := performRequest(router, http.MethodGet, "/discussions/"+testDiscussionID, "teacher-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, testDiscussionID, svc.lastID)

	replyID := "2b3c4d5e-6f70-4a8b-9cad-1e2f3a4b5c6d"
	w = performRequest(router, http.MethodDelete, "/discussions/"+testDiscussionID+"/replies/"+replyID, "teacher-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, replyID, svc.replyID)

	w = performRequest(router, http.MethodPut, "/discussions/"+testDiscussionID+"/pin", "teacher-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"get", "delete-reply", "pin"}, svc.calls)
}

func TestDiscussionHandlerRejectsMalformedIDs(t *testing.T) {
	svc := &discussionServiceMock{}
	router := newDiscussionRouter(svc)

	for _, req := range []struct {
		method, path, field string
	}{
		{http.MethodGet, "/discussions/xyz", "id"},
		{http.MethodDelete, "/discussions/xyz", "id"},
		{http.MethodPut, "/discussions/xyz/pin", "id"},
		{http.MethodDelete, "/discussions/" + testDiscussionID + "/replies/zzz", "replyId"},
		{http.MethodGet, "/discussions?semesterId=abc", "semesterId"},
		{http.MethodGet, "/discussions/search?semesterId=abc&q=math", "semesterId"},
	} {
		w := performRequest(router, req.method, req.path, "teacher-1", nil)
		requireErrorCode(t, w, http.StatusBadRequest, appErrors.ErrValidation.Code)
		env := decodeEnvelope(t, w)
		require.Len(t, env.Error.Fields, 1, req.path)
		assert.Equal(t, req.field, env.Error.Fields[0].Field, req.path)
	}

	w := performRequest(router, http.MethodPost, "/discussions/xyz/replies", "teacher-1", bytes.NewBufferString(`{"content":"hi"}`))
	requireErrorCode(t, w, http.StatusBadRequest, appErrors.ErrValidation.Code)
	assert.Empty(t, svc.calls)
}

func TestDiscussionHandlerClosedReply(t *testing.T) {
	router := newDiscussionRouter(&discussionServiceMock{err: appErrors.ErrDiscussionClosed})

	w := performRequest(router, http.MethodPost, "/discussions/"+testDiscussionID+"/replies", "parent-1", bytes.NewBufferString(`{"content":"late"}`))
	requireErrorCode(t, w, http.StatusBadRequest, appErrors.ErrDiscussionClosed.Code)
}
