package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-connect-api/internal/models"
	"github.com/noah-isme/school-connect-api/pkg/response"
)

type discussionService interface {
	Create(ctx context.Context, callerID string, req models.CreateDiscussionRequest) (*models.Discussion, error)
	List(ctx context.Context, callerID string, filter models.DiscussionFilter) ([]models.Discussion, *models.Pagination, error)
	Search(ctx context.Context, callerID string, filter models.DiscussionFilter) ([]models.Discussion, *models.Pagination, error)
	Get(ctx context.Context, callerID, id string) (*models.Discussion, error)
	Update(ctx context.Context, callerID, id string, req models.UpdateDiscussionRequest) (*models.Discussion, error)
	Delete(ctx context.Context, callerID, id string) error
	AddReply(ctx context.Context, callerID, id string, req models.ReplyRequest) (*models.Reply, error)
	UpdateReply(ctx context.Context, callerID, id, replyID string, req models.ReplyRequest) (*models.Reply, error)
	DeleteReply(ctx context.Context, callerID, id, replyID string) error
	TogglePin(ctx context.Context, callerID, id string) (*models.Discussion, error)
	ToggleClose(ctx context.Context, callerID, id string) (*models.Discussion, error)
}

// DiscussionHandler exposes the discussion board.
type DiscussionHandler struct {
	service discussionService
}

// NewDiscussionHandler constructs the handler.
func NewDiscussionHandler(svc discussionService) *DiscussionHandler {
	return &DiscussionHandler{service: svc}
}

// Create godoc
// @Summary Start discussion
// @Tags Discussions
// @Accept json
// @Produce json
// @Param payload body models.CreateDiscussionRequest true "Discussion"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /discussions [post]
func (h *DiscussionHandler) Create(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	var req models.CreateDiscussionRequest
	if !bindJSON(c, &req, "invalid discussion payload") {
		return
	}
	discussion, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, discussion)
}

// List godoc
// @Summary List discussions
// @Description Pinned first, then most recent activity
// @Tags Discussions
// @Produce json
// @Param semesterId query string true "Semester ID"
// @Param category query string false "Category filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /discussions [get]
func (h *DiscussionHandler) List(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	semesterID, ok := semesterQuery(c)
	if !ok {
		return
	}
	filter := models.DiscussionFilter{
		SemesterID: semesterID,
		Category:   models.DiscussionCategory(strings.ToLower(strings.TrimSpace(c.Query("category")))),
		PageQuery:  pageQuery(c),
	}
	discussions, pagination, err := h.service.List(c.Request.Context(), userID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, discussions, pagination)
}

// Search godoc
// @Summary Search discussions
// @Tags Discussions
// @Produce json
// @Param q query string true "Query, at least 2 characters"
// @Param semesterId query string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /discussions/search [get]
func (h *DiscussionHandler) Search(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	semesterID, ok := semesterQuery(c)
	if !ok {
		return
	}
	filter := models.DiscussionFilter{SemesterID: semesterID, Query: c.Query("q"), PageQuery: pageQuery(c)}
	discussions, pagination, err := h.service.Search(c.Request.Context(), userID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, discussions, pagination)
}

// Get godoc
// @Summary Get discussion
// @Description Returns the discussion with its replies and counts a view
// @Tags Discussions
// @Produce json
// @Param id path string true "Discussion ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /discussions/{id} [get]
func (h *DiscussionHandler) Get(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	discussion, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, discussion)
}

// Update godoc
// @Summary Edit discussion
// @Tags Discussions
// @Accept json
// @Produce json
// @Param id path string true "Discussion ID"
// @Param payload body models.UpdateDiscussionRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /discussions/{id} [put]
func (h *DiscussionHandler) Update(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateDiscussionRequest
	if !bindJSON(c, &req, "invalid discussion payload") {
		return
	}
	discussion, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, discussion)
}

// Delete godoc
// @Summary Delete discussion
// @Tags Discussions
// @Param id path string true "Discussion ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /discussions/{id} [delete]
func (h *DiscussionHandler) Delete(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddReply godoc
// @Summary Reply to discussion
// @Tags Discussions
// @Accept json
// @Produce json
// @Param id path string true "Discussion ID"
// @Param payload body models.ReplyRequest true "Reply"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /discussions/{id}/replies [post]
func (h *DiscussionHandler) AddReply(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.ReplyRequest
	if !bindJSON(c, &req, "invalid reply payload") {
		return
	}
	reply, err := h.service.AddReply(c.Request.Context(), userID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reply)
}

// UpdateReply godoc
// @Summary Edit reply
// @Tags Discussions
// @Accept json
// @Produce json
// @Param id path string true "Discussion ID"
// @Param replyId path string true "Reply ID"
// @Param payload body models.ReplyRequest true "Reply"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /discussions/{id}/replies/{replyId} [put]
func (h *DiscussionHandler) UpdateReply(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	replyID, ok := idParam(c, "replyId")
	if !ok {
		return
	}
	var req models.ReplyRequest
	if !bindJSON(c, &req, "invalid reply payload") {
		return
	}
	reply, err := h.service.UpdateReply(c.Request.Context(), userID, id, replyID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reply)
}

// DeleteReply godoc
// @Summary Delete reply
// @Tags Discussions
// @Param id path string true "Discussion ID"
// @Param replyId path string true "Reply ID"
// @Success 204
// @Security BearerAuth
// @Router /discussions/{id}/replies/{replyId} [delete]
func (h *DiscussionHandler) DeleteReply(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	replyID, ok := idParam(c, "replyId")
	if !ok {
		return
	}
	if err := h.service.DeleteReply(c.Request.Context(), userID, id, replyID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// TogglePin godoc
// @Summary Pin or unpin discussion
// @Tags Discussions
// @Produce json
// @Param id path string true "Discussion ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /discussions/{id}/pin [put]
func (h *DiscussionHandler) TogglePin(c *gin.Context) {
	h.toggle(c, h.service.TogglePin)
}

// ToggleClose godoc
// @Summary Close or reopen discussion
// @Tags Discussions
// @Produce json
// @Param id path string true "Discussion ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /discussions/{id}/close [put]
func (h *DiscussionHandler) ToggleClose(c *gin.Context) {
	h.toggle(c, h.service.ToggleClose)
}

func (h *DiscussionHandler) toggle(c *gin.Context, fn func(context.Context, string, string) (*models.Discussion, error)) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	discussion, err := fn(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, discussion)
}
