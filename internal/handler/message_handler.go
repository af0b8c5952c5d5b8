package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-connect-api/internal/models"
	"github.com/noah-isme/school-connect-api/pkg/response"
)

type messageService interface {
	Send(ctx context.Context, senderID string, req models.SendMessageRequest) (*models.Message, error)
	Conversations(ctx context.Context, callerID, semesterID string) ([]models.Conversation, error)
	Thread(ctx context.Context, callerID, otherID, semesterID string, page models.PageQuery) ([]models.Message, *models.Pagination, error)
	MarkConversationRead(ctx context.Context, callerID, otherID, semesterID string) (*models.ReadReceipt, error)
	UnreadCount(ctx context.Context, callerID, semesterID string) (int, error)
	Contacts(ctx context.Context, callerID, semesterID string) ([]models.UserSummary, error)
}

// MessageHandler exposes direct messaging.
type MessageHandler struct {
	service messageService
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(svc messageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// Send godoc
// @Summary Send direct message
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body models.SendMessageRequest true "Message"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if !bindJSON(c, &req, "invalid message payload") {
		return
	}
	msg, err := h.service.Send(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// Conversations godoc
// @Summary List conversations
// @Description Latest message and unread count per counterpart, including counterparts without messages
// @Tags Messages
// @Produce json
// @Param semesterId query string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/conversations [get]
func (h *MessageHandler) Conversations(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	semesterID, ok := semesterQuery(c)
	if !ok {
		return
	}
	conversations, err := h.service.Conversations(c.Request.Context(), userID, semesterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, conversations)
}

// Thread godoc
// @Summary Conversation thread
// @Description Messages exchanged with one user, newest first
// @Tags Messages
// @Produce json
// @Param userId path string true "Counterpart ID"
// @Param semesterId query string true "Semester ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/conversations/{userId} [get]
func (h *MessageHandler) Thread(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	otherID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	semesterID, ok := semesterQuery(c)
	if !ok {
		return
	}
	messages, pagination, err := h.service.Thread(c.Request.Context(), userID, otherID, semesterID, pageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, messages, pagination)
}

// MarkRead godoc
// @Summary Mark conversation read
// @Tags Messages
// @Produce json
// @Param userId path string true "Counterpart ID"
// @Param semesterId query string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/conversations/{userId}/read [put]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	otherID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	semesterID, ok := semesterQuery(c)
	if !ok {
		return
	}
	receipt, err := h.service.MarkConversationRead(c.Request.Context(), userID, otherID, semesterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, receipt)
}

// UnreadCount godoc
// @Summary Unread message count
// @Tags Messages
// @Produce json
// @Param semesterId query string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/unread-count [get]
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	semesterID, ok := semesterQuery(c)
	if !ok {
		return
	}
	count, err := h.service.UnreadCount(c.Request.Context(), userID, semesterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"unread_count": count})
}

// Contacts godoc
// @Summary Messaging contacts
// @Description Counterparts the caller can see in the semester
// @Tags Messages
// @Produce json
// @Param semesterId query string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/contacts [get]
func (h *MessageHandler) Contacts(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	semesterID, ok := semesterQuery(c)
	if !ok {
		return
	}
	contacts, err := h.service.Contacts(c.Request.Context(), userID, semesterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, contacts)
}
