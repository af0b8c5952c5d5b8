package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/response"
)

type semesterService interface {
	Create(ctx context.Context, caller *models.User, req models.CreateSemesterRequest) (*models.SemesterView, error)
	List(ctx context.Context, callerID string) ([]models.SemesterView, error)
	Current(ctx context.Context, callerID string) ([]models.SemesterView, error)
	Get(ctx context.Context, callerID, id string) (*models.SemesterView, error)
	Update(ctx context.Context, callerID, id string, req models.UpdateSemesterRequest) (*models.SemesterView, error)
	AddParticipant(ctx context.Context, callerID, id string, req models.AddParticipantRequest) (*models.SemesterView, error)
	RemoveParticipant(ctx context.Context, callerID, id, userID string, version int) (*models.SemesterView, error)
	AddClass(ctx context.Context, callerID, id string, req models.ClassRequest) (*models.SemesterView, error)
	UpdateClass(ctx context.Context, callerID, id, classID string, req models.ClassRequest) (*models.SemesterView, error)
	RemoveClass(ctx context.Context, callerID, id, classID string, version int) (*models.SemesterView, error)
}

// SemesterHandler exposes the enrollment registry.
type SemesterHandler struct {
	service semesterService
}

// NewSemesterHandler constructs the handler.
func NewSemesterHandler(svc semesterService) *SemesterHandler {
	return &SemesterHandler{service: svc}
}

// Create godoc
// @Summary Create semester
// @Description Teacher accounts open a semester and become its first participant
// @Tags Semesters
// @Accept json
// @Produce json
// @Param payload body models.CreateSemesterRequest true "Semester payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /semesters [post]
func (h *SemesterHandler) Create(c *gin.Context) {
	caller := accountFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.CreateSemesterRequest
	if !bindJSON(c, &req, "invalid semester payload") {
		return
	}
	semester, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, semester)
}

// List godoc
// @Summary List semesters
// @Description Semesters the caller participates in
// @Tags Semesters
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /semesters [get]
func (h *SemesterHandler) List(c *gin.Context) {
	h.list(c, h.service.List)
}

// Current godoc
// @Summary Current semesters
// @Description Active semesters of the caller whose date range contains today
// @Tags Semesters
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /semesters/current [get]
func (h *SemesterHandler) Current(c *gin.Context) {
	h.list(c, h.service.Current)
}

func (h *SemesterHandler) list(c *gin.Context, fn func(context.Context, string) ([]models.SemesterView, error)) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	semesters, err := fn(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, semesters)
}

// Get godoc
// @Summary Get semester
// @Tags Semesters
// @Produce json
// @Param id path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /semesters/{id} [get]
func (h *SemesterHandler) Get(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	semester, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, semester)
}

// Update godoc
// @Summary Update semester metadata
// @Tags Semesters
// @Accept json
// @Produce json
// @Param id path string true "Semester ID"
// @Param payload body models.UpdateSemesterRequest true "Semester changes"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /semesters/{id} [put]
func (h *SemesterHandler) Update(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateSemesterRequest
	if !bindJSON(c, &req, "invalid semester payload") {
		return
	}
	semester, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, semester)
}

// AddParticipant godoc
// @Summary Enroll participant
// @Tags Semesters
// @Accept json
// @Produce json
// @Param id path string true "Semester ID"
// @Param payload body models.AddParticipantRequest true "Participant"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /semesters/{id}/participants [post]
func (h *SemesterHandler) AddParticipant(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.AddParticipantRequest
	if !bindJSON(c, &req, "invalid participant payload") {
		return
	}
	semester, err := h.service.AddParticipant(c.Request.Context(), userID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, semester)
}

// RemoveParticipant godoc
// @Summary Remove participant
// @Tags Semesters
// @Produce json
// @Param id path string true "Semester ID"
// @Param userId path string true "User ID"
// @Param version query int true "Current semester version"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /semesters/{id}/participants/{userId} [delete]
func (h *SemesterHandler) RemoveParticipant(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	participantID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	version, ok := versionQuery(c)
	if !ok {
		return
	}
	semester, err := h.service.RemoveParticipant(c.Request.Context(), userID, id, participantID, version)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, semester)
}

// AddClass godoc
// @Summary Add class
// @Tags Semesters
// @Accept json
// @Produce json
// @Param id path string true "Semester ID"
// @Param payload body models.ClassRequest true "Class"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /semesters/{id}/classes [post]
func (h *SemesterHandler) AddClass(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.ClassRequest
	if !bindJSON(c, &req, "invalid class payload") {
		return
	}
	semester, err := h.service.AddClass(c.Request.Context(), userID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, semester)
}

// UpdateClass godoc
// @Summary Replace class
// @Tags Semesters
// @Accept json
// @Produce json
// @Param id path string true "Semester ID"
// @Param classId path string true "Class ID"
// @Param payload body models.ClassRequest true "Class"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /semesters/{id}/classes/{classId} [put]
func (h *SemesterHandler) UpdateClass(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	classID, ok := idParam(c, "classId")
	if !ok {
		return
	}
	var req models.ClassRequest
	if !bindJSON(c, &req, "invalid class payload") {
		return
	}
	semester, err := h.service.UpdateClass(c.Request.Context(), userID, id, classID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, semester)
}

// RemoveClass godoc
// @Summary Remove class
// @Tags Semesters
// @Produce json
// @Param id path string true "Semester ID"
// @Param classId path string true "Class ID"
// @Param version query int true "Current semester version"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /semesters/{id}/classes/{classId} [delete]
func (h *SemesterHandler) RemoveClass(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	classID, ok := idParam(c, "classId")
	if !ok {
		return
	}
	version, ok := versionQuery(c)
	if !ok {
		return
	}
	semester, err := h.service.RemoveClass(c.Request.Context(), userID, id, classID, version)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, semester)
}
