package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-connect-api/internal/models"
	"github.com/noah-isme/school-connect-api/internal/service"
	"github.com/noah-isme/school-connect-api/pkg/response"
)

type calendarService interface {
	List(ctx context.Context, callerID string, filter models.CalendarFilter) ([]models.CalendarEvent, error)
	Get(ctx context.Context, callerID, id string) (*models.CalendarEvent, error)
	Create(ctx context.Context, callerID string, req models.CreateCalendarEventRequest) (*models.CalendarEvent, error)
	Update(ctx context.Context, callerID, id string, req models.UpdateCalendarEventRequest) (*models.CalendarEvent, error)
	Delete(ctx context.Context, callerID, id string) error
	ToggleComplete(ctx context.Context, callerID, id string) (*models.CalendarEvent, error)
}

type calendarExporter interface {
	ExportCalendar(ctx context.Context, callerID string, filter models.CalendarFilter, rawFormat string) (*service.ExportFile, error)
}

// CalendarHandler exposes the caller's personal calendar.
type CalendarHandler struct {
	service  calendarService
	exporter calendarExporter
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(svc calendarService, exporter calendarExporter) *CalendarHandler {
	return &CalendarHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary List events
// @Tags Calendar
// @Produce json
// @Param semesterId query string true "Semester ID"
// @Param from query string false "Window start (RFC3339)"
// @Param to query string false "Window end (RFC3339)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar/events [get]
func (h *CalendarHandler) List(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	filter, ok := calendarFilter(c)
	if !ok {
		return
	}
	events, err := h.service.List(c.Request.Context(), userID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, events)
}

// Export godoc
// @Summary Export events
// @Description Download the caller's events as CSV or PDF
// @Tags Calendar
// @Produce text/csv
// @Produce application/pdf
// @Param semesterId query string true "Semester ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar/events/export [get]
func (h *CalendarHandler) Export(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	filter, ok := calendarFilter(c)
	if !ok {
		return
	}
	file, err := h.exporter.ExportCalendar(c.Request.Context(), userID, filter, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Create godoc
// @Summary Create event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body models.CreateCalendarEventRequest true "Event"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar/events [post]
func (h *CalendarHandler) Create(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	var req models.CreateCalendarEventRequest
	if !bindJSON(c, &req, "invalid event payload") {
		return
	}
	event, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Get godoc
// @Summary Get event
// @Tags Calendar
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar/events/{id} [get]
func (h *CalendarHandler) Get(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	event, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, event)
}

// Update godoc
// @Summary Update event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body models.UpdateCalendarEventRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar/events/{id} [put]
func (h *CalendarHandler) Update(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateCalendarEventRequest
	if !bindJSON(c, &req, "invalid event payload") {
		return
	}
	event, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, event)
}

// Delete godoc
// @Summary Delete event
// @Tags Calendar
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar/events/{id} [delete]
func (h *CalendarHandler) Delete(c *gin.Context) {
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

// Toggle godoc
// @Summary Toggle completion
// @Tags Calendar
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar/events/{id}/toggle [patch]
func (h *CalendarHandler) Toggle(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	event, err := h.service.ToggleComplete(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, event)
}

func calendarFilter(c *gin.Context) (models.CalendarFilter, bool) {
	semesterID, ok := semesterQuery(c)
	if !ok {
		return models.CalendarFilter{}, false
	}
	from, err := timeQuery(c, "from")
	if err != nil {
		response.Error(c, err)
		return models.CalendarFilter{}, false
	}
	to, err := timeQuery(c, "to")
	if err != nil {
		response.Error(c, err)
		return models.CalendarFilter{}, false
	}
	return models.CalendarFilter{SemesterID: semesterID, From: from, To: to}, true
}
