package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/validation"
)

type calendarRepository interface {
	List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, error)
	FindOwned(ctx context.Context, id, ownerID string) (*models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
	Update(ctx context.Context, event *models.CalendarEvent) error
	Delete(ctx context.Context, id, ownerID string) error
	ToggleComplete(ctx context.Context, id, ownerID string) (*models.CalendarEvent, error)
}

// CalendarService manages the caller's own calendar events.
// Events of other owners are reported exactly like missing events.
type CalendarService struct {
	repo      calendarRepository
	semesters semesterReader
	validator *validation.Validator
	logger    *zap.Logger
}

// NewCalendarService constructs the service.
func NewCalendarService(repo calendarRepository, semesters semesterReader, validate *validation.Validator, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{repo: repo, semesters: semesters, validator: validate, logger: logger}
}

// List returns the caller's events in a semester, optionally limited to a window.
func (s *CalendarService) List(ctx context.Context, callerID string, filter models.CalendarFilter) ([]models.CalendarEvent, error) {
	if _, _, err := requireParticipant(ctx, s.semesters, filter.SemesterID, callerID); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimeRange, "to must not be before from")
	}
	filter.OwnerID = callerID
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list events")
	}
	return events, nil
}

// Get returns an event owned by the caller.
func (s *CalendarService) Get(ctx context.Context, callerID, id string) (*models.CalendarEvent, error) {
	event, err := s.repo.FindOwned(ctx, id, callerID)
	if err != nil {
		return nil, mapEventError(err, "failed to load event")
	}
	return event, nil
}

// Create schedules an event in a semester the caller participates in.
func (s *CalendarService) Create(ctx context.Context, callerID string, req models.CreateCalendarEventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req, "invalid event payload"); err != nil {
		return nil, err
	}
	if err := checkTimeRange(req.Start, req.End); err != nil {
		return nil, err
	}
	if _, _, err := requireParticipant(ctx, s.semesters, req.SemesterID, callerID); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	eventType := req.Type
	if eventType == "" {
		eventType = models.EventTypeTodo
	}
	event := &models.CalendarEvent{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartAt:     req.Start.UTC(),
		EndAt:       req.End.UTC(),
		Priority:    priority,
		Type:        eventType,
		Link:        optional(req.Link),
		LinkLabel:   optional(req.LinkLabel),
		SemesterID:  req.SemesterID,
		CreatedBy:   callerID,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Internal(err, "failed to create event")
	}
	return event, nil
}

// Update edits an event owned by the caller. The resulting range is re-validated.
func (s *CalendarService) Update(ctx context.Context, callerID, id string, req models.UpdateCalendarEventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req, "invalid event payload"); err != nil {
		return nil, err
	}
	event, err := s.repo.FindOwned(ctx, id, callerID)
	if err != nil {
		return nil, mapEventError(err, "failed to load event")
	}
	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Start != nil {
		event.StartAt = req.Start.UTC()
	}
	if req.End != nil {
		event.EndAt = req.End.UTC()
	}
	if req.Priority != nil {
		event.Priority = *req.Priority
	}
	if req.Type != nil {
		event.Type = *req.Type
	}
	if req.Link != nil {
		event.Link = optional(*req.Link)
	}
	if req.LinkLabel != nil {
		event.LinkLabel = optional(*req.LinkLabel)
	}
	if req.IsCompleted != nil {
		event.IsCompleted = *req.IsCompleted
	}
	if err := checkTimeRange(event.StartAt, event.EndAt); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, mapEventError(err, "failed to update event")
	}
	return event, nil
}

// Delete removes an event owned by the caller.
func (s *CalendarService) Delete(ctx context.Context, callerID, id string) error {
	if err := s.repo.Delete(ctx, id, callerID); err != nil {
		return mapEventError(err, "failed to delete event")
	}
	return nil
}

// ToggleComplete inverts the completed flag. Two calls restore the original state.
func (s *CalendarService) ToggleComplete(ctx context.Context, callerID, id string) (*models.CalendarEvent, error) {
	event, err := s.repo.ToggleComplete(ctx, id, callerID)
	if err != nil {
		return nil, mapEventError(err, "failed to toggle event")
	}
	return event, nil
}

func checkTimeRange(start, end time.Time) error {
	if !end.After(start) {
		return appErrors.ErrInvalidTimeRange
	}
	return nil
}

func mapEventError(err error, message string) error {
	if isMissing(err) {
		return appErrors.ErrEventNotFound
	}
	return appErrors.Internal(err, message)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
