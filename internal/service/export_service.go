package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/export"
)

type calendarLister interface {
	List(ctx context.Context, callerID string, filter models.CalendarFilter) ([]models.CalendarEvent, error)
}

// ExportFile is a rendered document ready to be streamed to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the caller's calendar into CSV or PDF documents.
type ExportService struct {
	calendar calendarLister
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(calendar calendarLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{calendar: calendar, logger: logger}
}

// ExportCalendar renders the events List would return for the same filter.
func (s *ExportService) ExportCalendar(ctx context.Context, callerID string, filter models.CalendarFilter, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Validation("invalid export format", []appErrors.FieldError{{Field: "format", Message: "format must be csv or pdf"}})
	}
	events, err := s.calendar.List(ctx, callerID, filter)
	if err != nil {
		return nil, err
	}

	payload, err := export.RendererFor(format).Render(calendarDataset(events))
	if err != nil {
		s.logger.Error("render calendar export", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("calendar-%s.%s", sanitizeFilename(filter.SemesterID), format),
		ContentType: format.ContentType(),
		Data:        payload,
	}, nil
}

func calendarDataset(events []models.CalendarEvent) export.Dataset {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		done := "no"
		if e.IsCompleted {
			done = "yes"
		}
		rows = append(rows, []string{
			e.Title,
			e.StartAt.UTC().Format(time.RFC3339),
			e.EndAt.UTC().Format(time.RFC3339),
			string(e.Priority),
			string(e.Type),
			done,
			deref(e.Link),
		})
	}
	return export.Dataset{
		Title:   "Calendar",
		Headers: []string{"Title", "Start", "End", "Priority", "Type", "Completed", "Link"},
		Rows:    rows,
	}
}

func sanitizeFilename(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "export"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, raw)
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
