package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-connect-api/internal/models"
)

const calendarColumns = `id, title, description, start_at, end_at, priority, type, is_completed, link, link_label, semester_id, created_by, created_at, updated_at`

// CalendarRepository persists calendar events. Every lookup and mutation is scoped to the owner,
// so a foreign event is indistinguishable from a missing one.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs a calendar repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// List returns the owner's events in a semester ordered by start, optionally overlapping [From, To].
func (r *CalendarRepository) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, error) {
	where := []string{"created_by = $1", "semester_id = $2"}
	args := []interface{}{filter.OwnerID, filter.SemesterID}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("end_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("start_at <= $%d", len(args)))
	}
	query := `SELECT ` + calendarColumns + ` FROM calendar_events WHERE ` + strings.Join(where, " AND ") + ` ORDER BY start_at ASC, id ASC`
	events := []models.CalendarEvent{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}

// FindOwned fetches an event owned by ownerID.
func (r *CalendarRepository) FindOwned(ctx context.Context, id, ownerID string) (*models.CalendarEvent, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendar_events WHERE id = $1 AND created_by = $2`
	var event models.CalendarEvent
	if err := r.db.GetContext(ctx, &event, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get calendar event: %w", err)
	}
	return &event, nil
}

// Create inserts a calendar event.
func (r *CalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt, event.UpdatedAt = now, now
	query := `INSERT INTO calendar_events (` + calendarColumns + `)
VALUES (:id, :title, :description, :start_at, :end_at, :priority, :type, :is_completed, :link, :link_label, :semester_id, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}
	return nil
}

// Update persists changes to an event owned by event.CreatedBy.
func (r *CalendarRepository) Update(ctx context.Context, event *models.CalendarEvent) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE calendar_events SET title = :title, description = :description, start_at = :start_at, end_at = :end_at,
priority = :priority, type = :type, is_completed = :is_completed, link = :link, link_label = :link_label, updated_at = :updated_at
WHERE id = :id AND created_by = :created_by`
	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update calendar event: %w", err)
	}
	return expectAffected(res)
}

// Delete removes an event owned by ownerID.
func (r *CalendarRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return expectAffected(res)
}

// ToggleComplete inverts the completed flag atomically and returns the updated event.
func (r *CalendarRepository) ToggleComplete(ctx context.Context, id, ownerID string) (*models.CalendarEvent, error) {
	query := `UPDATE calendar_events SET is_completed = NOT is_completed, updated_at = $3 WHERE id = $1 AND created_by = $2 RETURNING ` + calendarColumns
	var event models.CalendarEvent
	if err := r.db.GetContext(ctx, &event, query, id, ownerID, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("toggle calendar event: %w", err)
	}
	return &event, nil
}
