package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
)

const semesterColumns = `id, name, school_year, start_date, end_date, is_active, description, participants, classes, created_by, version, created_at, updated_at`

// semesterRow maps the JSONB roster columns of the semesters table.
type semesterRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	SchoolYear   string         `db:"school_year"`
	StartDate    time.Time      `db:"start_date"`
	EndDate      time.Time      `db:"end_date"`
	IsActive     bool           `db:"is_active"`
	Description  string         `db:"description"`
	Participants types.JSONText `db:"participants"`
	Classes      types.JSONText `db:"classes"`
	CreatedBy    string         `db:"created_by"`
	Version      int            `db:"version"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (row semesterRow) toModel() (*models.Semester, error) {
	s := &models.Semester{
		ID:           row.ID,
		Name:         row.Name,
		SchoolYear:   row.SchoolYear,
		StartDate:    row.StartDate,
		EndDate:      row.EndDate,
		IsActive:     row.IsActive,
		Description:  row.Description,
		CreatedBy:    row.CreatedBy,
		Version:      row.Version,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		Participants: []models.Participant{},
		Classes:      []models.Class{},
	}
	if len(row.Participants) > 0 {
		if err := row.Participants.Unmarshal(&s.Participants); err != nil {
			return nil, fmt.Errorf("decode participants of semester %s: %w", row.ID, err)
		}
	}
	if len(row.Classes) > 0 {
		if err := row.Classes.Unmarshal(&s.Classes); err != nil {
			return nil, fmt.Errorf("decode classes of semester %s: %w", row.ID, err)
		}
	}
	return s, nil
}

func semesterToRow(s *models.Semester) (semesterRow, error) {
	participants := s.Participants
	if participants == nil {
		participants = []models.Participant{}
	}
	classes := s.Classes
	if classes == nil {
		classes = []models.Class{}
	}
	rawParticipants, err := json.Marshal(participants)
	if err != nil {
		return semesterRow{}, fmt.Errorf("encode participants: %w", err)
	}
	rawClasses, err := json.Marshal(classes)
	if err != nil {
		return semesterRow{}, fmt.Errorf("encode classes: %w", err)
	}
	return semesterRow{
		ID:           s.ID,
		Name:         s.Name,
		SchoolYear:   s.SchoolYear,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		IsActive:     s.IsActive,
		Description:  s.Description,
		Participants: types.JSONText(rawParticipants),
		Classes:      types.JSONText(rawClasses),
		CreatedBy:    s.CreatedBy,
		Version:      s.Version,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}, nil
}

// SemesterRepository persists semesters together with their embedded roster.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs the repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// Create inserts a semester at version 1.
func (r *SemesterRepository) Create(ctx context.Context, s *models.Semester) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	s.Version = 1

	row, err := semesterToRow(s)
	if err != nil {
		return err
	}
	const query = `INSERT INTO semesters (` + semesterColumns + `)
VALUES (:id, :name, :school_year, :start_date, :end_date, :is_active, :description, :participants, :classes, :created_by, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create semester: %w", err)
	}
	return nil
}

// FindByID loads a semester with its roster.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	const query = `SELECT ` + semesterColumns + ` FROM semesters WHERE id = $1`
	var row semesterRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find semester: %w", err)
	}
	return row.toModel()
}

// ListForUser returns the semesters in which userID has a participant entry, newest first.
func (r *SemesterRepository) ListForUser(ctx context.Context, userID string) ([]models.Semester, error) {
	const query = `SELECT ` + semesterColumns + ` FROM semesters WHERE participants @> $1::jsonb OR created_by = $2 ORDER BY start_date DESC`
	probe, err := json.Marshal([]map[string]string{{"user_id": userID}})
	if err != nil {
		return nil, fmt.Errorf("encode participant probe: %w", err)
	}
	var rows []semesterRow
	if err := r.db.SelectContext(ctx, &rows, query, string(probe), userID); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	result := make([]models.Semester, 0, len(rows))
	for _, row := range rows {
		s, err := row.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, nil
}

// Update writes metadata and roster when the stored version still equals s.Version.
// On success s.Version is incremented; a stale version yields ErrVersionConflict.
func (r *SemesterRepository) Update(ctx context.Context, s *models.Semester) error {
	expected := s.Version
	s.UpdatedAt = time.Now().UTC()
	row, err := semesterToRow(s)
	if err != nil {
		return err
	}

	const query = `UPDATE semesters SET name = $1, school_year = $2, start_date = $3, end_date = $4, is_active = $5, description = $6,
participants = $7, classes = $8, version = version + 1, updated_at = $9 WHERE id = $10 AND version = $11`
	res, err := r.db.ExecContext(ctx, query, row.Name, row.SchoolYear, row.StartDate, row.EndDate, row.IsActive, row.Description,
		row.Participants, row.Classes, row.UpdatedAt, row.ID, expected)
	if err != nil {
		return fmt.Errorf("update semester: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM semesters WHERE id = $1)`, s.ID); err != nil {
			return fmt.Errorf("check semester: %w", err)
		}
		if !exists {
			return sql.ErrNoRows
		}
		return appErrors.ErrVersionConflict
	}
	s.Version = expected + 1
	return nil
}
