package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/validation"
)

type semesterRepository interface {
	Create(ctx context.Context, s *models.Semester) error
	FindByID(ctx context.Context, id string) (*models.Semester, error)
	ListForUser(ctx context.Context, userID string) ([]models.Semester, error)
	Update(ctx context.Context, s *models.Semester) error
}

type semesterReader interface {
	FindByID(ctx context.Context, id string) (*models.Semester, error)
}

type accountReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SemesterService manages enrollment periods, their rosters and classes.
type SemesterService struct {
	repo      semesterRepository
	users     accountReader
	audit     auditWriter
	validator *validation.Validator
	logger    *zap.Logger
	now       func() time.Time
}

// NewSemesterService constructs the service. audit may be nil.
func NewSemesterService(repo semesterRepository, users accountReader, audit auditWriter, validate *validation.Validator, logger *zap.Logger) *SemesterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &SemesterService{repo: repo, users: users, audit: audit, validator: validate, logger: logger, now: time.Now}
}

// Create opens a semester. Only teacher accounts may create one; the creator joins as its first teacher.
func (s *SemesterService) Create(ctx context.Context, caller *models.User, req models.CreateSemesterRequest) (*models.SemesterView, error) {
	if caller.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can create semesters")
	}
	if err := s.validator.Struct(req, "invalid semester payload"); err != nil {
		return nil, err
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimeRange, "end_date must be after start_date")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	semester := &models.Semester{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		SchoolYear:  strings.TrimSpace(req.SchoolYear),
		StartDate:   req.StartDate.UTC(),
		EndDate:     req.EndDate.UTC(),
		IsActive:    active,
		Description: req.Description,
		Participants: []models.Participant{
			{UserID: caller.ID, Role: models.RoleTeacher, JoinedAt: s.now().UTC()},
		},
		Classes:   []models.Class{},
		CreatedBy: caller.ID,
	}
	if err := s.repo.Create(ctx, semester); err != nil {
		return nil, appErrors.Internal(err, "failed to create semester")
	}
	return s.view(semester), nil
}

// List returns the semesters the caller participates in or created.
func (s *SemesterService) List(ctx context.Context, callerID string) ([]models.SemesterView, error) {
	semesters, err := s.repo.ListForUser(ctx, callerID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list semesters")
	}
	views := make([]models.SemesterView, 0, len(semesters))
	for i := range semesters {
		views = append(views, *s.view(&semesters[i]))
	}
	return views, nil
}

// Current returns the caller's semesters that are active right now.
func (s *SemesterService) Current(ctx context.Context, callerID string) ([]models.SemesterView, error) {
	all, err := s.List(ctx, callerID)
	if err != nil {
		return nil, err
	}
	current := make([]models.SemesterView, 0, len(all))
	for _, v := range all {
		if v.CurrentlyActive {
			current = append(current, v)
		}
	}
	return current, nil
}

// Get returns a semester visible to the caller.
func (s *SemesterService) Get(ctx context.Context, callerID, id string) (*models.SemesterView, error) {
	semester, err := loadSemester(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if _, ok := semester.FindParticipant(callerID); !ok && semester.CreatedBy != callerID {
		return nil, appErrors.ErrNotParticipant
	}
	return s.view(semester), nil
}

// Update changes semester metadata.
func (s *SemesterService) Update(ctx context.Context, callerID, id string, req models.UpdateSemesterRequest) (*models.SemesterView, error) {
	if err := s.validator.Struct(req, "invalid semester payload"); err != nil {
		return nil, err
	}
	return s.mutate(ctx, callerID, id, req.Version, "update", func(semester *models.Semester) error {
		if req.Name != nil {
			semester.Name = strings.TrimSpace(*req.Name)
		}
		if req.SchoolYear != nil {
			semester.SchoolYear = strings.TrimSpace(*req.SchoolYear)
		}
		if req.StartDate != nil {
			semester.StartDate = req.StartDate.UTC()
		}
		if req.EndDate != nil {
			semester.EndDate = req.EndDate.UTC()
		}
		if req.IsActive != nil {
			semester.IsActive = *req.IsActive
		}
		if req.Description != nil {
			semester.Description = *req.Description
		}
		if !semester.StartDate.Before(semester.EndDate) {
			return appErrors.Clone(appErrors.ErrInvalidTimeRange, "end_date must be after start_date")
		}
		return nil
	})
}

// AddParticipant enrolls an account with a semester scoped role.
func (s *SemesterService) AddParticipant(ctx context.Context, callerID, id string, req models.AddParticipantRequest) (*models.SemesterView, error) {
	if err := s.validator.Struct(req, "invalid participant payload"); err != nil {
		return nil, err
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, appErrors.Validation("invalid participant payload", []appErrors.FieldError{{Field: "role", Message: "role must be one of teacher, parent, student"}})
	}
	account, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if isMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to load user")
	}

	studentID := strings.TrimSpace(req.StudentID)
	if studentID == "" && account.StudentID != nil {
		studentID = *account.StudentID
	}
	switch role {
	case models.RoleStudent, models.RoleParent:
		if studentID == "" {
			return nil, appErrors.Validation("invalid participant payload", []appErrors.FieldError{{Field: "student_id", Message: "student_id is required for students and parents"}})
		}
	case models.RoleTeacher:
		studentID = ""
	default:
		return nil, appErrors.Internal(fmt.Errorf("unhandled role %q", role), "failed to add participant")
	}

	return s.mutate(ctx, callerID, id, req.Version, "add_participant", func(semester *models.Semester) error {
		if _, exists := semester.FindParticipant(req.UserID); exists {
			return appErrors.ErrAlreadyEnrolled
		}
		semester.Participants = append(semester.Participants, models.Participant{
			UserID:    req.UserID,
			Role:      role,
			StudentID: studentID,
			JoinedAt:  s.now().UTC(),
		})
		return nil
	})
}

// RemoveParticipant drops an account from the roster and from every class student list.
// Teachers still assigned to a class cannot be removed.
func (s *SemesterService) RemoveParticipant(ctx context.Context, callerID, id, userID string, version int) (*models.SemesterView, error) {
	return s.mutate(ctx, callerID, id, version, "remove_participant", func(semester *models.Semester) error {
		idx := -1
		for i, p := range semester.Participants {
			if p.UserID == userID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "participant not found")
		}
		for _, class := range semester.Classes {
			if class.TeacherID == userID {
				return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("participant teaches class %q, reassign it first", class.Name))
			}
		}
		semester.Participants = append(semester.Participants[:idx], semester.Participants[idx+1:]...)
		for i := range semester.Classes {
			semester.Classes[i].StudentIDs = without(semester.Classes[i].StudentIDs, userID)
		}
		return nil
	})
}

// AddClass creates a class inside the semester.
func (s *SemesterService) AddClass(ctx context.Context, callerID, id string, req models.ClassRequest) (*models.SemesterView, error) {
	if err := s.validator.Struct(req, "invalid class payload"); err != nil {
		return nil, err
	}
	return s.mutate(ctx, callerID, id, req.Version, "add_class", func(semester *models.Semester) error {
		class := models.Class{ID: uuid.NewString(), Name: strings.TrimSpace(req.Name), TeacherID: req.TeacherID, StudentIDs: dedupe(req.StudentIDs)}
		if err := validateClass(semester, class); err != nil {
			return err
		}
		semester.Classes = append(semester.Classes, class)
		return nil
	})
}

// UpdateClass replaces the name, teacher and students of a class.
func (s *SemesterService) UpdateClass(ctx context.Context, callerID, id, classID string, req models.ClassRequest) (*models.SemesterView, error) {
	if err := s.validator.Struct(req, "invalid class payload"); err != nil {
		return nil, err
	}
	return s.mutate(ctx, callerID, id, req.Version, "update_class", func(semester *models.Semester) error {
		idx := semester.ClassIndex(classID)
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		class := models.Class{ID: classID, Name: strings.TrimSpace(req.Name), TeacherID: req.TeacherID, StudentIDs: dedupe(req.StudentIDs)}
		if err := validateClass(semester, class); err != nil {
			return err
		}
		semester.Classes[idx] = class
		return nil
	})
}

// RemoveClass deletes a class from the semester.
func (s *SemesterService) RemoveClass(ctx context.Context, callerID, id, classID string, version int) (*models.SemesterView, error) {
	return s.mutate(ctx, callerID, id, version, "remove_class", func(semester *models.Semester) error {
		idx := semester.ClassIndex(classID)
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		semester.Classes = append(semester.Classes[:idx], semester.Classes[idx+1:]...)
		return nil
	})
}

// mutate loads the semester, checks that the caller manages it and that version is current,
// applies change and writes it back under the version guard.
func (s *SemesterService) mutate(ctx context.Context, callerID, id string, version int, action string, change func(*models.Semester) error) (*models.SemesterView, error) {
	semester, err := loadSemester(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !canManage(semester, callerID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers of this semester can change it")
	}
	if semester.Version != version {
		return nil, appErrors.ErrVersionConflict
	}
	if err := change(semester); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, semester); err != nil {
		switch {
		case errors.Is(err, appErrors.ErrVersionConflict):
			return nil, appErrors.ErrVersionConflict
		case isMissing(err):
			return nil, appErrors.ErrSemesterNotFound
		default:
			return nil, appErrors.Internal(err, "failed to update semester")
		}
	}
	s.recordRosterChange(ctx, callerID, semester, action)
	return s.view(semester), nil
}

func (s *SemesterService) recordRosterChange(ctx context.Context, callerID string, semester *models.Semester, action string) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{"action": action, "version": semester.Version})
	semesterID := semester.ID
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &callerID,
		Action:     models.AuditActionRosterChange,
		Resource:   "semesters",
		ResourceID: &semesterID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("failed to record roster audit log", zap.String("semester_id", semester.ID), zap.Error(err))
	}
}

func (s *SemesterService) view(semester *models.Semester) *models.SemesterView {
	return &models.SemesterView{Semester: semester, CurrentlyActive: semester.IsCurrentlyActive(s.now())}
}

// loadSemester maps a missing semester to SEMESTER_NOT_FOUND.
func loadSemester(ctx context.Context, repo semesterReader, id string) (*models.Semester, error) {
	semester, err := repo.FindByID(ctx, id)
	if err != nil {
		if isMissing(err) {
			return nil, appErrors.ErrSemesterNotFound
		}
		return nil, appErrors.Internal(err, "failed to load semester")
	}
	return semester, nil
}

// requireParticipant loads the semester and returns the caller's roster entry.
func requireParticipant(ctx context.Context, repo semesterReader, semesterID, userID string) (*models.Semester, models.Participant, error) {
	semester, err := loadSemester(ctx, repo, semesterID)
	if err != nil {
		return nil, models.Participant{}, err
	}
	participant, ok := semester.FindParticipant(userID)
	if !ok {
		return nil, models.Participant{}, appErrors.ErrNotParticipant
	}
	return semester, participant, nil
}

func canManage(semester *models.Semester, userID string) bool {
	if semester.CreatedBy == userID {
		return true
	}
	p, ok := semester.FindParticipant(userID)
	return ok && p.Role == models.RoleTeacher
}

func validateClass(semester *models.Semester, class models.Class) error {
	var fields []appErrors.FieldError
	if teacher, ok := semester.FindParticipant(class.TeacherID); !ok || teacher.Role != models.RoleTeacher {
		fields = append(fields, appErrors.FieldError{Field: "teacher_id", Message: "teacher_id must reference a teacher participant"})
	}
	for _, id := range class.StudentIDs {
		if student, ok := semester.FindParticipant(id); !ok || student.Role != models.RoleStudent {
			fields = append(fields, appErrors.FieldError{Field: "student_ids", Message: fmt.Sprintf("%s is not a student participant", id)})
		}
	}
	if len(fields) > 0 {
		return appErrors.Validation("invalid class payload", fields)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func without(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
