package models

import "time"

// Participant is an account's role-scoped membership within one semester.
// The role is independent of the account's global role.
type Participant struct {
	UserID    string    `json:"user_id"`
	Role      UserRole  `json:"role"`
	StudentID string    `json:"student_id,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Class associates one teacher with the students enrolled in it.
type Class struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	TeacherID  string   `json:"teacher_id"`
	StudentIDs []string `json:"student_ids"`
}

// HasStudent reports whether userID is enrolled in the class.
func (c Class) HasStudent(userID string) bool {
	for _, id := range c.StudentIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Semester is an enrollment period owning its roster and classes.
// Version is bumped on every roster write and guards against lost updates.
type Semester struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	SchoolYear   string        `json:"school_year"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	IsActive     bool          `json:"is_active"`
	Description  string        `json:"description"`
	Participants []Participant `json:"participants"`
	Classes      []Class       `json:"classes"`
	CreatedBy    string        `json:"created_by"`
	Version      int           `json:"version"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// IsCurrentlyActive is true when the active flag is set and now lies within [start, end].
func (s *Semester) IsCurrentlyActive(now time.Time) bool {
	return s.IsActive && !now.Before(s.StartDate) && !now.After(s.EndDate)
}

// FindParticipant returns the roster entry of userID.
func (s *Semester) FindParticipant(userID string) (Participant, bool) {
	for _, p := range s.Participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participant{}, false
}

// ClassIndex returns the position of the class with the given id or -1.
func (s *Semester) ClassIndex(classID string) int {
	for i, c := range s.Classes {
		if c.ID == classID {
			return i
		}
	}
	return -1
}

// SemesterView adds derived fields for responses.
type SemesterView struct {
	*Semester
	CurrentlyActive bool `json:"currently_active"`
}

// CreateSemesterRequest opens a new enrollment period.
type CreateSemesterRequest struct {
	Name        string    `json:"name" validate:"required,min=2,max=120"`
	SchoolYear  string    `json:"school_year" validate:"required,max=20"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	IsActive    *bool     `json:"is_active"`
	Description string    `json:"description" validate:"max=2000"`
}

// UpdateSemesterRequest changes semester metadata. Version must match the stored one.
type UpdateSemesterRequest struct {
	Version     int        `json:"version" validate:"required,min=1"`
	Name        *string    `json:"name" validate:"omitempty,min=2,max=120"`
	SchoolYear  *string    `json:"school_year" validate:"omitempty,max=20"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsActive    *bool      `json:"is_active"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
}

// AddParticipantRequest enrolls an account in a semester.
type AddParticipantRequest struct {
	Version   int    `json:"version" validate:"required,min=1"`
	UserID    string `json:"user_id" validate:"required,uuid"`
	Role      string `json:"role" validate:"required"`
	StudentID string `json:"student_id" validate:"omitempty,max=64"`
}

// ClassRequest creates or replaces a class within a semester.
type ClassRequest struct {
	Version    int      `json:"version" validate:"required,min=1"`
	Name       string   `json:"name" validate:"required,min=1,max=120"`
	TeacherID  string   `json:"teacher_id" validate:"required,uuid"`
	StudentIDs []string `json:"student_ids" validate:"omitempty,dive,uuid"`
}
