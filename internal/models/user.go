package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// UserRole represents the account kinds known to the platform.
type UserRole string

const (
	RoleTeacher UserRole = "TEACHER"
	RoleParent  UserRole = "PARENT"
	RoleStudent UserRole = "STUDENT"
)

// ParseRole normalises a user supplied role value.
func ParseRole(raw string) (UserRole, error) {
	role := UserRole(strings.ToUpper(strings.TrimSpace(raw)))
	switch role {
	case RoleTeacher, RoleParent, RoleStudent:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// RoleProfile carries the fields that only make sense for one role.
// The set of implementations is closed: TeacherProfile, ParentProfile, StudentProfile.
type RoleProfile interface {
	Role() UserRole
	roleProfile()
}

// TeacherProfile lists the subjects a teacher covers.
type TeacherProfile struct {
	Subjects []string `json:"subjects"`
}

// ParentProfile links a parent to their child through the student identifier.
type ParentProfile struct {
	ChildName string `json:"child_name"`
	StudentID string `json:"student_id"`
}

// StudentProfile carries the school issued student identifier.
type StudentProfile struct {
	StudentID string `json:"student_id"`
}

func (TeacherProfile) Role() UserRole { return RoleTeacher }
func (ParentProfile) Role() UserRole  { return RoleParent }
func (StudentProfile) Role() UserRole { return RoleStudent }

func (TeacherProfile) roleProfile() {}
func (ParentProfile) roleProfile()  {}
func (StudentProfile) roleProfile() {}

// User represents an account stored in the users table.
type User struct {
	ID           string         `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	FullName     string         `db:"full_name" json:"full_name"`
	Role         UserRole       `db:"role" json:"role"`
	StudentID    *string        `db:"student_id" json:"student_id,omitempty"`
	ChildName    *string        `db:"child_name" json:"child_name,omitempty"`
	Subjects     pq.StringArray `db:"subjects" json:"subjects,omitempty"`
	AvatarURL    *string        `db:"avatar_url" json:"avatar_url,omitempty"`
	Active       bool           `db:"active" json:"active"`
	LastLogin    *time.Time     `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Profile returns the role specific view of the stored columns.
func (u *User) Profile() (RoleProfile, error) {
	switch u.Role {
	case RoleTeacher:
		return TeacherProfile{Subjects: append([]string(nil), u.Subjects...)}, nil
	case RoleParent:
		return ParentProfile{ChildName: deref(u.ChildName), StudentID: deref(u.StudentID)}, nil
	case RoleStudent:
		return StudentProfile{StudentID: deref(u.StudentID)}, nil
	default:
		return nil, fmt.Errorf("user %s has unknown role %q", u.ID, u.Role)
	}
}

// ApplyProfile stores the profile fields on the flat columns, clearing the ones the role does not use.
func (u *User) ApplyProfile(p RoleProfile) error {
	u.StudentID, u.ChildName, u.Subjects = nil, nil, pq.StringArray{}
	switch profile := p.(type) {
	case TeacherProfile:
		u.Subjects = pq.StringArray(append([]string{}, profile.Subjects...))
	case ParentProfile:
		u.ChildName = strPtr(profile.ChildName)
		u.StudentID = strPtr(profile.StudentID)
	case StudentProfile:
		u.StudentID = strPtr(profile.StudentID)
	default:
		return fmt.Errorf("unsupported role profile %T", p)
	}
	u.Role = p.Role()
	return nil
}

// Summary returns the public display fields of the account.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, FullName: u.FullName, Role: u.Role, AvatarURL: u.AvatarURL}
}

// UserSummary is the public identity shown to other accounts.
type UserSummary struct {
	ID        string   `json:"id"`
	FullName  string   `json:"full_name"`
	Role      UserRole `json:"role"`
	AvatarURL *string  `json:"avatar_url,omitempty"`
}

// UpdateProfileRequest changes the caller's own display fields.
type UpdateProfileRequest struct {
	FullName  *string  `json:"full_name" validate:"omitempty,min=2,max=120"`
	AvatarURL *string  `json:"avatar_url" validate:"omitempty,url"`
	ChildName *string  `json:"child_name" validate:"omitempty,max=120"`
	Subjects  []string `json:"subjects" validate:"omitempty,dive,min=1,max=60"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// PageQuery is the normalised page request shared by list endpoints.
type PageQuery struct {
	Page     int
	PageSize int
}

// Normalize applies defaults and bounds.
func (p PageQuery) Normalize() PageQuery {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Offset returns the SQL offset for the page.
func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
