package service

import (
	"fmt"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
)

// Counterparts returns the accounts callerID may exchange direct messages with inside the semester.
// The set is derived from the current roster on every call and is never cached.
func Counterparts(semester *models.Semester, callerID string) (map[string]struct{}, error) {
	caller, ok := semester.FindParticipant(callerID)
	if !ok {
		return nil, appErrors.ErrNotEnrolled
	}

	result := make(map[string]struct{})
	switch caller.Role {
	case models.RoleTeacher:
		students := make(map[string]struct{})
		for _, class := range semester.Classes {
			if class.TeacherID != callerID {
				continue
			}
			for _, id := range class.StudentIDs {
				students[id] = struct{}{}
			}
		}
		linking := make(map[string]struct{})
		for _, p := range semester.Participants {
			if _, taught := students[p.UserID]; taught && p.Role == models.RoleStudent && p.StudentID != "" {
				linking[p.StudentID] = struct{}{}
			}
		}
		for id := range students {
			result[id] = struct{}{}
		}
		for _, p := range semester.Participants {
			if p.Role != models.RoleParent {
				continue
			}
			if _, linked := linking[p.StudentID]; linked {
				result[p.UserID] = struct{}{}
			}
		}
	case models.RoleStudent:
		for _, class := range semester.Classes {
			if class.HasStudent(callerID) {
				result[class.TeacherID] = struct{}{}
			}
		}
	case models.RoleParent:
		if caller.StudentID == "" {
			break
		}
		for _, p := range semester.Participants {
			if p.Role != models.RoleStudent || p.StudentID != caller.StudentID {
				continue
			}
			for _, class := range semester.Classes {
				if class.HasStudent(p.UserID) {
					result[class.TeacherID] = struct{}{}
				}
			}
		}
	default:
		return nil, appErrors.Internal(fmt.Errorf("participant %s has unknown role %q", callerID, caller.Role), "failed to resolve counterparts")
	}
	delete(result, callerID)
	return result, nil
}

// counterpartIDs returns the set as a slice.
func counterpartIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
