package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/validation"
)

const userSummaryCachePrefix = "user:summary:"

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// UserService serves public account information and own-profile updates.
type UserService struct {
	repo      userRepository
	cache     summaryCache
	validator *validation.Validator
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService. cache may be nil.
func NewUserService(repo userRepository, cache summaryCache, validate *validation.Validator, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &UserService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Get returns the public summary of an account.
func (s *UserService) Get(ctx context.Context, id string) (*models.UserSummary, error) {
	summaries, err := s.Summaries(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	summary, ok := summaries[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return &summary, nil
}

// Summaries resolves display information for ids. Unknown ids are absent from the result.
func (s *UserService) Summaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	result := make(map[string]models.UserSummary, len(ids))
	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, seen := result[id]; seen {
			continue
		}
		if s.cache != nil {
			var cached models.UserSummary
			if hit, err := s.cache.Get(ctx, userSummaryCachePrefix+id, &cached); err == nil && hit {
				result[id] = cached
				continue
			}
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return result, nil
	}

	users, err := s.repo.FindByIDs(ctx, missing)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load users")
	}
	for i := range users {
		summary := users[i].Summary()
		result[summary.ID] = summary
		if s.cache != nil {
			_ = s.cache.Set(ctx, userSummaryCachePrefix+summary.ID, summary, 0)
		}
	}
	return result, nil
}

// UpdateProfile changes the caller's display fields. Role specific fields are only accepted for the matching role.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req, "invalid profile payload"); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if isMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to load user")
	}

	profile, err := user.Profile()
	if err != nil {
		return nil, appErrors.Internal(err, "failed to read profile")
	}
	var fields []appErrors.FieldError
	switch p := profile.(type) {
	case models.TeacherProfile:
		if req.ChildName != nil {
			fields = append(fields, appErrors.FieldError{Field: "child_name", Message: "child_name is only accepted for parents"})
		}
		if req.Subjects != nil {
			p.Subjects = req.Subjects
		}
		profile = p
	case models.ParentProfile:
		if req.Subjects != nil {
			fields = append(fields, appErrors.FieldError{Field: "subjects", Message: "subjects are only accepted for teachers"})
		}
		if req.ChildName != nil {
			p.ChildName = strings.TrimSpace(*req.ChildName)
			if p.ChildName == "" {
				fields = append(fields, appErrors.FieldError{Field: "child_name", Message: "child_name cannot be empty"})
			}
		}
		profile = p
	case models.StudentProfile:
		if req.ChildName != nil {
			fields = append(fields, appErrors.FieldError{Field: "child_name", Message: "child_name is only accepted for parents"})
		}
		if req.Subjects != nil {
			fields = append(fields, appErrors.FieldError{Field: "subjects", Message: "subjects are only accepted for teachers"})
		}
	default:
		return nil, appErrors.Internal(fmt.Errorf("unsupported profile %T", profile), "failed to read profile")
	}
	if len(fields) > 0 {
		return nil, appErrors.Validation("invalid profile payload", fields)
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.AvatarURL != nil {
		avatar := *req.AvatarURL
		user.AvatarURL = &avatar
	}
	if err := user.ApplyProfile(profile); err != nil {
		return nil, appErrors.Internal(err, "failed to apply profile")
	}
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		if isMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to update profile")
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userSummaryCachePrefix+user.ID); err != nil {
			s.logger.Warn("failed to invalidate user summary", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	return user, nil
}
