package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/validation"
)

const minSearchLength = 2

type discussionRepository interface {
	Create(ctx context.Context, d *models.Discussion) error
	FindByID(ctx context.Context, id string) (*models.Discussion, error)
	List(ctx context.Context, filter models.DiscussionFilter) ([]models.Discussion, int, error)
	Update(ctx context.Context, d *models.Discussion) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (int, error)
	SetPinned(ctx context.Context, id string, pinned bool) error
	SetClosed(ctx context.Context, id string, closed bool) error
	Replies(ctx context.Context, discussionID string) ([]models.Reply, error)
	CreateReply(ctx context.Context, reply *models.Reply) error
	FindReply(ctx context.Context, discussionID, replyID string) (*models.Reply, error)
	UpdateReply(ctx context.Context, reply *models.Reply) error
	DeleteReply(ctx context.Context, discussionID, replyID string) error
}

// DiscussionService runs the per-semester discussion board.
type DiscussionService struct {
	repo      discussionRepository
	semesters semesterReader
	validator *validation.Validator
	logger    *zap.Logger
}

// NewDiscussionService constructs the service.
func NewDiscussionService(repo discussionRepository, semesters semesterReader, validate *validation.Validator, logger *zap.Logger) *DiscussionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &DiscussionService{repo: repo, semesters: semesters, validator: validate, logger: logger}
}

// Create starts a discussion in a semester the caller participates in.
func (s *DiscussionService) Create(ctx context.Context, callerID string, req models.CreateDiscussionRequest) (*models.Discussion, error) {
	if err := s.validator.Struct(req, "invalid discussion payload"); err != nil {
		return nil, err
	}
	if _, _, err := requireParticipant(ctx, s.semesters, req.SemesterID, callerID); err != nil {
		return nil, err
	}
	category := req.Category
	if category == "" {
		category = models.CategoryGeneral
	}
	d := &models.Discussion{
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		AuthorID:   callerID,
		SemesterID: req.SemesterID,
		Category:   category,
		Tags:       normalizeTags(req.Tags),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, appErrors.Internal(err, "failed to create discussion")
	}
	return d, nil
}

// List returns a page of discussions, pinned first then by latest activity.
func (s *DiscussionService) List(ctx context.Context, callerID string, filter models.DiscussionFilter) ([]models.Discussion, *models.Pagination, error) {
	if _, _, err := requireParticipant(ctx, s.semesters, filter.SemesterID, callerID); err != nil {
		return nil, nil, err
	}
	if filter.Category != "" && !validCategory(filter.Category) {
		return nil, nil, appErrors.Validation("invalid discussion filter", []appErrors.FieldError{{Field: "category", Message: "unknown category"}})
	}
	filter.PageQuery = filter.PageQuery.Normalize()
	discussions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list discussions")
	}
	return discussions, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Search matches title, content and tags. The trimmed query must have at least two characters.
func (s *DiscussionService) Search(ctx context.Context, callerID string, filter models.DiscussionFilter) ([]models.Discussion, *models.Pagination, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if utf8.RuneCountInString(filter.Query) < minSearchLength {
		return nil, nil, appErrors.ErrQueryTooShort
	}
	return s.List(ctx, callerID, filter)
}

// Get returns the discussion with its replies and counts the view.
func (s *DiscussionService) Get(ctx context.Context, callerID, id string) (*models.Discussion, error) {
	d, _, err := s.load(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	views, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		if isMissing(err) {
			return nil, discussionNotFound()
		}
		return nil, appErrors.Internal(err, "failed to count view")
	}
	d.Views = views
	replies, err := s.repo.Replies(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load replies")
	}
	d.Replies = replies
	d.ReplyCount = len(replies)
	return d, nil
}

// Update edits a discussion. Only its author may do so.
func (s *DiscussionService) Update(ctx context.Context, callerID, id string, req models.UpdateDiscussionRequest) (*models.Discussion, error) {
	if err := s.validator.Struct(req, "invalid discussion payload"); err != nil {
		return nil, err
	}
	d, _, err := s.load(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if d.AuthorID != callerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the author can edit this discussion")
	}
	if req.Title != nil {
		d.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		d.Content = *req.Content
	}
	if req.Category != nil {
		d.Category = *req.Category
	}
	if req.Tags != nil {
		d.Tags = normalizeTags(req.Tags)
	}
	if err := s.repo.Update(ctx, d); err != nil {
		if isMissing(err) {
			return nil, discussionNotFound()
		}
		return nil, appErrors.Internal(err, "failed to update discussion")
	}
	return d, nil
}

// Delete removes a discussion. Its author or any teacher participant may do so.
func (s *DiscussionService) Delete(ctx context.Context, callerID, id string) error {
	d, participant, err := s.load(ctx, callerID, id)
	if err != nil {
		return err
	}
	if d.AuthorID != callerID && participant.Role != models.RoleTeacher {
		return appErrors.Clone(appErrors.ErrForbidden, "only the author or a teacher can delete this discussion")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if isMissing(err) {
			return discussionNotFound()
		}
		return appErrors.Internal(err, "failed to delete discussion")
	}
	return nil
}

// AddReply appends a reply. Closed discussions reject replies from everyone.
func (s *DiscussionService) AddReply(ctx context.Context, callerID, id string, req models.ReplyRequest) (*models.Reply, error) {
	if err := s.validator.Struct(req, "invalid reply payload"); err != nil {
		return nil, err
	}
	d, _, err := s.load(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if d.IsClosed {
		return nil, appErrors.ErrDiscussionClosed
	}
	reply := &models.Reply{DiscussionID: id, AuthorID: callerID, Content: req.Content}
	if err := s.repo.CreateReply(ctx, reply); err != nil {
		if isMissing(err) {
			// Closed or deleted between the read and the write.
			if _, findErr := s.repo.FindByID(ctx, id); findErr == nil {
				return nil, appErrors.ErrDiscussionClosed
			}
			return nil, discussionNotFound()
		}
		return nil, appErrors.Internal(err, "failed to add reply")
	}
	return reply, nil
}

// UpdateReply edits a reply. Only the reply author may do so.
func (s *DiscussionService) UpdateReply(ctx context.Context, callerID, id, replyID string, req models.ReplyRequest) (*models.Reply, error) {
	if err := s.validator.Struct(req, "invalid reply payload"); err != nil {
		return nil, err
	}
	if _, _, err := s.load(ctx, callerID, id); err != nil {
		return nil, err
	}
	reply, err := s.findReply(ctx, id, replyID)
	if err != nil {
		return nil, err
	}
	if reply.AuthorID != callerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the author can edit this reply")
	}
	reply.Content = req.Content
	if err := s.repo.UpdateReply(ctx, reply); err != nil {
		if isMissing(err) {
			return nil, replyNotFound()
		}
		return nil, appErrors.Internal(err, "failed to update reply")
	}
	return reply, nil
}

// DeleteReply removes a reply. Its author or any teacher participant may do so.
func (s *DiscussionService) DeleteReply(ctx context.Context, callerID, id, replyID string) error {
	_, participant, err := s.load(ctx, callerID, id)
	if err != nil {
		return err
	}
	reply, err := s.findReply(ctx, id, replyID)
	if err != nil {
		return err
	}
	if reply.AuthorID != callerID && participant.Role != models.RoleTeacher {
		return appErrors.Clone(appErrors.ErrForbidden, "only the author or a teacher can delete this reply")
	}
	if err := s.repo.DeleteReply(ctx, id, replyID); err != nil {
		if isMissing(err) {
			return replyNotFound()
		}
		return appErrors.Internal(err, "failed to delete reply")
	}
	return nil
}

// TogglePin pins or unpins a discussion. Teacher participants only.
func (s *DiscussionService) TogglePin(ctx context.Context, callerID, id string) (*models.Discussion, error) {
	return s.toggle(ctx, callerID, id, func(d *models.Discussion) error {
		d.IsPinned = !d.IsPinned
		return s.repo.SetPinned(ctx, id, d.IsPinned)
	})
}

// ToggleClose closes an open discussion or reopens a closed one. Teacher participants only.
func (s *DiscussionService) ToggleClose(ctx context.Context, callerID, id string) (*models.Discussion, error) {
	return s.toggle(ctx, callerID, id, func(d *models.Discussion) error {
		d.IsClosed = !d.IsClosed
		return s.repo.SetClosed(ctx, id, d.IsClosed)
	})
}

func (s *DiscussionService) toggle(ctx context.Context, callerID, id string, apply func(*models.Discussion) error) (*models.Discussion, error) {
	d, participant, err := s.load(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if participant.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can moderate discussions")
	}
	if err := apply(d); err != nil {
		if isMissing(err) {
			return nil, discussionNotFound()
		}
		return nil, appErrors.Internal(err, "failed to update discussion")
	}
	return d, nil
}

// load fetches the discussion and the caller's roster entry in its semester.
func (s *DiscussionService) load(ctx context.Context, callerID, id string) (*models.Discussion, models.Participant, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isMissing(err) {
			return nil, models.Participant{}, discussionNotFound()
		}
		return nil, models.Participant{}, appErrors.Internal(err, "failed to load discussion")
	}
	_, participant, err := requireParticipant(ctx, s.semesters, d.SemesterID, callerID)
	if err != nil {
		return nil, models.Participant{}, err
	}
	return d, participant, nil
}

func (s *DiscussionService) findReply(ctx context.Context, id, replyID string) (*models.Reply, error) {
	reply, err := s.repo.FindReply(ctx, id, replyID)
	if err != nil {
		if isMissing(err) {
			return nil, replyNotFound()
		}
		return nil, appErrors.Internal(err, "failed to load reply")
	}
	return reply, nil
}

func discussionNotFound() *appErrors.Error {
	return appErrors.Clone(appErrors.ErrNotFound, "discussion not found")
}

func replyNotFound() *appErrors.Error {
	return appErrors.Clone(appErrors.ErrNotFound, "reply not found")
}

func validCategory(c models.DiscussionCategory) bool {
	switch c {
	case models.CategoryGeneral, models.CategoryHomework, models.CategoryAnnouncement, models.CategoryQuestion, models.CategoryEvent:
		return true
	default:
		return false
	}
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
