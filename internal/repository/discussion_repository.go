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
	"github.com/lib/pq"

	"github.com/noah-isme/school-connect-api/internal/models"
)

const discussionSelect = `SELECT d.id, d.title, d.content, d.author_id, d.semester_id, d.category, d.tags, d.is_pinned, d.is_closed, d.views,
(SELECT COUNT(*) FROM discussion_replies r WHERE r.discussion_id = d.id) AS reply_count,
d.last_activity, d.created_at, d.updated_at FROM discussions d`

const replyColumns = `id, discussion_id, author_id, content, is_edited, created_at, updated_at`

// DiscussionRepository persists discussions and their replies.
type DiscussionRepository struct {
	db *sqlx.DB
}

// NewDiscussionRepository constructs the repository.
func NewDiscussionRepository(db *sqlx.DB) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

// Create inserts a discussion.
func (r *DiscussionRepository) Create(ctx context.Context, d *models.Discussion) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt, d.LastActivity = now, now, now
	if d.Tags == nil {
		d.Tags = pq.StringArray{}
	}
	const query = `INSERT INTO discussions (id, title, content, author_id, semester_id, category, tags, is_pinned, is_closed, views, last_activity, created_at, updated_at)
VALUES (:id, :title, :content, :author_id, :semester_id, :category, :tags, :is_pinned, :is_closed, :views, :last_activity, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("create discussion: %w", err)
	}
	return nil
}

// FindByID returns a discussion without its replies.
func (r *DiscussionRepository) FindByID(ctx context.Context, id string) (*models.Discussion, error) {
	var d models.Discussion
	if err := r.db.GetContext(ctx, &d, discussionSelect+` WHERE d.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find discussion: %w", err)
	}
	return &d, nil
}

// List returns discussions of a semester, pinned first then by latest activity.
// A non-empty filter.Query restricts results to title, content or tag matches.
func (r *DiscussionRepository) List(ctx context.Context, filter models.DiscussionFilter) ([]models.Discussion, int, error) {
	page := filter.PageQuery.Normalize()
	conditions := []string{"d.semester_id = $1"}
	args := []interface{}{filter.SemesterID}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("d.category = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(d.title ILIKE $%d OR d.content ILIKE $%d OR array_to_string(d.tags, ' ') ILIKE $%d)", n, n, n))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM discussions d`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count discussions: %w", err)
	}

	query := fmt.Sprintf("%s%s ORDER BY d.is_pinned DESC, d.last_activity DESC LIMIT %d OFFSET %d", discussionSelect, where, page.PageSize, page.Offset())
	discussions := []models.Discussion{}
	if err := r.db.SelectContext(ctx, &discussions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list discussions: %w", err)
	}
	return discussions, total, nil
}

// Update stores the editable fields of a discussion.
func (r *DiscussionRepository) Update(ctx context.Context, d *models.Discussion) error {
	d.UpdatedAt = time.Now().UTC()
	if d.Tags == nil {
		d.Tags = pq.StringArray{}
	}
	const query = `UPDATE discussions SET title = :title, content = :content, category = :category, tags = :tags, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, d)
	if err != nil {
		return fmt.Errorf("update discussion: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a discussion and, through the foreign key, its replies.
func (r *DiscussionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM discussions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete discussion: %w", err)
	}
	return expectAffected(res)
}

// IncrementViews bumps the view counter and returns the new value.
func (r *DiscussionRepository) IncrementViews(ctx context.Context, id string) (int, error) {
	var views int
	if err := r.db.GetContext(ctx, &views, `UPDATE discussions SET views = views + 1 WHERE id = $1 RETURNING views`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}

// SetPinned updates the pinned flag.
func (r *DiscussionRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	return r.setFlag(ctx, "is_pinned", id, pinned)
}

// SetClosed updates the closed flag.
func (r *DiscussionRepository) SetClosed(ctx context.Context, id string, closed bool) error {
	return r.setFlag(ctx, "is_closed", id, closed)
}

func (r *DiscussionRepository) setFlag(ctx context.Context, column, id string, value bool) error {
	query := fmt.Sprintf(`UPDATE discussions SET %s = $2, updated_at = $3 WHERE id = $1`, column)
	res, err := r.db.ExecContext(ctx, query, id, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update discussion %s: %w", column, err)
	}
	return expectAffected(res)
}

// Replies returns the replies of a discussion, oldest first.
func (r *DiscussionRepository) Replies(ctx context.Context, discussionID string) ([]models.Reply, error) {
	replies := []models.Reply{}
	query := `SELECT ` + replyColumns + ` FROM discussion_replies WHERE discussion_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &replies, query, discussionID); err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	return replies, nil
}

// CreateReply inserts a reply only while the discussion is open, bumping its last activity.
// It returns sql.ErrNoRows when no open discussion with that id exists.
func (r *DiscussionRepository) CreateReply(ctx context.Context, reply *models.Reply) (err error) {
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	reply.CreatedAt, reply.UpdatedAt = now, now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reply tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `UPDATE discussions SET last_activity = $2 WHERE id = $1 AND is_closed = FALSE`, reply.DiscussionID, now)
	if err != nil {
		return fmt.Errorf("bump discussion activity: %w", err)
	}
	if err = expectAffected(res); err != nil {
		return err
	}

	const query = `INSERT INTO discussion_replies (` + replyColumns + `) VALUES (:id, :discussion_id, :author_id, :content, :is_edited, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, reply); err != nil {
		return fmt.Errorf("create reply: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit reply tx: %w", err)
	}
	return nil
}

// FindReply returns a reply belonging to the discussion.
func (r *DiscussionRepository) FindReply(ctx context.Context, discussionID, replyID string) (*models.Reply, error) {
	var reply models.Reply
	query := `SELECT ` + replyColumns + ` FROM discussion_replies WHERE id = $1 AND discussion_id = $2`
	if err := r.db.GetContext(ctx, &reply, query, replyID, discussionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find reply: %w", err)
	}
	return &reply, nil
}

// UpdateReply replaces the reply content and marks it edited.
func (r *DiscussionRepository) UpdateReply(ctx context.Context, reply *models.Reply) error {
	reply.UpdatedAt = time.Now().UTC()
	reply.IsEdited = true
	const query = `UPDATE discussion_replies SET content = :content, is_edited = :is_edited, updated_at = :updated_at WHERE id = :id AND discussion_id = :discussion_id`
	res, err := r.db.NamedExecContext(ctx, query, reply)
	if err != nil {
		return fmt.Errorf("update reply: %w", err)
	}
	return expectAffected(res)
}

// DeleteReply removes a reply.
func (r *DiscussionRepository) DeleteReply(ctx context.Context, discussionID, replyID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM discussion_replies WHERE id = $1 AND discussion_id = $2`, replyID, discussionID)
	if err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}
	return expectAffected(res)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
