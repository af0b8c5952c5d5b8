package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/noah-isme/school-connect-api/internal/models"
)

const messageColumns = `id, sender_id, recipient_id, semester_id, content, type, attachments, is_read, read_at, is_archived, created_at`

type messageRow struct {
	ID          string             `db:"id"`
	SenderID    string             `db:"sender_id"`
	RecipientID string             `db:"recipient_id"`
	SemesterID  string             `db:"semester_id"`
	Content     string             `db:"content"`
	Type        models.MessageType `db:"type"`
	Attachments types.JSONText     `db:"attachments"`
	IsRead      bool               `db:"is_read"`
	ReadAt      *time.Time         `db:"read_at"`
	IsArchived  bool               `db:"is_archived"`
	CreatedAt   time.Time          `db:"created_at"`
}

func (row messageRow) toModel() (models.Message, error) {
	m := models.Message{
		ID:          row.ID,
		SenderID:    row.SenderID,
		RecipientID: row.RecipientID,
		SemesterID:  row.SemesterID,
		Content:     row.Content,
		Type:        row.Type,
		IsRead:      row.IsRead,
		ReadAt:      row.ReadAt,
		IsArchived:  row.IsArchived,
		CreatedAt:   row.CreatedAt,
		Attachments: []models.Attachment{},
	}
	if len(row.Attachments) > 0 {
		if err := row.Attachments.Unmarshal(&m.Attachments); err != nil {
			return models.Message{}, fmt.Errorf("decode attachments of message %s: %w", row.ID, err)
		}
	}
	return m, nil
}

type conversationRow struct {
	CounterpartID string `db:"counterpart_id"`
	UnreadCount   int    `db:"unread_count"`
	messageRow
}

// MessageRepository stores direct messages and aggregates them into conversations.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs the repository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create persists a new message.
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.Attachments == nil {
		m.Attachments = []models.Attachment{}
	}
	raw, err := json.Marshal(m.Attachments)
	if err != nil {
		return fmt.Errorf("encode attachments: %w", err)
	}
	row := messageRow{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		SemesterID:  m.SemesterID,
		Content:     m.Content,
		Type:        m.Type,
		Attachments: types.JSONText(raw),
		IsRead:      m.IsRead,
		ReadAt:      m.ReadAt,
		IsArchived:  m.IsArchived,
		CreatedAt:   m.CreatedAt,
	}
	const query = `INSERT INTO messages (` + messageColumns + `)
VALUES (:id, :sender_id, :recipient_id, :semester_id, :content, :type, :attachments, :is_read, :read_at, :is_archived, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// Thread returns the messages exchanged between two accounts in a semester, oldest first.
func (r *MessageRepository) Thread(ctx context.Context, userID, otherID, semesterID string, page models.PageQuery) ([]models.Message, int, error) {
	page = page.Normalize()
	const where = ` FROM messages WHERE semester_id = $1 AND ((sender_id = $2 AND recipient_id = $3) OR (sender_id = $3 AND recipient_id = $2))`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*)`+where, semesterID, userID, otherID); err != nil {
		return nil, 0, fmt.Errorf("count thread: %w", err)
	}

	query := `SELECT ` + messageColumns + where + ` ORDER BY created_at ASC, id ASC LIMIT $4 OFFSET $5`
	var rows []messageRow
	if err := r.db.SelectContext(ctx, &rows, query, semesterID, userID, otherID, page.PageSize, page.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list thread: %w", err)
	}
	messages := make([]models.Message, 0, len(rows))
	for _, row := range rows {
		m, err := row.toModel()
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}
	return messages, total, nil
}

// conversationQuery groups the caller's messages by the other party, keeping the latest message
// and the unread count addressed to the caller. Only messages whose other party is in $3 qualify.
const conversationQuery = `WITH scoped AS (
    SELECT ` + messageColumns + `,
        CASE WHEN sender_id = $1 THEN recipient_id ELSE sender_id END AS counterpart_id
    FROM messages
    WHERE semester_id = $2
      AND ((sender_id = $1 AND recipient_id = ANY($3)) OR (recipient_id = $1 AND sender_id = ANY($3)))
), ranked AS (
    SELECT scoped.*,
        ROW_NUMBER() OVER (PARTITION BY counterpart_id ORDER BY created_at DESC, id DESC) AS rn,
        COUNT(*) FILTER (WHERE recipient_id = $1 AND is_read = FALSE) OVER (PARTITION BY counterpart_id) AS unread_count
    FROM scoped
)
SELECT counterpart_id, unread_count, ` + messageColumns + `
FROM ranked
WHERE rn = 1
ORDER BY created_at DESC`

// ConversationSummaries aggregates the caller's conversations with the given counterparts.
func (r *MessageRepository) ConversationSummaries(ctx context.Context, userID, semesterID string, counterpartIDs []string) ([]models.ConversationSummary, error) {
	if len(counterpartIDs) == 0 {
		return []models.ConversationSummary{}, nil
	}
	var rows []conversationRow
	if err := r.db.SelectContext(ctx, &rows, conversationQuery, userID, semesterID, pq.Array(counterpartIDs)); err != nil {
		return nil, fmt.Errorf("aggregate conversations: %w", err)
	}
	result := make([]models.ConversationSummary, 0, len(rows))
	for _, row := range rows {
		m, err := row.messageRow.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, models.ConversationSummary{CounterpartID: row.CounterpartID, LastMessage: m, UnreadCount: row.UnreadCount})
	}
	return result, nil
}

// MarkConversationRead flags every unread message from otherID to userID as read and returns how many changed.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, userID, otherID, semesterID string, readAt time.Time) (int64, error) {
	const query = `UPDATE messages SET is_read = TRUE, read_at = $4 WHERE recipient_id = $1 AND sender_id = $2 AND semester_id = $3 AND is_read = FALSE`
	res, err := r.db.ExecContext(ctx, query, userID, otherID, semesterID, readAt)
	if err != nil {
		return 0, fmt.Errorf("mark conversation read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// CountUnread counts unread messages addressed to userID in a semester. A non-empty senderID narrows the count.
func (r *MessageRepository) CountUnread(ctx context.Context, userID, semesterID, senderID string) (int, error) {
	query := `SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND semester_id = $2 AND is_read = FALSE`
	args := []interface{}{userID, semesterID}
	if senderID != "" {
		query += ` AND sender_id = $3`
		args = append(args, senderID)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}
