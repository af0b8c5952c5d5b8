package models

import (
	"time"

	"github.com/lib/pq"
)

// DiscussionCategory groups discussions on the board.
type DiscussionCategory string

const (
	CategoryGeneral      DiscussionCategory = "general"
	CategoryHomework     DiscussionCategory = "homework"
	CategoryAnnouncement DiscussionCategory = "announcement"
	CategoryQuestion     DiscussionCategory = "question"
	CategoryEvent        DiscussionCategory = "event"
)

// Discussion is a threaded post within a semester.
type Discussion struct {
	ID           string             `db:"id" json:"id"`
	Title        string             `db:"title" json:"title"`
	Content      string             `db:"content" json:"content"`
	AuthorID     string             `db:"author_id" json:"author_id"`
	SemesterID   string             `db:"semester_id" json:"semester_id"`
	Category     DiscussionCategory `db:"category" json:"category"`
	Tags         pq.StringArray     `db:"tags" json:"tags"`
	IsPinned     bool               `db:"is_pinned" json:"is_pinned"`
	IsClosed     bool               `db:"is_closed" json:"is_closed"`
	Views        int                `db:"views" json:"views"`
	ReplyCount   int                `db:"reply_count" json:"reply_count"`
	LastActivity time.Time          `db:"last_activity" json:"last_activity"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updated_at"`
	Replies      []Reply            `db:"-" json:"replies,omitempty"`
}

// Reply is a response to a discussion.
type Reply struct {
	ID           string    `db:"id" json:"id"`
	DiscussionID string    `db:"discussion_id" json:"discussion_id"`
	AuthorID     string    `db:"author_id" json:"author_id"`
	Content      string    `db:"content" json:"content"`
	IsEdited     bool      `db:"is_edited" json:"is_edited"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DiscussionFilter narrows a discussion listing.
type DiscussionFilter struct {
	SemesterID string
	Category   DiscussionCategory
	Query      string
	PageQuery
}

// CreateDiscussionRequest starts a discussion.
type CreateDiscussionRequest struct {
	Title      string             `json:"title" validate:"required,min=3,max=200"`
	Content    string             `json:"content" validate:"required,max=10000"`
	SemesterID string             `json:"semester_id" validate:"required,uuid"`
	Category   DiscussionCategory `json:"category" validate:"omitempty,oneof=general homework announcement question event"`
	Tags       []string           `json:"tags" validate:"omitempty,max=10,dive,min=1,max=30"`
}

// UpdateDiscussionRequest edits a discussion.
type UpdateDiscussionRequest struct {
	Title    *string             `json:"title" validate:"omitempty,min=3,max=200"`
	Content  *string             `json:"content" validate:"omitempty,max=10000"`
	Category *DiscussionCategory `json:"category" validate:"omitempty,oneof=general homework announcement question event"`
	Tags     []string            `json:"tags" validate:"omitempty,max=10,dive,min=1,max=30"`
}

// ReplyRequest is the payload for adding or editing a reply.
type ReplyRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}
