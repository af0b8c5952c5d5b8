package models

import "time"

// MessageType classifies message content.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
	MessageTypeVoice MessageType = "voice"
)

// ConversationPlaceholder is the preview shown for counterparts without messages.
const ConversationPlaceholder = "No messages yet"

// Attachment references an uploaded file.
type Attachment struct {
	Name     string `json:"name" validate:"required,max=255"`
	URL      string `json:"url" validate:"required"`
	MimeType string `json:"mime_type" validate:"required"`
	Size     int64  `json:"size" validate:"min=0"`
}

// Message is a direct message between two accounts within one semester.
// Only the read state changes after creation.
type Message struct {
	ID          string       `json:"id"`
	SenderID    string       `json:"sender_id"`
	RecipientID string       `json:"recipient_id"`
	SemesterID  string       `json:"semester_id"`
	Content     string       `json:"content"`
	Type        MessageType  `json:"type"`
	Attachments []Attachment `json:"attachments"`
	IsRead      bool         `json:"is_read"`
	ReadAt      *time.Time   `json:"read_at,omitempty"`
	IsArchived  bool         `json:"is_archived"`
	CreatedAt   time.Time    `json:"created_at"`
}

// SendMessageRequest is the payload for a new direct message.
type SendMessageRequest struct {
	RecipientID string       `json:"recipient_id" validate:"required,uuid"`
	SemesterID  string       `json:"semester_id" validate:"required,uuid"`
	Content     string       `json:"content" validate:"required,max=5000"`
	Type        MessageType  `json:"type" validate:"omitempty,oneof=text image file voice"`
	Attachments []Attachment `json:"attachments" validate:"omitempty,max=10,dive"`
}

// ConversationSummary is one aggregated row: the latest message exchanged with a counterpart
// and the number of unread messages addressed to the caller.
type ConversationSummary struct {
	CounterpartID string
	LastMessage   Message
	UnreadCount   int
}

// Conversation is an entry of the caller's inbox.
type Conversation struct {
	Counterpart UserSummary `json:"counterpart"`
	LastMessage *Message    `json:"last_message,omitempty"`
	Preview     string      `json:"preview"`
	UnreadCount int         `json:"unread_count"`
	Placeholder bool        `json:"placeholder"`
}

// ReadReceipt reports the outcome of marking a conversation read.
type ReadReceipt struct {
	Updated     int64 `json:"updated"`
	UnreadCount int   `json:"unread_count"`
}
