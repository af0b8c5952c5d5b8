package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/realtime"
	"github.com/noah-isme/school-connect-api/pkg/validation"
)

const previewLength = 100

// MessagingPolicy decides whether a sender may address a recipient outside their counterparts.
type MessagingPolicy int

const (
	// PolicyPermissive accepts any existing recipient. Counterparts only scope conversation listing.
	PolicyPermissive MessagingPolicy = iota
	// PolicyCounterpartsOnly requires the recipient to be one of the sender's counterparts.
	PolicyCounterpartsOnly
)

// String implements fmt.Stringer.
func (p MessagingPolicy) String() string {
	switch p {
	case PolicyPermissive:
		return "permissive"
	case PolicyCounterpartsOnly:
		return "counterparts_only"
	default:
		return "unknown"
	}
}

type messageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	Thread(ctx context.Context, userID, otherID, semesterID string, page models.PageQuery) ([]models.Message, int, error)
	ConversationSummaries(ctx context.Context, userID, semesterID string, counterpartIDs []string) ([]models.ConversationSummary, error)
	MarkConversationRead(ctx context.Context, userID, otherID, semesterID string, readAt time.Time) (int64, error)
	CountUnread(ctx context.Context, userID, semesterID, senderID string) (int, error)
}

type summaryResolver interface {
	Summaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error)
}

// MessageServiceDeps groups collaborators of MessageService.
type MessageServiceDeps struct {
	Messages  messageRepository
	Semesters semesterReader
	Accounts  accountReader
	Profiles  summaryResolver
	Notifier  Notifier
	Metrics   *MetricsService
	Policy    MessagingPolicy
	Validator *validation.Validator
	Logger    *zap.Logger
}

// MessageService sends direct messages and aggregates conversations.
type MessageService struct {
	messages  messageRepository
	semesters semesterReader
	accounts  accountReader
	profiles  summaryResolver
	notifier  Notifier
	metrics   *MetricsService
	policy    MessagingPolicy
	validator *validation.Validator
	logger    *zap.Logger
	now       func() time.Time
}

// NewMessageService wires the service.
func NewMessageService(deps MessageServiceDeps) *MessageService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = validation.New()
	}
	if deps.Notifier == nil {
		deps.Notifier = NoopNotifier{}
	}
	return &MessageService{
		messages:  deps.Messages,
		semesters: deps.Semesters,
		accounts:  deps.Accounts,
		profiles:  deps.Profiles,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		policy:    deps.Policy,
		validator: deps.Validator,
		logger:    deps.Logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Policy reports the active send policy.
func (s *MessageService) Policy() MessagingPolicy {
	return s.policy
}

// Send persists a message from senderID and notifies the recipient.
func (s *MessageService) Send(ctx context.Context, senderID string, req models.SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req, "invalid message payload"); err != nil {
		return nil, err
	}
	if req.RecipientID == senderID {
		return nil, appErrors.Validation("invalid message payload", []appErrors.FieldError{{Field: "recipient_id", Message: "cannot send a message to yourself"}})
	}

	semester, err := loadSemester(ctx, s.semesters, req.SemesterID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.accounts.FindByID(ctx, req.RecipientID)
	if err != nil {
		if isMissing(err) {
			return nil, appErrors.ErrRecipientNotFound
		}
		return nil, appErrors.Internal(err, "failed to load recipient")
	}
	if !recipient.Active {
		return nil, appErrors.ErrRecipientNotFound
	}

	switch s.policy {
	case PolicyPermissive:
	case PolicyCounterpartsOnly:
		set, err := Counterparts(semester, senderID)
		if err != nil {
			return nil, err
		}
		if _, ok := set[recipient.ID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "recipient is not one of your contacts in this semester")
		}
	default:
		return nil, appErrors.Internal(errors.New(s.policy.String()), "unsupported messaging policy")
	}

	msgType := req.Type
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	message := &models.Message{
		SenderID:    senderID,
		RecipientID: recipient.ID,
		SemesterID:  semester.ID,
		Content:     req.Content,
		Type:        msgType,
		Attachments: req.Attachments,
		CreatedAt:   s.now(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, appErrors.Internal(err, "failed to send message")
	}
	s.metrics.RecordMessageSent(string(message.Type))
	s.notifier.Notify(ctx, recipient.ID, realtime.NewEvent(realtime.EventMessageNew, message))
	return message, nil
}

// Conversations lists the caller's inbox within a semester, newest first.
// Every counterpart appears even without messages; if aggregation fails all of them are listed as placeholders.
func (s *MessageService) Conversations(ctx context.Context, callerID, semesterID string) ([]models.Conversation, error) {
	semester, err := loadSemester(ctx, s.semesters, semesterID)
	if err != nil {
		return nil, err
	}
	set, err := Counterparts(semester, callerID)
	if err != nil {
		return nil, err
	}
	ids := counterpartIDs(set)

	summaries, err := s.messages.ConversationSummaries(ctx, callerID, semesterID, ids)
	if err != nil {
		s.logger.Warn("conversation aggregation failed, using placeholders", zap.String("semester_id", semesterID), zap.Error(err))
		summaries = nil
	}

	profiles, err := s.profiles.Summaries(ctx, ids)
	if err != nil {
		s.logger.Warn("counterpart profile lookup failed, using stubs", zap.String("semester_id", semesterID), zap.Error(err))
		profiles = map[string]models.UserSummary{}
	}

	conversations := make([]models.Conversation, 0, len(ids))
	seen := make(map[string]struct{}, len(summaries))
	for i := range summaries {
		summary := summaries[i]
		if _, ok := set[summary.CounterpartID]; !ok {
			continue
		}
		seen[summary.CounterpartID] = struct{}{}
		last := summary.LastMessage
		conversations = append(conversations, models.Conversation{
			Counterpart: profileOrStub(profiles, summary.CounterpartID),
			LastMessage: &last,
			Preview:     preview(last.Content),
			UnreadCount: summary.UnreadCount,
		})
	}

	var placeholders []models.Conversation
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		placeholders = append(placeholders, models.Conversation{
			Counterpart: profileOrStub(profiles, id),
			Preview:     models.ConversationPlaceholder,
			Placeholder: true,
		})
	}
	sort.SliceStable(placeholders, func(i, j int) bool {
		a, b := placeholders[i].Counterpart, placeholders[j].Counterpart
		if a.FullName != b.FullName {
			return a.FullName < b.FullName
		}
		return a.ID < b.ID
	})
	return append(conversations, placeholders...), nil
}

// Thread returns a page of messages exchanged with otherID, oldest first.
func (s *MessageService) Thread(ctx context.Context, callerID, otherID, semesterID string, page models.PageQuery) ([]models.Message, *models.Pagination, error) {
	if _, err := loadSemester(ctx, s.semesters, semesterID); err != nil {
		return nil, nil, err
	}
	page = page.Normalize()
	messages, total, err := s.messages.Thread(ctx, callerID, otherID, semesterID, page)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to load conversation")
	}
	return messages, &models.Pagination{Page: page.Page, PageSize: page.PageSize, TotalCount: total}, nil
}

// MarkConversationRead marks every unread message from otherID to the caller as read. Repeating it changes nothing.
func (s *MessageService) MarkConversationRead(ctx context.Context, callerID, otherID, semesterID string) (*models.ReadReceipt, error) {
	if _, err := loadSemester(ctx, s.semesters, semesterID); err != nil {
		return nil, err
	}
	updated, err := s.messages.MarkConversationRead(ctx, callerID, otherID, semesterID, s.now())
	if err != nil {
		return nil, appErrors.Internal(err, "failed to mark conversation read")
	}
	remaining, err := s.messages.CountUnread(ctx, callerID, semesterID, otherID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count unread messages")
	}
	if updated > 0 {
		s.notifier.Notify(ctx, otherID, realtime.NewEvent(realtime.EventMessageRead, map[string]interface{}{
			"reader_id":   callerID,
			"semester_id": semesterID,
			"count":       updated,
		}))
	}
	return &models.ReadReceipt{Updated: updated, UnreadCount: remaining}, nil
}

// UnreadCount returns the number of unread messages addressed to the caller in a semester.
func (s *MessageService) UnreadCount(ctx context.Context, callerID, semesterID string) (int, error) {
	if _, err := loadSemester(ctx, s.semesters, semesterID); err != nil {
		return 0, err
	}
	count, err := s.messages.CountUnread(ctx, callerID, semesterID, "")
	if err != nil {
		return 0, appErrors.Internal(err, "failed to count unread messages")
	}
	return count, nil
}

// Contacts returns the caller's counterparts ordered by name.
func (s *MessageService) Contacts(ctx context.Context, callerID, semesterID string) ([]models.UserSummary, error) {
	semester, err := loadSemester(ctx, s.semesters, semesterID)
	if err != nil {
		return nil, err
	}
	set, err := Counterparts(semester, callerID)
	if err != nil {
		return nil, err
	}
	ids := counterpartIDs(set)
	profiles, err := s.profiles.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	contacts := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		contacts = append(contacts, profileOrStub(profiles, id))
	}
	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].FullName != contacts[j].FullName {
			return contacts[i].FullName < contacts[j].FullName
		}
		return contacts[i].ID < contacts[j].ID
	})
	return contacts, nil
}

func profileOrStub(profiles map[string]models.UserSummary, id string) models.UserSummary {
	if p, ok := profiles[id]; ok {
		return p
	}
	return models.UserSummary{ID: id}
}

func preview(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewLength]) + "…"
}
