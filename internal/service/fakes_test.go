package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
)

// fakeSemesterRepo stores copies so callers cannot mutate stored state without Update.
type fakeSemesterRepo struct {
	mu        sync.Mutex
	semesters map[string]*models.Semester
	findErr   error
}

func newFakeSemesterRepo(semesters ...*models.Semester) *fakeSemesterRepo {
	r := &fakeSemesterRepo{semesters: map[string]*models.Semester{}}
	for _, s := range semesters {
		if s.Version == 0 {
			s.Version = 1
		}
		r.semesters[s.ID] = cloneSemester(s)
	}
	return r
}

func cloneSemester(s *models.Semester) *models.Semester {
	raw, _ := json.Marshal(s)
	var out models.Semester
	_ = json.Unmarshal(raw, &out)
	return &out
}

func (r *fakeSemesterRepo) Create(ctx context.Context, s *models.Semester) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.Version = 1
	s.CreatedAt, s.UpdatedAt = time.Now().UTC(), time.Now().UTC()
	r.semesters[s.ID] = cloneSemester(s)
	return nil
}

func (r *fakeSemesterRepo) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	s, ok := r.semesters[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cloneSemester(s), nil
}

func (r *fakeSemesterRepo) ListForUser(ctx context.Context, userID string) ([]models.Semester, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Semester
	for _, s := range r.semesters {
		if _, ok := s.FindParticipant(userID); ok || s.CreatedBy == userID {
			out = append(out, *cloneSemester(s))
		}
	}
	return out, nil
}

func (r *fakeSemesterRepo) Update(ctx context.Context, s *models.Semester) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.semesters[s.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if stored.Version != s.Version {
		return appErrors.ErrVersionConflict
	}
	s.Version++
	r.semesters[s.ID] = cloneSemester(s)
	return nil
}

// fakeUsers serves account lookups and collects audit logs.
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
	audit []*models.AuditLog
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *u
	return &copy, nil
}

func (f *fakeUsers) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *user
	f.users[user.ID] = &copy
	return nil
}

func (f *fakeUsers) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audit = append(f.audit, log)
	return nil
}

func account(id string, role models.UserRole) *models.User {
	return &models.User{ID: id, Email: id + "@example.com", FullName: "Account " + id, Role: role, Active: true}
}

func studentAccount(id, studentID string) *models.User {
	u := account(id, models.RoleStudent)
	u.StudentID = &studentID
	return u
}

// fakeMessageRepo mirrors the aggregation rules of the SQL repository in memory.
type fakeMessageRepo struct {
	mu           sync.Mutex
	messages     []models.Message
	seq          int
	aggregateErr error
}

func (r *fakeMessageRepo) Create(ctx context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if m.ID == "" {
		m.ID = fmt.Sprintf("msg-%d", r.seq)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	// Keep creation order observable even when the clock does not advance.
	m.CreatedAt = m.CreatedAt.Add(time.Duration(r.seq) * time.Microsecond)
	r.messages = append(r.messages, *m)
	return nil
}

func between(m models.Message, a, b string) bool {
	return (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a)
}

func (r *fakeMessageRepo) Thread(ctx context.Context, userID, otherID, semesterID string, page models.PageQuery) ([]models.Message, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Message
	for _, m := range r.messages {
		if m.SemesterID == semesterID && between(m, userID, otherID) {
			out = append(out, m)
		}
	}
	total := len(out)
	start := page.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + page.PageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *fakeMessageRepo) ConversationSummaries(ctx context.Context, userID, semesterID string, counterpartIDs []string) ([]models.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aggregateErr != nil {
		return nil, r.aggregateErr
	}
	allowed := map[string]bool{}
	for _, id := range counterpartIDs {
		allowed[id] = true
	}
	byCounterpart := map[string]*models.ConversationSummary{}
	for _, m := range r.messages {
		if m.SemesterID != semesterID {
			continue
		}
		var other string
		switch {
		case m.SenderID == userID:
			other = m.RecipientID
		case m.RecipientID == userID:
			other = m.SenderID
		default:
			continue
		}
		if !allowed[other] {
			continue
		}
		summary, ok := byCounterpart[other]
		if !ok {
			summary = &models.ConversationSummary{CounterpartID: other, LastMessage: m}
			byCounterpart[other] = summary
		}
		if m.CreatedAt.After(summary.LastMessage.CreatedAt) {
			summary.LastMessage = m
		}
		if m.RecipientID == userID && !m.IsRead {
			summary.UnreadCount++
		}
	}
	out := make([]models.ConversationSummary, 0, len(byCounterpart))
	for _, s := range byCounterpart {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt) })
	return out, nil
}

func (r *fakeMessageRepo) MarkConversationRead(ctx context.Context, userID, otherID, semesterID string, readAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.messages {
		m := &r.messages[i]
		if m.RecipientID == userID && m.SenderID == otherID && m.SemesterID == semesterID && !m.IsRead {
			m.IsRead = true
			at := readAt
			m.ReadAt = &at
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) CountUnread(ctx context.Context, userID, semesterID, senderID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, m := range r.messages {
		if m.RecipientID == userID && m.SemesterID == semesterID && !m.IsRead && (senderID == "" || m.SenderID == senderID) {
			count++
		}
	}
	return count, nil
}

type fakeDiscussionRepo struct {
	mu          sync.Mutex
	discussions map[string]*models.Discussion
	replies     map[string][]models.Reply
	seq         int
}

func newFakeDiscussionRepo() *fakeDiscussionRepo {
	return &fakeDiscussionRepo{discussions: map[string]*models.Discussion{}, replies: map[string][]models.Reply{}}
}

func (r *fakeDiscussionRepo) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *fakeDiscussionRepo) Create(ctx context.Context, d *models.Discussion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = r.nextID("disc")
	now := time.Now().UTC().Add(time.Duration(r.seq) * time.Microsecond)
	d.CreatedAt, d.UpdatedAt, d.LastActivity = now, now, now
	copy := *d
	r.discussions[d.ID] = &copy
	return nil
}

func (r *fakeDiscussionRepo) FindByID(ctx context.Context, id string) (*models.Discussion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.discussions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *d
	copy.ReplyCount = len(r.replies[id])
	return &copy, nil
}

func (r *fakeDiscussionRepo) List(ctx context.Context, filter models.DiscussionFilter) ([]models.Discussion, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(filter.Query)
	var out []models.Discussion
	for _, d := range r.discussions {
		if d.SemesterID != filter.SemesterID {
			continue
		}
		if filter.Category != "" && d.Category != filter.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(d.Title+" "+d.Content+" "+strings.Join(d.Tags, " ")), q) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out, len(out), nil
}

func (r *fakeDiscussionRepo) Update(ctx context.Context, d *models.Discussion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.discussions[d.ID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Title, stored.Content, stored.Category, stored.Tags = d.Title, d.Content, d.Category, d.Tags
	return nil
}

func (r *fakeDiscussionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.discussions[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.discussions, id)
	delete(r.replies, id)
	return nil
}

func (r *fakeDiscussionRepo) IncrementViews(ctx context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.discussions[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	d.Views++
	return d.Views, nil
}

func (r *fakeDiscussionRepo) SetPinned(ctx context.Context, id string, pinned bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.discussions[id]
	if !ok {
		return sql.ErrNoRows
	}
	d.IsPinned = pinned
	return nil
}

func (r *fakeDiscussionRepo) SetClosed(ctx context.Context, id string, closed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.discussions[id]
	if !ok {
		return sql.ErrNoRows
	}
	d.IsClosed = closed
	return nil
}

func (r *fakeDiscussionRepo) Replies(ctx context.Context, discussionID string) ([]models.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Reply{}, r.replies[discussionID]...), nil
}

func (r *fakeDiscussionRepo) CreateReply(ctx context.Context, reply *models.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.discussions[reply.DiscussionID]
	if !ok || d.IsClosed {
		return sql.ErrNoRows
	}
	reply.ID = r.nextID("reply")
	reply.CreatedAt = time.Now().UTC()
	reply.UpdatedAt = reply.CreatedAt
	d.LastActivity = reply.CreatedAt.Add(time.Duration(r.seq) * time.Microsecond)
	r.replies[d.ID] = append(r.replies[d.ID], *reply)
	return nil
}

func (r *fakeDiscussionRepo) FindReply(ctx context.Context, discussionID, replyID string) (*models.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reply := range r.replies[discussionID] {
		if reply.ID == replyID {
			copy := reply
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeDiscussionRepo) UpdateReply(ctx context.Context, reply *models.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.replies[reply.DiscussionID]
	for i := range list {
		if list[i].ID == reply.ID {
			reply.IsEdited = true
			list[i] = *reply
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *fakeDiscussionRepo) DeleteReply(ctx context.Context, discussionID, replyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.replies[discussionID]
	for i := range list {
		if list[i].ID == replyID {
			r.replies[discussionID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeCalendarRepo struct {
	mu     sync.Mutex
	seq    int
	events map[string]models.CalendarEvent
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{events: map[string]models.CalendarEvent{}}
}

func (r *fakeCalendarRepo) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CalendarEvent
	for _, e := range r.events {
		if e.CreatedBy != filter.OwnerID || e.SemesterID != filter.SemesterID {
			continue
		}
		if filter.From != nil && e.EndAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.StartAt.After(*filter.To) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (r *fakeCalendarRepo) FindOwned(ctx context.Context, id, ownerID string) (*models.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.CreatedBy != ownerID {
		return nil, sql.ErrNoRows
	}
	return &e, nil
}

func (r *fakeCalendarRepo) Create(ctx context.Context, event *models.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	event.ID = fmt.Sprintf("evt-%d", r.seq)
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	r.events[event.ID] = *event
	return nil
}

func (r *fakeCalendarRepo) Update(ctx context.Context, event *models.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.events[event.ID]
	if !ok || current.CreatedBy != event.CreatedBy {
		return sql.ErrNoRows
	}
	r.events[event.ID] = *event
	return nil
}

func (r *fakeCalendarRepo) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.CreatedBy != ownerID {
		return sql.ErrNoRows
	}
	delete(r.events, id)
	return nil
}

func (r *fakeCalendarRepo) ToggleComplete(ctx context.Context, id, ownerID string) (*models.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.CreatedBy != ownerID {
		return nil, sql.ErrNoRows
	}
	e.IsCompleted = !e.IsCompleted
	r.events[id] = e
	return &e, nil
}
