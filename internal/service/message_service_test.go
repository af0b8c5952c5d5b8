package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/realtime"
	"github.com/noah-isme/school-connect-api/pkg/validation"
)

const (
	schoolSemesterID = "66666666-6666-4666-8666-666666666666"
	outsiderID       = "77777777-7777-4777-8777-777777777777"
)

// schoolSemester: teacherID teaches studentID (class A), teacher2ID teaches student2ID (class B),
// parentID is linked to studentID.
func schoolSemester() *models.Semester {
	return &models.Semester{
		ID:       schoolSemesterID,
		Name:     "Ganjil",
		IsActive: true,
		Participants: []models.Participant{
			{UserID: teacherID, Role: models.RoleTeacher},
			{UserID: teacher2ID, Role: models.RoleTeacher},
			{UserID: studentID, Role: models.RoleStudent, StudentID: "STU-1"},
			{UserID: student2ID, Role: models.RoleStudent, StudentID: "STU-2"},
			{UserID: parentID, Role: models.RoleParent, StudentID: "STU-1"},
		},
		Classes: []models.Class{
			{ID: "class-a", Name: "A", TeacherID: teacherID, StudentIDs: []string{studentID}},
			{ID: "class-b", Name: "B", TeacherID: teacher2ID, StudentIDs: []string{student2ID}},
		},
		Version: 1,
	}
}

type messageFixture struct {
	svc      *MessageService
	messages *fakeMessageRepo
	notifier *syncNotifier
}

func newMessageFixture(policy MessagingPolicy) messageFixture {
	users := newFakeUsers(
		account(teacherID, models.RoleTeacher),
		account(teacher2ID, models.RoleTeacher),
		studentAccount(studentID, "STU-1"),
		studentAccount(student2ID, "STU-2"),
		account(parentID, models.RoleParent),
		account(outsiderID, models.RoleParent),
	)
	users.users[teacherID].FullName = "Bu Ani"
	users.users[teacher2ID].FullName = "Pak Budi"
	messages := &fakeMessageRepo{}
	notifier := &syncNotifier{}
	svc := NewMessageService(MessageServiceDeps{
		Messages:  messages,
		Semesters: newFakeSemesterRepo(schoolSemester()),
		Accounts:  users,
		Profiles:  NewUserService(users, nil, validation.New(), zap.NewNop()),
		Notifier:  notifier,
		Policy:    policy,
		Validator: validation.New(),
		Logger:    zap.NewNop(),
	})
	return messageFixture{svc: svc, messages: messages, notifier: notifier}
}

func (f messageFixture) send(t *testing.T, from, to, content string) *models.Message {
	t.Helper()
	m, err := f.svc.Send(context.Background(), from, models.SendMessageRequest{RecipientID: to, SemesterID: schoolSemesterID, Content: content})
	require.NoError(t, err)
	return m
}

func TestMessageServiceScenarioTeacherToStudent(t *testing.T) {
	f := newMessageFixture(PolicyPermissive)
	ctx := context.Background()

	f.send(t, teacherID, studentID, "hi")

	conversations, err := f.svc.Conversations(ctx, studentID, schoolSemesterID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, teacherID, conversations[0].Counterpart.ID)
	require.NotNil(t, conversations[0].LastMessage)
	assert.Equal(t, "hi", conversations[0].LastMessage.Content)
	assert.Equal(t, 1, conversations[0].UnreadCount)
	assert.False(t, conversations[0].Placeholder)

	receipt, err := f.svc.MarkConversationRead(ctx, studentID, teacherID, schoolSemesterID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), receipt.Updated)
	assert.Zero(t, receipt.UnreadCount)

	conversations, err = f.svc.Conversations(ctx, studentID, schoolSemesterID)
	require.NoError(t, err)
	assert.Zero(t, conversations[0].UnreadCount)
}

func TestMessageServiceMarkReadIsIdempotent(t *testing.T) {
	f := newMessageFixture(PolicyPermissive)
	ctx := context.Background()
	f.send(t, teacherID, studentID, "one")
	f.send(t, teacherID, studentID, "two")

	first, err := f.svc.MarkConversationRead(ctx, studentID, teacherID, schoolSemesterID)
	require.NoError(t, err)
	second, err := f.svc.MarkConversationRead(ctx, studentID, teacherID, schoolSemesterID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), first.Updated)
	assert.Zero(t, second.Updated)
	assert.Equal(t, first.UnreadCount, second.UnreadCount)
	assert.Len(t, f.notifier.events[teacherID], 1, "only the first call changes state and notifies")
}

func TestMessageServiceConversationsOrderAndPlaceholders(t *testing.T) {
	f := newMessageFixture(PolicyPermissive)
	ctx := context.Background()
	f.send(t, studentID, teacherID, "from student")
	f.send(t, parentID, teacherID, "from parent")

	conversations, err := f.svc.Conversations(ctx, teacherID, schoolSemesterID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, parentID, conversations[0].Counterpart.ID)
	assert.Equal(t, studentID, conversations[1].Counterpart.ID)

	// teacher2 has never exchanged a message with student2.
	conversations, err = f.svc.Conversations(ctx, student2ID, schoolSemesterID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.True(t, conversations[0].Placeholder)
	assert.Equal(t, models.ConversationPlaceholder, conversations[0].Preview)
	assert.Nil(t, conversations[0].LastMessage)
	assert.Zero(t, conversations[0].UnreadCount)
	assert.Equal(t, "Pak Budi", conversations[0].Counterpart.FullName)
}

func TestMessageServiceConversationsHideOutOfScopeMessages(t *testing.T) {
	f := newMessageFixture(PolicyPermissive)
	// student2 is not in teacher's class; permissive send still stores it.
	f.send(t, student2ID, teacherID, "cross class")

	conversations, err := f.svc.Conversations(context.Background(), teacherID, schoolSemesterID)
	require.NoError(t, err)
	for _, c := range conversations {
		assert.NotEqual(t, student2ID, c.Counterpart.ID)
	}
}

func TestMessageServiceConversationsFallback(t *testing.T) {
	f := newMessageFixture(PolicyPermissive)
	f.send(t, studentID, teacherID, "hello")
	f.messages.aggregateErr = errors.New("aggregation unavailable")

	conversations, err := f.svc.Conversations(context.Background(), teacherID, schoolSemesterID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	for _, c := range conversations {
		assert.True(t, c.Placeholder)
		assert.Zero(t, c.UnreadCount)
	}
}

type failingProfiles struct{}

func (failingProfiles) Summaries(context.Context, []string) (map[string]models.UserSummary, error) {
	return nil, errors.New("profiles unavailable")
}

func TestMessageServiceConversationsSurviveProfileFailure(t *testing.T) {
	f := newMessageFixture(PolicyPermissive)
	f.send(t, studentID, teacherID, "hello")
	f.svc.profiles = failingProfiles{}

	conversations, err := f.svc.Conversations(context.Background(), teacherID, schoolSemesterID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, studentID, conversations[0].Counterpart.ID)
	assert.Empty(t, conversations[0].Counterpart.FullName)
	assert.Equal(t, "hello", conversations[0].Preview)
	assert.True(t, conversations[1].Placeholder)
	assert.Equal(t, parentID, conversations[1].Counterpart.ID)
}

func TestMessageServiceConversationsNotEnrolled(t *testing.T) {
	f := newMessageFixture(PolicyPermissive)

	_, err := f.svc.Conversations(context.Background(), outsiderID, schoolSemesterID)
	assert.ErrorIs(t, err, appErrors.ErrNotEnrolled)

	_, err = f.svc.Conversations(context.Background(), teacherID, "missing")
	assert.ErrorIs(t, err, appErrors.ErrSemesterNotFound)
}

func TestMessageServicePermissivePolicyAllowsNonCounterpart(t *testing.T) {
	f := newMessageFixture(PolicyPermissive)

	m := f.send(t, teacherID, student2ID, "first contact")
	assert.Equal(t, models.MessageTypeText, m.Type)
	assert.Len(t, f.notifier.events[student2ID], 1)
	assert.Equal(t, realtime.EventMessageNew, f.notifier.events[student2ID][0].Type)

	// Outsiders are not enrolled at all and can still send.
	_, err := f.svc.Send(context.Background(), outsiderID, models.SendMessageRequest{RecipientID: teacherID, SemesterID: schoolSemesterID, Content: "hello"})
	assert.NoError(t, err)
}

func TestMessageServiceCounterpartsOnlyPolicy(t *testing.T) {
	f := newMessageFixture(PolicyCounterpartsOnly)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, teacherID, models.SendMessageRequest{RecipientID: student2ID, SemesterID: schoolSemesterID, Content: "no"})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = f.svc.Send(ctx, outsiderID, models.SendMessageRequest{RecipientID: teacherID, SemesterID: schoolSemesterID, Content: "no"})
	assert.ErrorIs(t, err, appErrors.ErrNotEnrolled)

	f.send(t, teacherID, parentID, "allowed")
}

func TestMessageServiceSendFailures(t *testing.T) {
	f := newMessageFixture(PolicyPermissive)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, teacherID, models.SendMessageRequest{RecipientID: "88888888-8888-4888-8888-888888888888", SemesterID: schoolSemesterID, Content: "x"})
	assert.ErrorIs(t, err, appErrors.ErrRecipientNotFound)

	_, err = f.svc.Send(ctx, teacherID, models.SendMessageRequest{RecipientID: studentID, SemesterID: "99999999-9999-4999-8999-999999999999", Content: "x"})
	assert.ErrorIs(t, err, appErrors.ErrSemesterNotFound)

	_, err = f.svc.Send(ctx, teacherID, models.SendMessageRequest{RecipientID: studentID, SemesterID: schoolSemesterID})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.Send(ctx, teacherID, models.SendMessageRequest{RecipientID: teacherID, SemesterID: schoolSemesterID, Content: "me"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, f.messages.messages)
}

func TestMessageServiceThreadAndUnread(t *testing.T) {
	f := newMessageFixture(PolicyPermissive)
	ctx := context.Background()
	f.send(t, teacherID, studentID, "1")
	f.send(t, studentID, teacherID, "2")
	f.send(t, teacherID, studentID, "3")
	f.send(t, teacher2ID, studentID, "other")

	thread, page, err := f.svc.Thread(ctx, studentID, teacherID, schoolSemesterID, models.PageQuery{})
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{thread[0].Content, thread[1].Content, thread[2].Content})
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 20, page.PageSize)

	count, err := f.svc.UnreadCount(ctx, studentID, schoolSemesterID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMessageServiceContacts(t *testing.T) {
	f := newMessageFixture(PolicyPermissive)

	contacts, err := f.svc.Contacts(context.Background(), parentID, schoolSemesterID)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, teacherID, contacts[0].ID)
	assert.Equal(t, "Bu Ani", contacts[0].FullName)
}

func TestMessagingPolicyDefaultIsPermissive(t *testing.T) {
	var policy MessagingPolicy
	assert.Equal(t, PolicyPermissive, policy)
	assert.Equal(t, "permissive", policy.String())
	assert.Equal(t, PolicyPermissive, NewMessageService(MessageServiceDeps{}).Policy())
}
