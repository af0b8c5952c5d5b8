package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/validation"
)

type mockUserRepo struct {
	users       map[string]*models.User
	findByIDs   int
	updateCalls int
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	m := &mockUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	m.findByIDs++
	var out []models.User
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	m.updateCalls++
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func TestUserServiceSummariesUsesCache(t *testing.T) {
	repo := newMockUserRepo(&models.User{ID: "u1", FullName: "Bu Guru", Role: models.RoleTeacher})
	cache := NewCacheService(newMemoryCacheRepo(), NewMetricsService(), time.Minute, zap.NewNop(), true)
	svc := NewUserService(repo, cache, validation.New(), zap.NewNop())

	first, err := svc.Summaries(context.Background(), []string{"u1", "missing"})
	require.NoError(t, err)
	assert.Equal(t, "Bu Guru", first["u1"].FullName)
	assert.NotContains(t, first, "missing")

	second, err := svc.Summaries(context.Background(), []string{"u1"})
	require.NoError(t, err)
	assert.Equal(t, first["u1"], second["u1"])
	assert.Equal(t, 1, repo.findByIDs)
}

func TestUserServiceGetNotFound(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), nil, validation.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUserServiceUpdateProfileTeacher(t *testing.T) {
	repo := newMockUserRepo(&models.User{ID: "t1", FullName: "Old", Role: models.RoleTeacher})
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewUserService(repo, cache, validation.New(), zap.NewNop())
	_, err := svc.Summaries(context.Background(), []string{"t1"})
	require.NoError(t, err)
	require.Contains(t, cacheRepo.entries, userSummaryCachePrefix+"t1")

	name := "Pak Budi"
	updated, err := svc.UpdateProfile(context.Background(), "t1", models.UpdateProfileRequest{FullName: &name, Subjects: []string{"Math", "Physics"}})
	require.NoError(t, err)
	assert.Equal(t, "Pak Budi", updated.FullName)
	assert.Equal(t, []string{"Math", "Physics"}, []string(repo.users["t1"].Subjects))
	assert.NotContains(t, cacheRepo.entries, userSummaryCachePrefix+"t1")
}

func TestUserServiceUpdateProfileRejectsForeignRoleFields(t *testing.T) {
	studentID := "STU-1"
	repo := newMockUserRepo(&models.User{ID: "s1", FullName: "Student", Role: models.RoleStudent, StudentID: &studentID})
	svc := NewUserService(repo, nil, validation.New(), zap.NewNop())

	child := "Someone"
	_, err := svc.UpdateProfile(context.Background(), "s1", models.UpdateProfileRequest{ChildName: &child, Subjects: []string{"Art"}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Len(t, appErr.Fields, 2)
	assert.Zero(t, repo.updateCalls)
}

func TestUserServiceUpdateProfileParentKeepsLink(t *testing.T) {
	studentID, child := "STU-1", "Adi"
	repo := newMockUserRepo(&models.User{ID: "p1", FullName: "Parent", Role: models.RoleParent, StudentID: &studentID, ChildName: &child})
	svc := NewUserService(repo, nil, validation.New(), zap.NewNop())

	newChild := "Adi Putra"
	updated, err := svc.UpdateProfile(context.Background(), "p1", models.UpdateProfileRequest{ChildName: &newChild})
	require.NoError(t, err)
	require.NotNil(t, updated.ChildName)
	assert.Equal(t, "Adi Putra", *updated.ChildName)
	require.NotNil(t, updated.StudentID)
	assert.Equal(t, "STU-1", *updated.StudentID)
}
