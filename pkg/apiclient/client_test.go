package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
)

func TestClientMeUsesContextToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/me", r.URL.Path)
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"id": token, "email": token + "@school.test"},
		})
	}))
	defer srv.Close()

	client := New(srv.URL + "/api/v1/")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := fmt.Sprintf("user-%d", i)
			me, err := client.Me(WithToken(context.Background(), token))
			if assert.NoError(t, err) {
				assert.Equal(t, token, me.ID)
			}
		}(i)
	}
	wg.Wait()
}

func TestClientSendsNoAuthorizationWithoutToken(t *testing.T) {
	headers := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Get("Authorization")
		var body models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "teacher@school.test", body.Email)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"token": "access", "refresh_token": "refresh"},
		})
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Login(context.Background(), "teacher@school.test", "secret1")
	require.NoError(t, err)
	assert.Empty(t, <-headers)
	assert.Equal(t, "access", resp.Token)
	assert.Equal(t, "refresh", resp.RefreshToken)
}

func TestClientDecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sem-1", r.URL.Query().Get("semesterId"))
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": "NOT_A_PARTICIPANT", "message": "nope", "status": 403},
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Conversations(WithToken(context.Background(), "t"), "sem-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotParticipant)
	assert.True(t, IsCode(err, "NOT_A_PARTICIPANT"))
}

func TestClientFallsBackToStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Me(WithToken(context.Background(), "t"))
	require.Error(t, err)
	assert.True(t, IsCode(err, "HTTP_502"))
}

func TestTokenFromContext(t *testing.T) {
	_, ok := TokenFromContext(context.Background())
	assert.False(t, ok)

	_, ok = TokenFromContext(WithToken(context.Background(), ""))
	assert.False(t, ok)

	token, ok := TokenFromContext(WithToken(context.Background(), "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
}
