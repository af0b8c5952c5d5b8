// Package apiclient is a typed HTTP client for the School Connect API.
//
// Credentials travel with each call's context (see WithToken); the client itself holds no
// per-user state and is safe to share between callers acting as different users.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
)

type tokenKey struct{}

// WithToken returns a context whose requests are sent with the given bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token stored by WithToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// Client talks to one API base URL, e.g. http://localhost:8080/api/v1.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New constructs a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: 10 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Data       json.RawMessage    `json:"data"`
	Error      *appErrors.Error   `json:"error"`
	Pagination *models.Pagination `json:"pagination"`
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns a session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, models.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the account behind the context token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSemester opens a semester; the caller must be a teacher.
func (c *Client) CreateSemester(ctx context.Context, req models.CreateSemesterRequest) (*models.SemesterView, error) {
	var out models.SemesterView
	if err := c.do(ctx, http.MethodPost, "/semesters", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddParticipant enrolls an account.
func (c *Client) AddParticipant(ctx context.Context, semesterID string, req models.AddParticipantRequest) (*models.SemesterView, error) {
	var out models.SemesterView
	if err := c.do(ctx, http.MethodPost, "/semesters/"+url.PathEscape(semesterID)+"/participants", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddClass creates a class in a semester.
func (c *Client) AddClass(ctx context.Context, semesterID string, req models.ClassRequest) (*models.SemesterView, error) {
	var out models.SemesterView
	if err := c.do(ctx, http.MethodPost, "/semesters/"+url.PathEscape(semesterID)+"/classes", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendMessage sends a direct message.
func (c *Client) SendMessage(ctx context.Context, req models.SendMessageRequest) (*models.Message, error) {
	var out models.Message
	if err := c.do(ctx, http.MethodPost, "/messages", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Conversations lists the caller's inbox for a semester.
func (c *Client) Conversations(ctx context.Context, semesterID string) ([]models.Conversation, error) {
	var out []models.Conversation
	if err := c.do(ctx, http.MethodGet, "/messages/conversations", url.Values{"semesterId": {semesterID}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead marks the conversation with otherID as read.
func (c *Client) MarkRead(ctx context.Context, otherID, semesterID string) (*models.ReadReceipt, error) {
	var out models.ReadReceipt
	path := "/messages/conversations/" + url.PathEscape(otherID) + "/read"
	if err := c.do(ctx, http.MethodPut, path, url.Values{"semesterId": {semesterID}}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode response (%d): %w", resp.StatusCode, err)
		}
	}
	if resp.StatusCode >= 400 {
		if env.Error != nil {
			return env.Error
		}
		return appErrors.New("HTTP_"+fmt.Sprint(resp.StatusCode), resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// IsCode reports whether err is an API error carrying code.
func IsCode(err error, code string) bool {
	var apiErr *appErrors.Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}
