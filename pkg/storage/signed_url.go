package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTokenFormat    = errors.New("invalid token format")
	ErrTokenSignature = errors.New("invalid token signature")
	ErrTokenExpired   = errors.New("token expired")
)

// SignedURLSigner creates and validates signed download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// SignedObject is the content of a verified download token.
type SignedObject struct {
	ID        string
	Path      string
	ExpiresAt time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token binding the object id and its storage path until the TTL elapses.
func (s *SignedURLSigner) Sign(id, relPath string) (string, time.Time, error) {
	if id == "" || relPath == "" || strings.Contains(id, ".") {
		return "", time.Time{}, ErrTokenFormat
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	token := strings.Join([]string{id, ts, encodedPath, s.mac(id, ts, encodedPath)}, ".")
	return token, expiresAt, nil
}

// Verify validates the signature and expiry of token.
func (s *SignedURLSigner) Verify(token string) (SignedObject, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return SignedObject{}, ErrTokenFormat
	}
	id, ts, encodedPath, signature := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.mac(id, ts, encodedPath)), []byte(signature)) {
		return SignedObject{}, ErrTokenSignature
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return SignedObject{}, ErrTokenFormat
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return SignedObject{}, ErrTokenFormat
	}
	obj := SignedObject{ID: id, Path: string(rawPath), ExpiresAt: time.Unix(expUnix, 0)}
	if s.now().After(obj.ExpiresAt) {
		return SignedObject{}, ErrTokenExpired
	}
	return obj, nil
}

func (s *SignedURLSigner) mac(id, ts, encodedPath string) string {
	h := hmac.New(sha256.New, s.secret)
	_, _ = h.Write([]byte(id + "|" + ts + "|" + encodedPath))
	return hex.EncodeToString(h.Sum(nil))
}
