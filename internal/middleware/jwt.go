package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-connect-api/internal/models"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/logger"
	"github.com/noah-isme/school-connect-api/pkg/response"
)

const (
	// ContextUserKey is the gin context key storing JWT claims.
	ContextUserKey = "currentUser"
	// ContextAccountKey is the gin context key storing the resolved account.
	ContextAccountKey = "currentAccount"
)

type callerKey struct{}

// TokenResolver turns an access token into the active account behind it.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, *models.JWTClaims, error)
}

// JWT protects routes by requiring a valid access token for an active account.
func JWT(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			response.Abort(c, err)
			return
		}

		user, claims, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(ContextAccountKey, user)
		c.Set(logger.UserIDKey, user.ID)
		c.Request = c.Request.WithContext(WithCaller(c.Request.Context(), user))
		c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", appErrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// WithCaller stores the authenticated account on a request context.
func WithCaller(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, callerKey{}, user)
}

// CallerFromContext returns the account stored by WithCaller.
func CallerFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(callerKey{}).(*models.User)
	return user, ok && user != nil
}
