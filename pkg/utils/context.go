package utils

import (
	"context"
)

type contextKey string

const (
	currentUserKey contextKey = "current_user"
)

// Identity sources, in the order the auth middleware tries them
const (
	AuthViaSession = "session"
	AuthViaToken   = "token"
)

// CurrentUser is the identity resolved for a request.
type CurrentUser struct {
	ID           string
	Via          string
	SessionToken string
}

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

func CurrentUserFromContext(ctx context.Context) (CurrentUser, bool) {
	user, ok := ctx.Value(currentUserKey).(CurrentUser)
	if !ok || user.ID == "" {
		return CurrentUser{}, false
	}
	return user, true
}

// GetUserIDFromContext returns the authenticated user id
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	user, ok := CurrentUserFromContext(ctx)
	return user.ID, ok
}

// TokenCookie carries the bearer JWT for browser clients
const TokenCookie = "token"
