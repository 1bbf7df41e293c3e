package middleware

import (
	"context"

	"go-blog-app/internal/data"
)

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey = contextKey("user")

// UserInfo represents the identity resolved from the session for one request.
// The zero ID with role "anonymous" means nobody is logged in.
type UserInfo struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

// Anonymous returns the identity used when no session user is present.
func Anonymous() *UserInfo {
	return &UserInfo{Role: "anonymous"}
}

// IsAuthenticated reports whether the request has a logged-in user.
func (u *UserInfo) IsAuthenticated() bool {
	return u.ID != 0
}

// IsAdmin reports whether the request's user holds the admin role.
func (u *UserInfo) IsAdmin() bool {
	return u.Role == data.RoleAdmin
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	// Return an anonymous user if no user info is found in the context.
	return Anonymous()
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}
