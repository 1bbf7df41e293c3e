package middleware

import (
	"context"
	"net/http"

	"github.com/casbin/casbin/v2"

	"go-blog-app/internal/data"
	"go-blog-app/internal/session"
)

// SessionUserKey is the session key holding the logged-in user's id.
const SessionUserKey = "user_id"

// UserStore is the subset of the user repository the authorizer needs to
// resolve a session id into an identity.
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*data.User, error)
}

// Authorizer creates a new middleware for authorization.
// It resolves the current identity from the session once per request, stores
// it in the request context, and enforces the role's route permissions with
// Casbin. A denial is a plain 403 before any handler logic, so non-admins
// learn nothing about whether a resource exists.
func Authorizer(e *casbin.Enforcer, sm session.Manager, users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := Anonymous()
			if id := sm.GetInt64(r.Context(), SessionUserKey); id != 0 {
				// A stale session pointing at a missing user degrades to
				// anonymous rather than failing the request.
				if user, err := users.GetUserByID(r.Context(), id); err == nil {
					userInfo = &UserInfo{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
				}
			}
			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			// Use Casbin to enforce the policy.
			allowed, err := e.Enforce(userInfo.Role, r.URL.Path, r.Method)
			if err != nil {
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
