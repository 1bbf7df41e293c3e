package handler

import (
	"errors"
	"net/http"

	"go-blog-app/internal/data"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/session"
	"go-blog-app/internal/view"
)

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	authService service.AuthServicer
	sessions    session.Manager
	view        *view.View
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as service.AuthServicer, sm session.Manager, v *view.View) *AuthHandler {
	return &AuthHandler{authService: as, sessions: sm, view: v}
}

// registerFormHandler displays the registration form.
func (h *AuthHandler) registerFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.view.Render(w, "register.html", baseData(r, h.sessions)); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render register page", Code: http.StatusInternalServerError}
	}
	return nil
}

// registerHandler creates a new account and logs it in. A duplicate email is
// an advisory flash plus a redirect to the login page, not an error page.
func (h *AuthHandler) registerHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.authService.Register(r.Context(), name, email, password)
	if err != nil {
		if errors.Is(err, data.ErrDuplicateEmail) {
			h.sessions.Put(r.Context(), flashKey, "You've already signed up with that email, log in instead!")
			http.Redirect(w, r, "/login", http.StatusFound)
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Failed to register", Code: http.StatusInternalServerError}
	}

	if appErr := h.establishSession(r, user); appErr != nil {
		return appErr
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// loginFormHandler displays the login form.
func (h *AuthHandler) loginFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.view.Render(w, "login.html", baseData(r, h.sessions)); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render login page", Code: http.StatusInternalServerError}
	}
	return nil
}

// loginHandler verifies credentials and establishes a session. Failures are
// advisory flashes that send the visitor back to the form.
func (h *AuthHandler) loginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.authService.Authenticate(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownEmail):
			h.sessions.Put(r.Context(), flashKey, "That email does not exist, please try again.")
			http.Redirect(w, r, "/login", http.StatusFound)
			return nil
		case errors.Is(err, service.ErrBadCredential):
			h.sessions.Put(r.Context(), flashKey, "Password incorrect, please try again.")
			http.Redirect(w, r, "/login", http.StatusFound)
			return nil
		default:
			return &middleware.AppError{Error: err, Message: "Failed to log in", Code: http.StatusInternalServerError}
		}
	}

	if appErr := h.establishSession(r, user); appErr != nil {
		return appErr
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// logoutHandler clears the current session. It is idempotent: destroying an
// empty session is fine.
func (h *AuthHandler) logoutHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to log out", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// establishSession binds the session to the given user. The token is renewed
// first so a pre-login session id cannot be fixated onto the account.
func (h *AuthHandler) establishSession(r *http.Request, user *data.User) *middleware.AppError {
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to establish session", Code: http.StatusInternalServerError}
	}
	h.sessions.Put(r.Context(), middleware.SessionUserKey, user.ID)
	return nil
}
