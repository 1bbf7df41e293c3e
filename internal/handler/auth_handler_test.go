//go:build unit

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go-blog-app/internal/data"
	"go-blog-app/internal/session"
)

// mockSessionManager is a mock implementation of the session.Manager interface.
type mockSessionManager struct {
	destroyCalled    bool
	renewTokenCalled bool
	putKey           string
	putValue         interface{}
}

// Ensure mockSessionManager implements the session.Manager interface.
var _ session.Manager = (*mockSessionManager)(nil)

func (m *mockSessionManager) LoadAndSave(next http.Handler) http.Handler { return next }
func (m *mockSessionManager) Put(ctx context.Context, key string, val interface{}) {
	m.putKey = key
	m.putValue = val
}
func (m *mockSessionManager) GetString(ctx context.Context, key string) string { return "" }
func (m *mockSessionManager) GetInt64(ctx context.Context, key string) int64   { return 0 }
func (m *mockSessionManager) PopString(ctx context.Context, key string) string { return "" }
func (m *mockSessionManager) Remove(ctx context.Context, key string)           {}
func (m *mockSessionManager) RenewToken(ctx context.Context) error {
	m.renewTokenCalled = true
	return nil
}
func (m *mockSessionManager) Destroy(ctx context.Context) error {
	m.destroyCalled = true
	return nil
}

// mockAuthService is a mock implementation of the service.AuthServicer interface.
type mockAuthService struct {
	registerErr     error
	authenticateErr error
	userToReturn    *data.User
}

func (m *mockAuthService) Register(ctx context.Context, name, email, password string) (*data.User, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return m.userToReturn, nil
}

func (m *mockAuthService) Authenticate(ctx context.Context, email, password string) (*data.User, error) {
	if m.authenticateErr != nil {
		return nil, m.authenticateErr
	}
	return m.userToReturn, nil
}

func TestLogoutHandler(t *testing.T) {
	// Arrange
	mockSession := &mockSessionManager{}
	// We pass nil for the auth service and view as they are not used by the logout handler.
	authHandler := NewAuthHandler(nil, mockSession, nil)

	req := httptest.NewRequest("GET", "/logout", nil)
	rr := httptest.NewRecorder()

	// Act
	appErr := authHandler.logoutHandler(rr, req)

	// Assert
	if appErr != nil {
		t.Fatalf("unexpected handler error: %v", appErr.Error)
	}
	if !mockSession.destroyCalled {
		t.Error("expected session.Destroy to be called, but it wasn't")
	}

	if rr.Code != http.StatusFound {
		t.Errorf("want status code %d; got %d", http.StatusFound, rr.Code)
	}

	location, err := rr.Result().Location()
	if err != nil {
		t.Fatalf("could not get redirect location: %v", err)
	}
	if location.Path != "/" {
		t.Errorf("want redirect to '/'; got '%s'", location.Path)
	}
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	mockSession := &mockSessionManager{}
	authHandler := NewAuthHandler(&mockAuthService{registerErr: data.ErrDuplicateEmail}, mockSession, nil)

	form := url.Values{"name": {"Alice"}, "email": {"a@x.com"}, "password": {"secret"}}
	req := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	appErr := authHandler.registerHandler(rr, req)

	if appErr != nil {
		t.Fatalf("duplicate email must be advisory, not an error page: %v", appErr.Error)
	}
	if rr.Code != http.StatusFound {
		t.Errorf("want status code %d; got %d", http.StatusFound, rr.Code)
	}
	location, err := rr.Result().Location()
	if err != nil {
		t.Fatalf("could not get redirect location: %v", err)
	}
	if location.Path != "/login" {
		t.Errorf("want redirect to '/login'; got '%s'", location.Path)
	}
	if mockSession.putKey != flashKey {
		t.Errorf("expected a flash message to be set, got key %q", mockSession.putKey)
	}
}

func TestLoginHandler_EstablishesSession(t *testing.T) {
	mockSession := &mockSessionManager{}
	user := &data.User{ID: 42, Email: "a@x.com", Name: "Alice", Role: data.RoleAdmin}
	authHandler := NewAuthHandler(&mockAuthService{userToReturn: user}, mockSession, nil)

	form := url.Values{"email": {"a@x.com"}, "password": {"secret"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	appErr := authHandler.loginHandler(rr, req)

	if appErr != nil {
		t.Fatalf("unexpected handler error: %v", appErr.Error)
	}
	if !mockSession.renewTokenCalled {
		t.Error("expected the session token to be renewed on login")
	}
	if mockSession.putValue != int64(42) {
		t.Errorf("expected user id 42 stored in session, got %v", mockSession.putValue)
	}
	if rr.Code != http.StatusFound {
		t.Errorf("want status code %d; got %d", http.StatusFound, rr.Code)
	}
}
