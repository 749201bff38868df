package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/taskline/taskline-go/internal/model"
	"github.com/taskline/taskline-go/internal/repository"
	"github.com/taskline/taskline-go/internal/service"
)

type fakeUserLoader struct {
	users map[int64]*model.User
}

func (f *fakeUserLoader) GetByID(_ context.Context, id int64) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func newAuthFixture() (*service.TokenService, *fakeUserLoader) {
	tokens := service.NewTokenService("test-secret", 30*time.Minute, 24*time.Hour)
	users := &fakeUserLoader{users: map[int64]*model.User{
		1: {ID: 1, Email: "user@example.com", Role: model.RoleUser},
		2: {ID: 2, Email: "admin@example.com", Role: model.RoleAdmin},
	}}
	return tokens, users
}

// okHandler records the context user so tests can assert it was attached.
func okHandler(got **model.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := UserFromContext(r.Context()); ok {
			*got = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func doAuthRequest(t *testing.T, mw func(http.Handler) http.Handler, authorization string, got **model.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	mw(okHandler(got)).ServeHTTP(rec, req)
	return rec
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body
}

func TestAuthenticateValidToken(t *testing.T) {
	tokens, users := newAuthFixture()
	mw := Authenticate(tokens, users)

	token, err := tokens.GenerateToken(1, time.Now().Add(time.Hour), model.TokenTypeAccess)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	var got *model.User
	rec := doAuthRequest(t, mw, "Bearer "+token, &got)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil || got.ID != 1 {
		t.Errorf("expected user 1 in context, got %+v", got)
	}
}

func TestAuthenticateFailuresCollapse(t *testing.T) {
	tokens, users := newAuthFixture()
	mw := Authenticate(tokens, users)

	wrongSecret, err := tokens.GenerateTokenWithSecret(1, time.Now().Add(time.Hour), model.TokenTypeAccess, "invalidSecret")
	if err != nil {
		t.Fatalf("GenerateTokenWithSecret() unexpected error: %v", err)
	}
	expired, err := tokens.GenerateToken(1, time.Now().Add(-time.Minute), model.TokenTypeAccess)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	refresh, err := tokens.GenerateToken(1, time.Now().Add(time.Hour), model.TokenTypeRefresh)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	deletedUser, err := tokens.GenerateToken(2000, time.Now().Add(time.Hour), model.TokenTypeAccess)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	cases := []struct {
		name          string
		authorization string
	}{
		{name: "missing header", authorization: ""},
		{name: "not bearer", authorization: "Basic abc"},
		{name: "garbage token", authorization: "Bearer randomToken"},
		{name: "wrong secret", authorization: "Bearer " + wrongSecret},
		{name: "expired", authorization: "Bearer " + expired},
		{name: "refresh token", authorization: "Bearer " + refresh},
		{name: "user no longer exists", authorization: "Bearer " + deletedUser},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			var got *model.User
			rec := doAuthRequest(t, mw, tt.authorization, &got)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			body := decodeErrorBody(t, rec)
			if body["message"] != "Please authenticate" {
				t.Errorf("message = %v, want %q", body["message"], "Please authenticate")
			}
			if got != nil {
				t.Error("handler must not run on auth failure")
			}
		})
	}
}

func TestAuthenticatePermissions(t *testing.T) {
	tokens, users := newAuthFixture()
	mw := Authenticate(tokens, users, model.PermissionManageTasks)

	userToken, err := tokens.GenerateToken(1, time.Now().Add(time.Hour), model.TokenTypeAccess)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	adminToken, err := tokens.GenerateToken(2, time.Now().Add(time.Hour), model.TokenTypeAccess)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	var got *model.User
	rec := doAuthRequest(t, mw, "Bearer "+userToken, &got)
	if rec.Code != http.StatusForbidden {
		t.Errorf("USER role: status = %d, want 403", rec.Code)
	}

	rec = doAuthRequest(t, mw, "Bearer "+adminToken, &got)
	if rec.Code != http.StatusOK {
		t.Errorf("ADMIN role: status = %d, want 200", rec.Code)
	}
	if got == nil || got.Role != model.RoleAdmin {
		t.Errorf("expected admin user in context, got %+v", got)
	}
}
