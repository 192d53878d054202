package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/inamate/drawboard/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	s := NewService(db, "test-secret")
	s.cost = bcrypt.MinCost
	return s
}

func TestRegisterLogin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, "ada@example.com", "correct horse", "Ada")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := s.Register(ctx, "ada@example.com", "another one", "Ada"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate Register() error = %v", err)
	}

	login, err := s.Login(ctx, "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("login user %q, registered %q", login.User.ID, reg.User.ID)
	}

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "ada@example.com", "nope"},
		{"unknown email", "bob@example.com", "correct horse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Login(ctx, tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login() error = %v", err)
			}
		})
	}

	id, err := s.ValidateToken(login.Token)
	if err != nil || id != reg.User.ID {
		t.Errorf("ValidateToken() = %q, %v", id, err)
	}
	other := NewService(nil, "other-secret")
	if _, err := other.ValidateToken(login.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token from another secret error = %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	s := newTestService(t)
	res, err := s.Register(context.Background(), "ada@example.com", "correct horse", "Ada")
	if err != nil {
		t.Fatal(err)
	}

	var seen string
	h := s.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + res.Token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
	if seen != res.User.ID {
		t.Errorf("context user = %q", seen)
	}
}

func TestHandlerRegister(t *testing.T) {
	h := NewHandler(newTestService(t))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"email":"Ada@Example.com ","password":"long enough","displayName":"Ada"}`, http.StatusCreated},
		{"taken", `{"email":"ada@example.com","password":"long enough","displayName":"Ada"}`, http.StatusConflict},
		{"short password", `{"email":"b@example.com","password":"short","displayName":"B"}`, http.StatusBadRequest},
		{"missing name", `{"email":"c@example.com","password":"long enough"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewBufferString(`{"email":"ADA@example.com","password":"long enough"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	var res AuthResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.User.Email != "ada@example.com" || res.Token == "" {
		t.Errorf("login result = %+v", res)
	}
}
