package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/config"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthHandler(users *mockUserStore, jwt stubJWTService, verifier stubVerifier) *AuthHandler {
	h := NewAuthHandler(users, jwt, verifier, config.AuthConfig{TokenLifetimeMinutes: 60}, nil)
	h.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return h
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    map[string]any
		createErr  error
		wantStatus int
	}{
		{
			name:       "valid registration",
			payload:    map[string]any{"email": "Test@Example.com", "password": "password1234567"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid email",
			payload:    map[string]any{"email": "invalid-email", "password": "password1234567"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "password too short",
			payload:    map[string]any{"email": "a@example.com", "password": "short"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing password",
			payload:    map[string]any{"email": "a@example.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate email",
			payload:    map[string]any{"email": "taken@example.com", "password": "password1234567"},
			createErr:  store.ErrEmailExists,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "store failure",
			payload:    map[string]any{"email": "b@example.com", "password": "password1234567"},
			createErr:  errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			users := new(mockUserStore)
			users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(tt.createErr)
			h := newTestAuthHandler(users, stubJWTService{token: "test-token"}, stubVerifier{})

			rec := serve(t, http.HandlerFunc(h.Register), http.MethodPost, "/auth/register", tt.payload)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusCreated {
				return
			}
			var resp AuthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEqual(t, uuid.Nil, resp.UserID)
			assert.Equal(t, "test-token", resp.AccessToken)
			assert.Equal(t, "2025-03-01T13:00:00Z", resp.ExpiresAt)

			created := users.Calls[0].Arguments.Get(1).(*domain.User)
			assert.Equal(t, "test@example.com", created.Email)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("password1234567"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{ID: uuid.New(), Email: "user@example.com", HashedPassword: string(hash)}

	tests := []struct {
		name       string
		email      string
		user       *domain.User
		lookupErr  error
		verifyErr  error
		wantStatus int
	}{
		{name: "valid credentials", email: user.Email, user: user, wantStatus: http.StatusOK},
		{name: "unknown email", email: "nobody@example.com", lookupErr: store.ErrUserNotFound,
			wantStatus: http.StatusUnauthorized},
		{name: "wrong password", email: user.Email, user: user, verifyErr: bcrypt.ErrMismatchedHashAndPassword,
			wantStatus: http.StatusUnauthorized},
		{name: "store failure", email: user.Email, lookupErr: errors.New("timeout"),
			wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			users := new(mockUserStore)
			users.On("GetByEmail", mock.Anything, tt.email).Return(tt.user, tt.lookupErr)
			h := newTestAuthHandler(users, stubJWTService{token: "login-token"}, stubVerifier{err: tt.verifyErr})

			rec := serve(t, http.HandlerFunc(h.Login), http.MethodPost, "/auth/login",
				LoginRequest{Email: tt.email, Password: "password1234567"})

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), "Invalid credentials")
			}
			if tt.wantStatus == http.StatusOK {
				var resp AuthResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, user.ID, resp.UserID)
				assert.Equal(t, "login-token", resp.AccessToken)
			}
		})
	}
}

func TestAuthHandler_TokenFailure(t *testing.T) {
	t.Parallel()
	users := new(mockUserStore)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	h := newTestAuthHandler(users, stubJWTService{err: errors.New("signing failed")}, stubVerifier{})

	rec := serve(t, http.HandlerFunc(h.Register), http.MethodPost, "/auth/register",
		RegisterRequest{Email: "c@example.com", Password: "password1234567"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to generate authentication token")
}
