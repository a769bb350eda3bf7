package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/api/shared"
	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/phrazzld/repeat/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJWTService struct {
	userID uuid.UUID
	err    error
	got    string
}

func (f *fakeJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeJWTService) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	f.got = token
	if f.err != nil {
		return nil, f.err
	}
	return &auth.Claims{UserID: f.userID, TokenType: auth.TokenTypeAccess}, nil
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	tests := []struct {
		name        string
		header      string
		validateErr error
		wantStatus  int
		wantMessage string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantMessage: "Authorization header required"},
		{name: "basic scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized,
			wantMessage: "Invalid authorization format"},
		{name: "no token", header: "Bearer ", wantStatus: http.StatusUnauthorized,
			wantMessage: "Invalid authorization format"},
		{name: "expired", header: "Bearer old", validateErr: auth.ErrExpiredToken,
			wantStatus: http.StatusUnauthorized, wantMessage: "Token expired"},
		{name: "invalid", header: "Bearer bad", validateErr: auth.ErrInvalidToken,
			wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "wrong type", header: "Bearer refresh", validateErr: auth.ErrWrongTokenType,
			wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "unexpected failure", header: "Bearer x", validateErr: errors.New("keystore offline"),
			wantStatus: http.StatusInternalServerError, wantMessage: "Authentication error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			jwt := &fakeJWTService{userID: userID, err: tt.validateErr}

			var seen uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = shared.UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			NewAuthMiddleware(jwt).Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID, seen)
				assert.Equal(t, "good", jwt.got)
				return
			}
			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body.Error)
			assert.NotContains(t, rec.Body.String(), "keystore")
		})
	}
}

func TestNewAuthMiddlewarePanicsWithoutService(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewAuthMiddleware(nil) })
}

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var traceID string
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(TraceMiddleware(base))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		assert.Equal(t, chimiddleware.GetReqID(r.Context()), traceID)
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, traceID)
	assert.Contains(t, buf.String(), `"msg":"inside handler"`)
	assert.Contains(t, buf.String(), `"trace_id":"`+traceID+`"`)
}

func TestTraceMiddlewareWithoutRequestID(t *testing.T) {
	t.Parallel()

	var traceID string
	h := TraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(traceID)
	assert.NoError(t, err)
}
