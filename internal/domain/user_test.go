package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("test@example.com", "correct horse battery")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "correct horse battery", user.Password)
	assert.Empty(t, user.HashedPassword)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		user    User
		wantErr error
	}{
		{
			name:    "missing ID",
			user:    User{Email: "a@example.com", HashedPassword: "hash"},
			wantErr: ErrEmptyUserID,
		},
		{
			name:    "missing email",
			user:    User{ID: uuid.New(), HashedPassword: "hash"},
			wantErr: ErrEmptyEmail,
		},
		{
			name:    "malformed email",
			user:    User{ID: uuid.New(), Email: "not-an-email", HashedPassword: "hash"},
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "short password",
			user:    User{ID: uuid.New(), Email: "a@example.com", Password: "short"},
			wantErr: ErrPasswordTooShort,
		},
		{
			name:    "long password",
			user:    User{ID: uuid.New(), Email: "a@example.com", Password: strings.Repeat("x", 73)},
			wantErr: ErrPasswordTooLong,
		},
		{
			name:    "no password at all",
			user:    User{ID: uuid.New(), Email: "a@example.com"},
			wantErr: ErrEmptyPassword,
		},
		{
			name: "stored user with hash",
			user: User{ID: uuid.New(), Email: "a@example.com", HashedPassword: "hash"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.user.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
