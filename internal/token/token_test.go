package token

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/ordering/internal/errors"
)

func TestIssueAndVerify(t *testing.T) {
	userId := uuid.New()
	tests := []struct {
		name        string
		secret      string
		verifyWith  string
		now         time.Time
		ttl         time.Duration
		expectedErr error
	}{
		{
			name:        "given valid token should return claims",
			secret:      "secret",
			verifyWith:  "secret",
			now:         time.Now(),
			ttl:         time.Hour,
			expectedErr: nil,
		},
		{
			name:        "given token signed with another key should return ErrTokenInvalid",
			secret:      "secret",
			verifyWith:  "other",
			now:         time.Now(),
			ttl:         time.Hour,
			expectedErr: errors.ErrTokenInvalid,
		},
		{
			name:        "given expired token should return ErrTokenInvalid",
			secret:      "secret",
			verifyWith:  "secret",
			now:         time.Now().Add(-2 * time.Hour),
			ttl:         time.Hour,
			expectedErr: errors.ErrTokenInvalid,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			signed, err := Issue(test.secret, test.ttl, userId, ROLE_CUSTOMER, test.now)
			require.NoError(t, err)

			claims, err := Verify(context.Background(), test.verifyWith, signed)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			actual, err := claims.UserID()
			require.NoError(t, err)
			assert.Equal(t, userId, actual)
			assert.Equal(t, ROLE_CUSTOMER, claims.Role)
			assert.False(t, claims.Privileged())
		})
	}
}

func TestClaimsFromContext(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())
	assert.ErrorIs(t, err, errors.ErrEmptyAuth)

	claims := &Claims{Role: ROLE_ADMIN}
	actual, err := ClaimsFromContext(AttachClaims(context.Background(), claims))
	require.NoError(t, err)
	assert.True(t, actual.Privileged())
}
