package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/ordering/internal/config"
	"github.com/Alturino/ordering/internal/errors"
	"github.com/Alturino/ordering/internal/repository/repositorytest"
	"github.com/Alturino/ordering/internal/token"
	"github.com/Alturino/ordering/user/pkg/request"
)

const secret = "test-secret"

func setup(t *testing.T) (*UserService, *repositorytest.Store) {
	t.Helper()
	store := repositorytest.New()
	return NewUserService(store, config.Application{SecretKey: secret, TokenTTL: time.Hour}), store
}

func TestSignup(t *testing.T) {
	svc, store := setup(t)
	c := context.Background()

	auth, err := svc.Signup(c, request.Signup{Name: "Ana", Email: "Ana@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", auth.User.Name)
	assert.Equal(t, "ana@example.com", auth.User.Email)

	claims, err := token.Verify(c, secret, auth.Token)
	require.NoError(t, err)
	assert.Equal(t, token.ROLE_CUSTOMER, claims.Role)
	userId, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, userId)

	stored, err := store.FindUserById(c, auth.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))

	_, err = svc.Signup(c, request.Signup{Name: "Other", Email: "ana@example.com", Password: "password456"})
	assert.ErrorIs(t, err, errors.ErrEmailExist)
}

func TestLogin(t *testing.T) {
	svc, _ := setup(t)
	c := context.Background()
	signedUp, err := svc.Signup(c, request.Signup{Name: "Ana", Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	tests := []struct {
		name        string
		param       request.Login
		expectedErr error
	}{
		{name: "valid credentials", param: request.Login{Email: "ana@example.com", Password: "password123"}},
		{name: "email is case insensitive", param: request.Login{Email: "ANA@example.com", Password: "password123"}},
		{name: "wrong password", param: request.Login{Email: "ana@example.com", Password: "wrong-password"}, expectedErr: errors.ErrInvalidCredential},
		{name: "unknown email", param: request.Login{Email: "bob@example.com", Password: "password123"}, expectedErr: errors.ErrInvalidCredential},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual, err := svc.Login(c, test.param)

			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, signedUp.User, actual.User)
			assert.NotEmpty(t, actual.Token)
		})
	}
}

func TestMe(t *testing.T) {
	svc, _ := setup(t)
	c := context.Background()
	auth, err := svc.Signup(c, request.Signup{Name: "Ana", Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	profile, err := svc.Me(c, auth.User.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, profile.ID)
	assert.Equal(t, token.ROLE_CUSTOMER, profile.Role)
	assert.False(t, profile.CreatedAt.IsZero())

	_, err = svc.Me(c, uuid.New())
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}
