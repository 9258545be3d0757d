package request

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequest(t *testing.T) {
	expectedMap := map[string]string{"email": "email", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Email: "email", Password: "password"}

	actual, _ := json.Marshal(loginReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "password", loginReq.Password)
}

func TestSignupRequest(t *testing.T) {
	signupReq := Signup{Name: "Ana", Email: "ana@example.com", Password: "secret-password"}

	actual, err := json.Marshal(signupReq)
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"Ana","email":"ana@example.com","password":"***"}`, string(actual))
	assert.Equal(t, "secret-password", signupReq.Password)
}

func TestRequestsDoNotLogPasswords(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logger.Info().
		Object("login", Login{Email: "ana@example.com", Password: "hunter22"}).
		Object("signup", Signup{Name: "Ana", Email: "ana@example.com", Password: "hunter22"}).
		Msg("")

	assert.NotContains(t, buf.String(), "hunter22")
	assert.Contains(t, buf.String(), "ana@example.com")
}
