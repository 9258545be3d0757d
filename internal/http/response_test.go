package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorResponse(t *testing.T) {
	recorder := httptest.NewRecorder()

	WriteErrorResponse(context.Background(), recorder, http.StatusNotFound, "Restaurant not found", nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, VALUE_HEADER_APPLICATION_JSON, recorder.Header().Get(KEY_HEADER_CONTENT_TYPE))
	assert.JSONEq(t, `{"message":"Restaurant not found","status":404}`, recorder.Body.String())
}

func TestWriteNoContent(t *testing.T) {
	recorder := httptest.NewRecorder()

	WriteNoContent(context.Background(), recorder)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.String())
}

func TestFieldErrors(t *testing.T) {
	type body struct {
		Name  string `validate:"required"`
		Email string `validate:"required,email"`
	}
	err := validator.New().Struct(body{Email: "not-an-email"})
	require.Error(t, err)

	fields := FieldErrors(err)

	assert.Equal(t, map[string][]string{
		"name":  {"is required"},
		"email": {"must be a valid email"},
	}, fields)
	assert.Nil(t, FieldErrors(errors.New("plain")))

	raw, err := json.Marshal(ErrorResponse{Message: "Validation failed", Status: 400, Errors: fields})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"errors":{`)
}
