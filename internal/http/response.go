package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/otel"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	statusCode int,
	body any,
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "WriteJsonResponse").
		Int(constants.KEY_RESPONSE_STATUS, statusCode).
		Logger()

	w.Header().Set(KEY_HEADER_CONTENT_TYPE, VALUE_HEADER_APPLICATION_JSON)
	for k, v := range header {
		w.Header().Set(k, v)
	}
	w.WriteHeader(statusCode)

	if body == nil || statusCode == http.StatusNoContent {
		return
	}

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Trace().Msg("wrote json response")
}

func WriteErrorResponse(
	c context.Context,
	w http.ResponseWriter,
	statusCode int,
	message string,
	errs map[string][]string,
) {
	WriteJsonResponse(c, w, map[string]string{}, statusCode, ErrorResponse{
		Message: message,
		Status:  statusCode,
		Errors:  errs,
	})
}

func WriteNoContent(c context.Context, w http.ResponseWriter) {
	WriteJsonResponse(c, w, map[string]string{}, http.StatusNoContent, nil)
}

// FieldErrors flattens validator errors into {jsonField: [tag messages]}.
// Non validation errors yield nil.
func FieldErrors(err error) map[string][]string {
	validationErrors := validator.ValidationErrors{}
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fields := make(map[string][]string, len(validationErrors))
	for _, fe := range validationErrors {
		name := lowerFirst(fe.Field())
		fields[name] = append(fields[name], fieldMessage(fe))
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid url"
	case "uuid", "uuid4":
		return "must be a valid uuid"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
