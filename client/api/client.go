package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/ordering/client/internal/otel"
	"github.com/Alturino/ordering/client/session"
	"github.com/Alturino/ordering/internal/constants"
	inHttp "github.com/Alturino/ordering/internal/http"
	inOtel "github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/internal/validate"
)

const (
	DEFAULT_BASE_URL = "http://localhost:3000/api"
	DEFAULT_TIMEOUT  = 15 * time.Second

	MESSAGE_FALLBACK = "An error occurred"
)

var (
	ErrNetwork         = errors.New("network error")
	ErrInvalidResponse = errors.New("invalid response")
)

// APIError is returned for every non-2xx response.
type APIError struct {
	Message string
	Status  int
	Errors  map[string][]string
}

func (e *APIError) Error() string {
	return e.Message
}

// ValidationError is returned when a 2xx body does not match the expected
// record shape.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInvalidResponse.Error(), e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidResponse
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Client)

func WithHTTPClient(httpClient HTTPClient) Option {
	return func(cl *Client) { cl.http = httpClient }
}

func WithSession(s *session.Session) Option {
	return func(cl *Client) { cl.session = s }
}

func WithTimeout(timeout time.Duration) Option {
	return func(cl *Client) {
		if h, ok := cl.http.(*http.Client); ok {
			h.Timeout = timeout
		}
	}
}

type Client struct {
	baseURL  string
	http     HTTPClient
	session  *session.Session
	validate *validator.Validate

	Restaurants *RestaurantsAPI
	Orders      *OrdersAPI
	Auth        *AuthAPI
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DEFAULT_BASE_URL
	}
	cl := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   DEFAULT_TIMEOUT,
		},
		validate: validate.New(),
	}
	for _, opt := range opts {
		opt(cl)
	}
	cl.Restaurants = &RestaurantsAPI{client: cl}
	cl.Orders = &OrdersAPI{client: cl}
	cl.Auth = &AuthAPI{client: cl}
	return cl
}

// Session returns the session carried by c, falling back to the client's own.
func (cl *Client) Session(c context.Context) *session.Session {
	if s := session.FromContext(c); s != nil {
		return s
	}
	return cl.session
}

// URL joins path to the base url. Query parameters are only appended when
// present.
func (cl *Client) URL(path string, query url.Values) string {
	u := cl.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// Do sends body as json and decodes a 2xx response into out. A nil out
// accepts any body, including none.
func (cl *Client) Do(c context.Context, method, path string, query url.Values, body, out any) error {
	c, span := otel.Tracer.Start(c, "Client Do")
	defer span.End()

	raw, err := cl.Bytes(c, method, path, query, body)
	if err != nil {
		inOtel.RecordError(err, span)
		return err
	}
	if out == nil {
		return nil
	}

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client Do").
		Str(constants.KEY_HTTP_METHOD, method).
		Str(constants.KEY_HTTP_URL, path).
		Str(constants.KEY_PROCESS, "decoding response body").
		Logger()
	logger.Trace().Msg("decoding response body")
	if err := cl.decode(c, raw, out); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("decoded response body")
	return nil
}

// Bytes sends body as json and returns the raw body of a 2xx response.
func (cl *Client) Bytes(c context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "Client Bytes")
	defer span.End()

	target := cl.URL(path, query)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client Bytes").
		Str(constants.KEY_HTTP_METHOD, method).
		Str(constants.KEY_HTTP_URL, target).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "building request").Logger()
	logger.Trace().Msg("building request")
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			err = fmt.Errorf("failed encoding request body with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(c, method, target, reader)
	if err != nil {
		err = fmt.Errorf("failed building request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	req.Header.Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
	req.Header.Set(inHttp.KEY_HEADER_ACCEPT, inHttp.VALUE_HEADER_APPLICATION_JSON)
	if token := cl.Session(c).Token(); token != "" {
		req.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, inHttp.VALUE_BEARER_PREFIX+token)
	}
	logger.Trace().Msg("built request")

	logger = logger.With().Str(constants.KEY_PROCESS, "sending request").Logger()
	logger.Trace().Msg("sending request")
	res, err := cl.http.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrNetwork, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer res.Body.Close()
	logger = logger.With().Int(constants.KEY_HTTP_STATUS, res.StatusCode).Logger()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		err = fmt.Errorf("%w: failed reading response body with error=%w", ErrNetwork, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("sent request")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := newAPIError(res.StatusCode, raw)
		inOtel.RecordError(apiErr, span)
		logger.Error().Err(apiErr).Msg(apiErr.Error())
		return nil, apiErr
	}

	return raw, nil
}

func (cl *Client) decode(c context.Context, raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return &ValidationError{Fields: map[string][]string{"body": {"is empty"}}}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ValidationError{Fields: map[string][]string{"body": {err.Error()}}}
	}
	if err := cl.validate.StructCtx(c, out); err != nil {
		fields := inHttp.FieldErrors(err)
		if fields == nil {
			fields = map[string][]string{"body": {err.Error()}}
		}
		return &ValidationError{Fields: fields}
	}
	return nil
}

// newAPIError takes the message from a json body, falling back to a generic
// message when the body is not json and to the status when it has no message.
func newAPIError(status int, raw []byte) *APIError {
	body := inHttp.ErrorResponse{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return &APIError{Message: MESSAGE_FALLBACK, Status: status}
	}
	message := body.Message
	if message == "" {
		message = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &APIError{Message: message, Status: status, Errors: body.Errors}
}
