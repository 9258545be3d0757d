package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/ordering/client/internal/otel"
	"github.com/Alturino/ordering/internal/constants"
	inHttp "github.com/Alturino/ordering/internal/http"
	inOtel "github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/user/pkg/response"
)

const (
	PATH_AUTH_LOGIN  = "/auth/login"
	PATH_AUTH_SIGNUP = "/auth/signup"
	PATH_AUTH_LOGOUT = "/auth/logout"
	PATH_AUTH_ME     = "/auth/me"
)

// LoginInput carries the password in clear, it is only ever sent to the server.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthAPI struct {
	client *Client
}

// Login starts the session on success.
func (a *AuthAPI) Login(c context.Context, input LoginInput) (response.Auth, error) {
	c, span := otel.Tracer.Start(c, "AuthAPI Login")
	defer span.End()

	auth := response.Auth{}
	if err := a.client.Do(c, http.MethodPost, PATH_AUTH_LOGIN, nil, input, &auth); err != nil {
		inOtel.RecordError(err, span)
		return response.Auth{}, err
	}
	if err := a.start(c, auth); err != nil {
		inOtel.RecordError(err, span)
		return response.Auth{}, err
	}
	return auth, nil
}

// Signup starts the session on success.
func (a *AuthAPI) Signup(c context.Context, input SignupInput) (response.Auth, error) {
	c, span := otel.Tracer.Start(c, "AuthAPI Signup")
	defer span.End()

	auth := response.Auth{}
	if err := a.client.Do(c, http.MethodPost, PATH_AUTH_SIGNUP, nil, input, &auth); err != nil {
		inOtel.RecordError(err, span)
		return response.Auth{}, err
	}
	if err := a.start(c, auth); err != nil {
		inOtel.RecordError(err, span)
		return response.Auth{}, err
	}
	return auth, nil
}

// Logout ends the local session even when the server call fails.
func (a *AuthAPI) Logout(c context.Context) error {
	c, span := otel.Tracer.Start(c, "AuthAPI Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AuthAPI Logout").
		Str(constants.KEY_PROCESS, "logging out").
		Logger()

	logger.Trace().Msg("logging out")
	message := inHttp.MessageResponse{}
	callErr := a.client.Do(c, http.MethodPost, PATH_AUTH_LOGOUT, nil, nil, &message)
	if callErr != nil {
		inOtel.RecordError(callErr, span)
		logger.Error().Err(callErr).Msg(callErr.Error())
	}

	if s := a.client.Session(c); s != nil {
		if err := s.End(); err != nil {
			err = fmt.Errorf("failed ending session with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
	}
	logger.Trace().Msg("logged out")
	return callErr
}

func (a *AuthAPI) Me(c context.Context) (response.Profile, error) {
	c, span := otel.Tracer.Start(c, "AuthAPI Me")
	defer span.End()

	profile := response.Profile{}
	if err := a.client.Do(c, http.MethodGet, PATH_AUTH_ME, nil, nil, &profile); err != nil {
		inOtel.RecordError(err, span)
		return response.Profile{}, err
	}
	return profile, nil
}

func (a *AuthAPI) start(c context.Context, auth response.Auth) error {
	s := a.client.Session(c)
	if s == nil {
		return nil
	}
	if err := s.Start(auth.Token, auth.User); err != nil {
		return fmt.Errorf("failed starting session with error=%w", err)
	}
	return nil
}
