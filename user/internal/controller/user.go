package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/ordering/internal/constants"
	inErrors "github.com/Alturino/ordering/internal/errors"
	inHttp "github.com/Alturino/ordering/internal/http"
	inOtel "github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/internal/token"
	"github.com/Alturino/ordering/internal/validate"
	"github.com/Alturino/ordering/user/internal/otel"
	"github.com/Alturino/ordering/user/internal/service"
	"github.com/Alturino/ordering/user/pkg/request"
)

type UserController struct {
	service  *service.UserService
	validate *validator.Validate
}

func AttachUserController(api *mux.Router, service *service.UserService, auth mux.MiddlewareFunc) {
	controller := UserController{service: service, validate: validate.New()}

	router := api.PathPrefix("/auth").Subrouter()
	router.HandleFunc("/signup", controller.Signup).Methods(http.MethodPost)
	router.HandleFunc("/login", controller.Login).Methods(http.MethodPost)
	router.HandleFunc("/logout", controller.Logout).Methods(http.MethodPost)
	router.Handle("/me", auth(http.HandlerFunc(controller.Me))).Methods(http.MethodGet)
}

func (u UserController) Signup(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController Signup")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserController Signup").
		Logger()

	reqBody := request.Signup{}
	if !u.decode(c, w, r, &reqBody) {
		return
	}
	logger = logger.With().Object(constants.KEY_REQUEST_BODY, reqBody).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "signing up user").Logger()
	logger.Trace().Msg("signing up user")
	c = logger.WithContext(c)
	auth, err := u.service.Signup(c, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Str(constants.KEY_USER_ID, auth.User.ID.String()).Msg("signed up user")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusCreated, auth)
}

func (u UserController) Login(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserController Login").
		Logger()

	reqBody := request.Login{}
	if !u.decode(c, w, r, &reqBody) {
		return
	}
	logger = logger.With().Object(constants.KEY_REQUEST_BODY, reqBody).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "logging in user").Logger()
	logger.Trace().Msg("logging in user")
	c = logger.WithContext(c)
	auth, err := u.service.Login(c, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Str(constants.KEY_USER_ID, auth.User.ID.String()).Msg("logged in user")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, auth)
}

func (u UserController) Me(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController Me")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserController Me").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from token").Logger()
	logger.Trace().Msg("getting userId from token")
	claims, err := token.ClaimsFromContext(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	userId, err := claims.UserID()
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()
	logger.Trace().Msg("got userId from token")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding user").Logger()
	logger.Trace().Msg("finding user")
	c = logger.WithContext(c)
	profile, err := u.service.Me(c, userId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("found user")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, profile)
}

// Logout is stateless. The client drops its token.
func (u UserController) Logout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController Logout")
	defer span.End()

	zerolog.Ctx(c).Info().Str(constants.KEY_TAG, "UserController Logout").Msg("logged out user")
	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, inHttp.MessageResponse{Message: "Logout successful"})
}

func (u UserController) decode(c context.Context, w http.ResponseWriter, r *http.Request, dest any) bool {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	if err := u.validate.StructCtx(c, dest); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Validation failed", inHttp.FieldErrors(err))
		return false
	}
	logger.Trace().Msg("validated request body")
	return true
}

func writeError(c context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inErrors.ErrEmailExist):
		inHttp.WriteErrorResponse(c, w, http.StatusConflict, "Email already exists", nil)
	case errors.Is(err, inErrors.ErrInvalidCredential):
		inHttp.WriteErrorResponse(c, w, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, inErrors.ErrUserNotFound):
		inHttp.WriteErrorResponse(c, w, http.StatusNotFound, "User not found", nil)
	default:
		inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, "Internal Server Error", nil)
	}
}
