package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/ordering/internal/config"
	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/errors"
	inOtel "github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/internal/repository"
	"github.com/Alturino/ordering/internal/token"
	"github.com/Alturino/ordering/user/internal/otel"
	"github.com/Alturino/ordering/user/pkg/request"
	"github.com/Alturino/ordering/user/pkg/response"
)

type UserService struct {
	store  repository.Store
	config config.Application
	now    func() time.Time
}

func NewUserService(store repository.Store, config config.Application) *UserService {
	return &UserService{
		store:  store,
		config: config,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (u *UserService) Signup(c context.Context, param request.Signup) (response.Auth, error) {
	c, span := otel.Tracer.Start(c, "UserService Signup")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(param.Email))
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserService Signup").
		Str(constants.KEY_EMAIL, email).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "hashing password").Logger()
	logger.Trace().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("%w: %w", errors.ErrFailedHashToken, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Trace().Msg("hashed password")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting user to database").Logger()
	logger.Trace().Msg("inserting user to database")
	now := u.now()
	user, err := u.store.InsertUser(c, repository.InsertUserParams{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(param.Name),
		Email:     email,
		Password:  string(hashed),
		Role:      token.ROLE_CUSTOMER,
		CreatedAt: repository.Timestamptz(now),
		UpdatedAt: repository.Timestamptz(now),
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			err = errors.ErrEmailExist
		}
		err = fmt.Errorf("failed inserting user to database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger = logger.With().Str(constants.KEY_USER_ID, user.ID.String()).Logger()
	logger.Trace().Msg("inserted user to database")

	auth, err := u.authenticate(c, user)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("signed up user")
	return auth, nil
}

func (u *UserService) Login(c context.Context, param request.Login) (response.Auth, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(param.Email))
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserService Login").
		Str(constants.KEY_EMAIL, email).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding user by email").Logger()
	logger.Trace().Msg("finding user by email")
	user, err := u.store.FindUserByEmail(c, email)
	if err != nil {
		if repository.IsNotFound(err) {
			err = errors.ErrInvalidCredential
		}
		err = fmt.Errorf("failed finding user by email with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger = logger.With().Str(constants.KEY_USER_ID, user.ID.String()).Logger()
	logger.Trace().Msg("found user by email")

	logger = logger.With().Str(constants.KEY_PROCESS, "verifying password").Logger()
	logger.Trace().Msg("verifying password")
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(param.Password))
	if err != nil {
		err = fmt.Errorf("failed verifying password with error=%w", errors.ErrInvalidCredential)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Trace().Msg("verified password")

	auth, err := u.authenticate(c, user)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("logged in user")
	return auth, nil
}

func (u *UserService) Me(c context.Context, userId uuid.UUID) (response.Profile, error) {
	c, span := otel.Tracer.Start(c, "UserService Me")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserService Me").
		Str(constants.KEY_USER_ID, userId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding user by id").Logger()
	logger.Trace().Msg("finding user by id")
	user, err := u.store.FindUserById(c, userId)
	if err != nil {
		if repository.IsNotFound(err) {
			err = errors.ErrUserNotFound
		}
		err = fmt.Errorf("failed finding user by id with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Profile{}, err
	}
	logger.Info().Msg("found user by id")
	return user.Profile(), nil
}

func (u *UserService) authenticate(c context.Context, user repository.User) (response.Auth, error) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_PROCESS, "signing token").Logger()
	logger.Trace().Msg("signing token")
	signed, err := token.Issue(u.config.SecretKey, u.config.TokenTTL, user.ID, user.Role, time.Now())
	if err != nil {
		return response.Auth{}, err
	}
	logger.Trace().Msg("signed token")
	return response.Auth{Token: signed, User: user.Response()}, nil
}
