package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/errors"
	inHttp "github.com/Alturino/ordering/internal/http"
	"github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/internal/token"
)

// Auth rejects requests without a valid bearer token and attaches the
// verified claims to the request context.
func Auth(secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware Auth")
			defer span.End()

			logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "middleware Auth").Logger()

			logger = logger.With().Str(constants.KEY_PROCESS, "reading authorization header").Logger()
			logger.Trace().Msg("reading authorization header")
			authorization := r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION)
			prefix := inHttp.VALUE_BEARER_PREFIX
			if len(authorization) <= len(prefix) || !strings.EqualFold(authorization[:len(prefix)], prefix) {
				otel.RecordError(errors.ErrEmptyAuth, span)
				logger.Error().Err(errors.ErrEmptyAuth).Msg(errors.ErrEmptyAuth.Error())
				inHttp.WriteErrorResponse(c, w, http.StatusUnauthorized, "Unauthorized", nil)
				return
			}
			logger.Trace().Msg("read authorization header")

			logger = logger.With().Str(constants.KEY_PROCESS, "verifying token").Logger()
			logger.Trace().Msg("verifying token")
			c = logger.WithContext(c)
			claims, err := token.Verify(c, secretKey, authorization[len(prefix):])
			if err != nil {
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, http.StatusUnauthorized, "Invalid token", nil)
				return
			}
			logger = logger.With().
				Str(constants.KEY_USER_ID, claims.Subject).
				Str(constants.KEY_ROLE, claims.Role).
				Logger()
			logger.Trace().Msg("verified token")

			c = token.AttachClaims(logger.WithContext(c), claims)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
