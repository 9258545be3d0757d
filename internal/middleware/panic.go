package middleware

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/ordering/internal/constants"
	inHttp "github.com/Alturino/ordering/internal/http"
	"github.com/Alturino/ordering/internal/otel"
)

func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, span := otel.Tracer.Start(r.Context(), "middleware RecoverPanic")
		defer span.End()

		logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "RecoverPanic").Logger()
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			err, ok := recovered.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", recovered)
			}
			logger.Error().Err(err).Stack().Msg("recovered from panic")
			otel.RecordError(err, span)
			inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, "Internal Server Error", nil)
		}()

		next.ServeHTTP(w, r.WithContext(c))
	})
}
