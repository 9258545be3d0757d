package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/ordering/internal/config"
	"github.com/Alturino/ordering/internal/constants"
	inHttp "github.com/Alturino/ordering/internal/http"
	"github.com/Alturino/ordering/internal/infra"
	"github.com/Alturino/ordering/internal/log"
	"github.com/Alturino/ordering/internal/middleware"
	inOtel "github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/internal/repository"
)

// Dependencies are the shared clients handed to every attached service.
type Dependencies struct {
	Config    *config.Config
	Store     repository.Store
	Cache     *redis.Client
	Publisher infra.Publisher
	Auth      mux.MiddlewareFunc
}

func (d Dependencies) EntityCache() *infra.EntityCache {
	if d.Cache == nil {
		return nil
	}
	return infra.NewEntityCache(d.Cache, d.Config.Cache.TTL)
}

// AttachFunc registers a service's routes under the /api subrouter.
type AttachFunc func(api *mux.Router, deps Dependencies)

func NewRouter(appName string, deps Dependencies, attach ...AttachFunc) http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		inHttp.WriteJsonResponse(r.Context(), w, map[string]string{}, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(
		otelmux.Middleware(appName),
		middleware.Logging,
		middleware.RecoverPanic,
		middleware.Metrics,
	)
	for _, fn := range attach {
		fn(api, deps)
	}

	return middleware.Cors(deps.Config.Application.CorsOrigins)(router)
}

// Run wires the database, cache and publisher, serves the attached services
// and blocks until c is cancelled.
func Run(c context.Context, appName string, attach ...AttachFunc) error {
	c, span := inOtel.Tracer.Start(c, "server Run")
	defer span.End()

	cfg := config.Get(c, appName)

	logger := log.Get(filepath.Join("/var/log/", appName+".log"), cfg.Application).
		With().
		Str(constants.KEY_APP_NAME, appName).
		Str(constants.KEY_TAG, "main Run").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	shutdownFuncs, err := inOtel.InitOtelSdk(c, appName, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		err := inOtel.ShutdownOtel(context.WithoutCancel(c), shutdownFuncs)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(constants.KEY_PROCESS, "running migration").Logger()
	logger.Info().Msg("running migration")
	c = logger.WithContext(c)
	if err := infra.RunMigration(c, cfg.Database, infra.MIGRATION_UP); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("ran migration")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	pool, err := infra.NewDatabaseClient(c, cfg.Database)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		logger.Info().Msg("closing database")
		pool.Close()
		logger.Info().Msg("closed database")
	}()
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	cache, err := infra.NewCacheClient(c, cfg.Cache)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		logger.Info().Msg("closing cache")
		if err := cache.Close(); err != nil {
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("closed cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing publisher").Logger()
	logger.Info().Msg("initializing publisher")
	publisher, err := infra.NewPublisher(c, cfg.Event, cache)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	logger.Info().Msg("initialized publisher")

	deps := Dependencies{
		Config:    cfg,
		Store:     repository.NewStore(pool),
		Cache:     cache,
		Publisher: publisher,
		Auth:      middleware.Auth(cfg.Application.SecretKey),
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	server := http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext: func(net.Listener) context.Context {
			lg := logger.With().
				Reset().
				Timestamp().
				Caller().
				Str(constants.KEY_APP_NAME, appName).
				Logger()
			return lg.WithContext(context.WithoutCancel(c))
		},
		Handler:      NewRouter(appName, deps, attach...),
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	return Serve(c, &server)
}

// Serve runs server until c is cancelled, then shuts it down gracefully.
func Serve(c context.Context, server *http.Server) error {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_LISTEN_ADDR, server.Addr).Logger()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("encounter error=%w while running server", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg(err.Error())
		}
		return err
	case <-c.Done():
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "shutting down server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down server with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("shutdown server")
	return <-errCh
}
