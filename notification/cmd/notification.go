package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/Alturino/ordering/internal/config"
	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/infra"
	"github.com/Alturino/ordering/internal/log"
	inOtel "github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/notification/internal/otel"
	"github.com/Alturino/ordering/notification/internal/service"
)

func RunNotificationService(c context.Context) error {
	c, span := otel.Tracer.Start(c, "RunNotificationService")
	defer span.End()

	cfg := config.Get(c, constants.APP_NOTIFICATION)

	logger := log.Get(filepath.Join("/var/log/", constants.APP_NOTIFICATION+".log"), cfg.Application).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_NOTIFICATION).
		Str(constants.KEY_TAG, "main RunNotificationService").
		Str(constants.KEY_EVENT_BROKER, cfg.Event.Broker).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.APP_NOTIFICATION, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := inOtel.ShutdownOtel(context.WithoutCancel(c), shutdownFuncs); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing subscriber").Logger()
	logger.Info().Msg("initializing subscriber")
	var redisClient *redis.Client
	if cfg.Event.Broker == infra.BROKER_REDIS {
		redisClient, err = infra.NewCacheClient(c, cfg.Cache)
		if err != nil {
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
	}
	subscriber, err := infra.NewSubscriber(
		cfg.Event,
		redisClient,
		cfg.Event.GroupID,
		constants.TOPIC_ORDER_CREATED,
		constants.TOPIC_ORDER_STATUS_UPDATED,
	)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		if err := subscriber.Close(); err != nil {
			logger.Error().Err(err).Msg(err.Error())
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()
	logger.Info().Msg("initialized subscriber")

	logger = logger.With().Str(constants.KEY_PROCESS, "consuming order events").Logger()
	logger.Info().Msg("consuming order events")
	notifier := service.NewNotifier()
	if err := subscriber.Subscribe(c, notifier.Handle); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("received interuption signal shutting down")
	return nil
}
