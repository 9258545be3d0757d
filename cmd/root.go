package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Alturino/ordering/client/cli"
	"github.com/Alturino/ordering/internal/config"
	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/infra"
	"github.com/Alturino/ordering/internal/log"
	"github.com/Alturino/ordering/internal/server"
	notification "github.com/Alturino/ordering/notification/cmd"
	order "github.com/Alturino/ordering/order/cmd"
	restaurant "github.com/Alturino/ordering/restaurant/cmd"
	user "github.com/Alturino/ordering/user/cmd"
)

func Start() {
	logger := log.New("", config.Application{}).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_MAIN_ORDERING).
		Str(constants.KEY_TAG, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{
		Use:          "ordering",
		Short:        "Restaurant ordering services and client",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "api",
			Short: "Run user, restaurant and order services in one process",
			RunE: func(cmd *cobra.Command, args []string) error {
				return server.Run(
					cmd.Context(),
					constants.APP_API_SERVICE,
					user.AttachUserService,
					restaurant.AttachRestaurantService,
					order.AttachOrderService,
				)
			},
		},
		&cobra.Command{
			Use:   "user",
			Short: "Run user service",
			RunE: func(cmd *cobra.Command, args []string) error {
				return user.RunUserService(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "restaurant",
			Short: "Run restaurant service",
			RunE: func(cmd *cobra.Command, args []string) error {
				return restaurant.RunRestaurantService(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "order",
			Short: "Run order service",
			RunE: func(cmd *cobra.Command, args []string) error {
				return order.RunOrderService(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "notification",
			Short: "Consume order events and notify customers",
			RunE: func(cmd *cobra.Command, args []string) error {
				return notification.RunNotificationService(cmd.Context())
			},
		},
		migrateCommand(),
		cli.NewCommand(),
	)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}

func migrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	for _, direction := range []infra.MigrationDirection{infra.MIGRATION_UP, infra.MIGRATION_DOWN} {
		migrateCmd.AddCommand(&cobra.Command{
			Use:   string(direction),
			Short: "Migrate database " + string(direction),
			RunE: func(cmd *cobra.Command, args []string) error {
				c := cmd.Context()
				cfg := config.Get(c, constants.APP_API_SERVICE)
				return infra.RunMigration(c, cfg.Database, direction)
			},
		})
	}
	return migrateCmd
}
