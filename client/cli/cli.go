// Package cli is the command line front end of the ordering client.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/ordering/client/api"
	"github.com/Alturino/ordering/client/query"
	"github.com/Alturino/ordering/client/session"
	"github.com/Alturino/ordering/internal/config"
	"github.com/Alturino/ordering/internal/constants"
)

const (
	FLAG_BASE_URL     = "base-url"
	FLAG_SESSION_FILE = "session-file"
)

// app is built once per invocation before any sub-command runs.
type app struct {
	client      *api.Client
	session     *session.Session
	restaurants *query.Restaurants
	orders      *query.Orders
}

func NewCommand() *cobra.Command {
	a := &app{}
	var baseURL, sessionFile string

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Talk to the ordering api",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context()
			logger := zerolog.Ctx(c).
				With().
				Str(constants.KEY_APP_NAME, constants.APP_ORDER_CLIENT).
				Str(constants.KEY_TAG, "client PersistentPreRunE").
				Logger()

			cfg := config.Get(c, constants.APP_ORDER_CLIENT)
			if baseURL == "" {
				baseURL = cfg.Client.BaseURL
			}
			if sessionFile == "" {
				sessionFile = cfg.Client.SessionFile
			}
			if sessionFile == "" {
				path, err := session.DefaultPath()
				if err != nil {
					logger.Error().Err(err).Msg(err.Error())
					return err
				}
				sessionFile = path
			}

			logger = logger.With().
				Str(constants.KEY_PROCESS, "restoring session").
				Str(constants.KEY_SESSION_FILE, sessionFile).
				Logger()
			logger.Debug().Msg("restoring session")
			s, err := session.New(session.FileStore{Path: sessionFile})
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				return err
			}
			logger.Debug().Bool("active", s.Active()).Msg("restored session")

			opts := []api.Option{api.WithSession(s)}
			if cfg.Client.Timeout > 0 {
				opts = append(opts, api.WithTimeout(cfg.Client.Timeout))
			}
			a.session = s
			a.client = api.New(baseURL, opts...)
			cache := query.NewCache()
			a.restaurants = query.NewRestaurants(a.client.Restaurants, cache)
			a.orders = query.NewOrders(a.client.Orders, cache)
			cmd.SetContext(logger.WithContext(c))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&baseURL, FLAG_BASE_URL, "", "api base url")
	cmd.PersistentFlags().StringVar(&sessionFile, FLAG_SESSION_FILE, "", "file keeping the login session")

	cmd.AddCommand(
		signupCommand(a),
		loginCommand(a),
		logoutCommand(a),
		meCommand(a),
		restaurantsCommand(a),
		ordersCommand(a),
		cartCommand(a),
	)
	return cmd
}

func printJson(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed printing result with error=%w", err)
	}
	return nil
}
