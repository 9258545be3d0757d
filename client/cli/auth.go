package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alturino/ordering/client/api"
)

func signupCommand(a *app) *cobra.Command {
	input := api.SignupInput{}
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.client.Auth.Signup(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printJson(cmd.OutOrStdout(), auth.User)
		},
	}
	cmd.Flags().StringVar(&input.Name, "name", "", "display name")
	cmd.Flags().StringVar(&input.Email, "email", "", "email")
	cmd.Flags().StringVar(&input.Password, "password", "", "password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func loginCommand(a *app) *cobra.Command {
	input := api.LoginInput{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.client.Auth.Login(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printJson(cmd.OutOrStdout(), auth.User)
		},
	}
	cmd.Flags().StringVar(&input.Email, "email", "", "email")
	cmd.Flags().StringVar(&input.Password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logout successful")
			return err
		},
	}
}

func meCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.client.Auth.Me(cmd.Context())
			if err != nil {
				return err
			}
			return printJson(cmd.OutOrStdout(), profile)
		},
	}
}
