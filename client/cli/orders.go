package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Alturino/ordering/client/api"
)

func ordersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Browse and manage orders",
	}

	filter := api.OrderFilter{}
	var restaurantID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if restaurantID != "" {
				id, err := parseID(restaurantID)
				if err != nil {
					return err
				}
				filter.RestaurantID = id
			}
			page, err := a.orders.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJson(cmd.OutOrStdout(), page)
		},
	}
	list.Flags().IntVar(&filter.Page, "page", 0, "page, starting at 1")
	list.Flags().IntVar(&filter.PageSize, "page-size", 0, "page size")
	list.Flags().StringVar(&restaurantID, "restaurant-id", "", "restaurant id")
	list.Flags().StringVar(&filter.Status, "status", "", "order status")

	get := &cobra.Command{
		Use:   "get <orderId>",
		Short: "Show an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			order, err := a.orders.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJson(cmd.OutOrStdout(), order)
		},
	}

	status := &cobra.Command{
		Use:   "status <orderId> <status>",
		Short: "Move an order to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			order, err := a.orders.UpdateStatus(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return printJson(cmd.OutOrStdout(), order)
		},
	}

	remove := &cobra.Command{
		Use:   "delete <orderId>",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.orders.Delete(cmd.Context(), id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted order %s\n", id)
			return err
		},
	}

	var out string
	qrcode := &cobra.Command{
		Use:   "qrcode <orderId>",
		Short: "Save the pickup qr code of an order as png",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			png, err := a.client.Orders.QRCode(cmd.Context(), id)
			if err != nil {
				return err
			}
			if out == "" {
				out = id.String() + ".png"
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("failed writing qrcode to %s with error=%w", out, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved qrcode to %s\n", out)
			return err
		},
	}
	qrcode.Flags().StringVar(&out, "out", "", "png file, defaults to <orderId>.png")

	cmd.AddCommand(list, get, status, remove, qrcode)
	return cmd
}
