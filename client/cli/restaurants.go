package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Alturino/ordering/client/api"
	"github.com/Alturino/ordering/restaurant/pkg/request"
)

func restaurantsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restaurants",
		Short: "Browse and manage restaurants",
	}

	filter := api.RestaurantFilter{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List restaurants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.restaurants.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJson(cmd.OutOrStdout(), page)
		},
	}
	list.Flags().IntVar(&filter.Page, "page", 0, "page, starting at 1")
	list.Flags().IntVar(&filter.PageSize, "page-size", 0, "page size")
	list.Flags().StringVar(&filter.Region, "region", "", "region")
	list.Flags().StringVar(&filter.Cuisine, "cuisine", "", "cuisine")

	get := &cobra.Command{
		Use:   "get <restaurantId>",
		Short: "Show a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			restaurant, err := a.restaurants.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJson(cmd.OutOrStdout(), restaurant)
		},
	}

	input := request.CreateRestaurant{}
	var rating, description, imageUrl string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a restaurant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := decimal.NewFromString(rating)
			if err != nil {
				return fmt.Errorf("failed parsing rating=%s with error=%w", rating, err)
			}
			input.Rating = parsed
			if description != "" {
				input.Description = &description
			}
			if imageUrl != "" {
				input.ImageUrl = &imageUrl
			}
			restaurant, err := a.restaurants.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printJson(cmd.OutOrStdout(), restaurant)
		},
	}
	create.Flags().StringVar(&input.Name, "name", "", "name")
	create.Flags().StringVar(&input.Cuisine, "cuisine", "", "cuisine")
	create.Flags().StringVar(&input.Location, "location", "", "location")
	create.Flags().StringVar(&input.Region, "region", "", "region")
	create.Flags().StringVar(&rating, "rating", "0", "rating between 0 and 5")
	create.Flags().StringVar(&description, "description", "", "description")
	create.Flags().StringVar(&imageUrl, "image-url", "", "image url")
	for _, flag := range []string{"name", "cuisine", "location", "region"} {
		_ = create.MarkFlagRequired(flag)
	}

	remove := &cobra.Command{
		Use:   "delete <restaurantId>",
		Short: "Delete a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.restaurants.Delete(cmd.Context(), id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted restaurant %s\n", id)
			return err
		},
	}

	cmd.AddCommand(list, get, create, remove)
	return cmd
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed parsing id=%s with error=%w", raw, err)
	}
	return id, nil
}
