package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Alturino/ordering/client/cart"
)

const CART_PROMPT = "> "

func cartCommand(a *app) *cobra.Command {
	var restaurantID, customerName, instructions string
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Pick products from the menu and place an order",
		Long: "Interactive cart. Commands: menu [food|drinks], add <id>, show, checkout, cancel, confirm, quit.\n" +
			"With --restaurant-id confirming places the order, otherwise the cart is local only.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []cart.Option{}
			if restaurantID != "" {
				id, err := parseID(restaurantID)
				if err != nil {
					return err
				}
				placer := cart.RemotePlacer{Orders: a.orders, RestaurantID: id}
				if customerName != "" {
					placer.CustomerName = &customerName
				}
				if instructions != "" {
					placer.SpecialInstructions = &instructions
				}
				opts = append(opts, cart.WithPlacer(placer))
			}
			return RunCart(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cart.New(opts...), cart.DefaultCatalog())
		},
	}
	cmd.Flags().StringVar(&restaurantID, "restaurant-id", "", "restaurant receiving the order")
	cmd.Flags().StringVar(&customerName, "customer-name", "", "name on the order")
	cmd.Flags().StringVar(&instructions, "instructions", "", "special instructions")
	return cmd
}

// RunCart reads one command per line from in until quit or end of input.
// Failed commands are reported on out and do not stop the loop.
func RunCart(c context.Context, in io.Reader, out io.Writer, basket *cart.Cart, catalog cart.Catalog) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, CART_PROMPT)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			fmt.Fprint(out, CART_PROMPT)
			continue
		}

		command, args := fields[0], fields[1:]
		var err error
		switch command {
		case "menu":
			err = printMenu(out, catalog, args)
		case "add":
			err = addProduct(c, out, basket, catalog, args)
		case "show":
			printCart(out, basket)
		case "checkout":
			if err = basket.Checkout(c); err == nil {
				printCart(out, basket)
				fmt.Fprintln(out, "Type confirm to place the order or cancel to keep shopping.")
			}
		case "cancel":
			if err = basket.Cancel(c); err == nil {
				fmt.Fprintln(out, "Back to the menu.")
			}
		case "confirm":
			err = confirm(c, out, basket)
		case "quit", "exit":
			return nil
		default:
			err = fmt.Errorf("unknown command %q", command)
		}
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
		}
		fmt.Fprint(out, CART_PROMPT)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed reading cart input with error=%w", err)
	}
	return nil
}

func printMenu(out io.Writer, catalog cart.Catalog, args []string) error {
	tab := cart.TAB_FOOD
	if len(args) > 0 {
		tab = cart.Tab(args[0])
	}
	products := catalog.Tab(tab)
	if products == nil {
		return fmt.Errorf("unknown menu %q", tab)
	}
	for _, p := range products {
		fmt.Fprintf(out, "%3s  %-16s €%s\n", p.ID, p.Name, p.Price.StringFixed(2))
	}
	return nil
}

func addProduct(c context.Context, out io.Writer, basket *cart.Cart, catalog cart.Catalog, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: add <id>")
	}
	p, err := catalog.Find(args[0])
	if err != nil {
		return fmt.Errorf("%w %q", err, args[0])
	}
	if err := basket.AddToCart(c, p); err != nil {
		return err
	}
	for _, item := range basket.Items() {
		if item.Product.ID == p.ID {
			fmt.Fprintf(out, "Added %s (x%d)\n", p.Name, item.Quantity)
		}
	}
	return nil
}

func printCart(out io.Writer, basket *cart.Cart) {
	items := basket.Items()
	if len(items) == 0 {
		fmt.Fprintln(out, "No items added yet.")
		return
	}
	for _, item := range items {
		fmt.Fprintf(out, "%s x%d  €%s\n", item.Product.Name, item.Quantity, item.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(out, "Total: €%s\n", basket.Total().StringFixed(2))
}

func confirm(c context.Context, out io.Writer, basket *cart.Cart) error {
	order, err := basket.ConfirmOrder(c)
	if err != nil {
		return err
	}
	if order.ID != uuid.Nil {
		fmt.Fprintf(out, "Order placed successfully! order %s is %s, total €%s\n", order.ID, order.Status, order.TotalAmount.StringFixed(2))
		return nil
	}
	fmt.Fprintln(out, "Order placed successfully!")
	return nil
}
