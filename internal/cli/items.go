package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/warehouse/internal/domain/models"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Name     string
	Category string
	Price    float64
}

// NewAddCommand creates an item or restocks an existing one.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <id> <quantity>",
		Short: "Add a new item or restock an existing one",
		Long: `Add stock to an item. When the id already exists the quantity is added to it
and --name, --category and --price are ignored. Otherwise a new item is created
and --name is required.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "item name (new items)")
	cmd.Flags().StringVar(&opts.Category, "category", string(models.CategoryGeneral), "item category (new items)")
	cmd.Flags().Float64Var(&opts.Price, "price", 0, "unit price (new items)")

	return cmd
}

func runAdd(opts *AddOptions, args []string) error {
	id, err := parseIntArg("id", args[0])
	if err != nil {
		return err
	}
	qty, err := parseIntArg("quantity", args[1])
	if err != nil {
		return err
	}

	sess, err := opts.open()
	if err != nil {
		return err
	}

	res, err := sess.inventory.CreateOrRestock(models.ItemInput{
		ID:        id,
		Name:      opts.Name,
		Category:  opts.Category,
		UnitPrice: opts.Price,
		Quantity:  qty,
	})
	if err != nil {
		return err
	}
	if err := sess.inventory.Save(); err != nil {
		return err
	}

	message := fmt.Sprintf("New item created: %s (ID: %d).", res.Item.Name, res.Item.ID)
	if res.Restocked {
		message = fmt.Sprintf("Stock updated. New total: %d", res.Item.Quantity)
	}
	return opts.formatter().Result(res.Item, message)
}

// NewSellCommand processes an order.
func NewSellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sell <id> <quantity>",
		Short: "Sell units of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSell(rootOpts, args)
		},
	}
}

type saleResult struct {
	ID        int     `json:"id" yaml:"id"`
	Sold      int     `json:"sold" yaml:"sold"`
	Total     float64 `json:"total" yaml:"total"`
	Remaining int     `json:"remaining" yaml:"remaining"`
}

func runSell(opts *RootOptions, args []string) error {
	id, err := parseIntArg("id", args[0])
	if err != nil {
		return err
	}
	qty, err := parseIntArg("quantity", args[1])
	if err != nil {
		return err
	}

	sess, err := opts.open()
	if err != nil {
		return err
	}

	sale, err := sess.inventory.Sell(id, qty)
	if err != nil {
		return err
	}

	if qty > 0 {
		if err := sess.inventory.Save(); err != nil {
			return err
		}
	}

	result := saleResult{ID: id, Sold: qty, Total: sale.Total, Remaining: sale.Item.Quantity}
	return opts.formatter().Result(result,
		fmt.Sprintf("Sold! Total: %s. Remaining: %d", money(sale.Total), sale.Item.Quantity))
}

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Yes bool
}

// NewDeleteCommand removes an item.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item (requires --yes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args)
		},
	}
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "confirm the deletion")

	return cmd
}

func runDelete(opts *DeleteOptions, args []string) error {
	id, err := parseIntArg("id", args[0])
	if err != nil {
		return err
	}

	sess, err := opts.open()
	if err != nil {
		return err
	}

	name, err := sess.inventory.Delete(id, opts.Yes)
	if err != nil {
		return err
	}
	if err := sess.inventory.Save(); err != nil {
		return err
	}

	return opts.formatter().Result(map[string]any{"id": id, "deleted": name},
		fmt.Sprintf("Item removed: %s (ID: %d).", name, id))
}

func parseIntArg(name, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", name, raw)
	}
	return v, nil
}
