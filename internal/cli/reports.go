package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/service/reporting"
)

// NewSearchCommand finds items by name or category.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search items by name or category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rootOpts.open()
			if err != nil {
				return err
			}
			return rootOpts.formatter().Items(sess.inventory.Find(strings.Join(args, " ")), "No matches.")
		},
	}
}

// NewListCommand prints every item.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rootOpts.open()
			if err != nil {
				return err
			}
			return rootOpts.formatter().Items(sess.inventory.AllRecords(), "Inventory empty.")
		},
	}
}

type statsResult struct {
	Totals   models.Totals         `json:"totals" yaml:"totals"`
	Extremes *models.PriceExtremes `json:"extremes,omitempty" yaml:"extremes,omitempty"`
}

// NewStatsCommand prints inventory analytics.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show total value, unit count and price extremes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rootOpts.open()
			if err != nil {
				return err
			}

			result := statsResult{Totals: sess.reporting.Totals()}
			if extremes, ok := sess.reporting.PriceExtremes(); ok {
				result.Extremes = &extremes
			}

			if result.Extremes == nil {
				return rootOpts.formatter().Result(result, "No data available.")
			}
			message := fmt.Sprintf("Total Asset Value: %s\nTotal Units: %s\nMost Expensive: %s\nCheapest: %s",
				money(result.Totals.Value), humanize.Comma(int64(result.Totals.Units)),
				result.Extremes.MostExpensive, result.Extremes.Cheapest)
			return rootOpts.formatter().Result(result, message)
		},
	}
}

// CategoriesOptions holds flags for the categories command.
type CategoriesOptions struct {
	*RootOptions
	Require []string
}

type categoriesResult struct {
	Healthy bool              `json:"healthy" yaml:"healthy"`
	Missing []models.Category `json:"missing" yaml:"missing"`
}

// NewCategoriesCommand checks that every required category is stocked.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CategoriesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Report required categories with no items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}

			required := opts.cfg.Inventory.RequiredCategories
			if len(opts.Require) > 0 {
				required = models.ParseCategories(opts.Require)
			}

			missing := sess.reporting.CategoryHealth(required)
			return opts.formatter().Result(categoriesResult{Healthy: len(missing) == 0, Missing: missing},
				reporting.FormatCategoryHealth(missing))
		},
	}
	cmd.Flags().StringSliceVar(&opts.Require, "require", nil, "required categories (default $REQUIRED_CATEGORIES)")

	return cmd
}

// LowStockOptions holds flags for the lowstock command.
type LowStockOptions struct {
	*RootOptions
	Threshold int
}

// NewLowStockCommand lists items below the threshold.
func NewLowStockCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LowStockOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lowstock",
		Short: "List items with quantity below the threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold := opts.Threshold
			if !cmd.Flags().Changed("threshold") {
				threshold = opts.cfg.Inventory.LowStockThreshold
			}
			if threshold < 0 {
				return fmt.Errorf("threshold must not be negative")
			}

			sess, err := opts.open()
			if err != nil {
				return err
			}
			return opts.formatter().Items(sess.reporting.LowStock(threshold), "All items well stocked.")
		},
	}
	cmd.Flags().IntVarP(&opts.Threshold, "threshold", "t", 5, "low stock threshold (default $LOW_STOCK_THRESHOLD)")

	return cmd
}
