package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/service/reporting"
	"github.com/mamadbah2/warehouse/internal/store"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// Inventory is the subset of the inventory service the dispatcher drives.
type Inventory interface {
	CreateOrRestock(in models.ItemInput) (store.Result, error)
	Sell(id, quantity int) (store.Sale, error)
	Delete(id int, confirmed bool) (string, error)
	Find(query string) []models.Item
	Backup() (string, error)
}

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	Totals() models.Totals
	PriceExtremes() (models.PriceExtremes, bool)
	CategoryHealth(required []models.Category) []models.Category
	LowStock(threshold int) []models.Item
}

// Settings carries the reporting defaults used when a command omits them.
type Settings struct {
	LowStockThreshold  int
	RequiredCategories []models.Category
}

// Service turns text commands into inventory operations.
type Service struct {
	inventory Inventory
	reporting ReportingAdapter
	settings  Settings
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(inventory Inventory, reporting ReportingAdapter, settings Settings, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		inventory: inventory,
		reporting: reporting,
		settings:  settings,
		logger:    logger,
	}
}

// HandleText parses and dispatches a raw command line.
func (s *Service) HandleText(text string) (models.Command, string, error) {
	cmd := models.ParseCommand(text)
	reply, err := s.HandleCommand(cmd)
	return cmd, reply, err
}

// HandleCommand executes the command and returns a human-readable reply.
func (s *Service) HandleCommand(cmd models.Command) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandAdd:
		in, err := buildItemInput(cmd.Args)
		if err != nil {
			return "", err
		}
		res, err := s.inventory.CreateOrRestock(in)
		if err != nil {
			return "", err
		}
		if res.Restocked {
			return fmt.Sprintf("Stock updated for %s. New total: %d", res.Item.Name, res.Item.Quantity), nil
		}
		return fmt.Sprintf("New item created: %s (ID: %d, %s, $%.2f, qty %d).",
			res.Item.Name, res.Item.ID, res.Item.Category, res.Item.UnitPrice, res.Item.Quantity), nil
	case models.CommandSell:
		if len(cmd.Args) != 2 {
			return "", ErrInvalidArguments
		}
		id, err := parseNonNegative(cmd.Args[0])
		if err != nil {
			return "", err
		}
		qty, err := parseNonNegative(cmd.Args[1])
		if err != nil {
			return "", err
		}
		sale, err := s.inventory.Sell(id, qty)
		if err != nil {
			return "", err
		}
		if qty == 0 {
			return "Nothing sold.", nil
		}
		return fmt.Sprintf("Sold %d of ID %d. Total: $%.2f", qty, id, sale.Total), nil
	case models.CommandDelete:
		if len(cmd.Args) == 0 || len(cmd.Args) > 2 {
			return "", ErrInvalidArguments
		}
		id, err := parseNonNegative(cmd.Args[0])
		if err != nil {
			return "", err
		}
		confirmed := len(cmd.Args) == 2 && strings.EqualFold(cmd.Args[1], "yes")
		name, err := s.inventory.Delete(id, confirmed)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Item removed: %s (ID: %d).", name, id), nil
	case models.CommandSearch:
		return formatMatches(s.inventory.Find(strings.Join(cmd.Args, " "))), nil
	case models.CommandStats:
		return s.stats(), nil
	case models.CommandLowStock:
		threshold := s.settings.LowStockThreshold
		if len(cmd.Args) > 0 {
			v, err := parseNonNegative(cmd.Args[0])
			if err != nil {
				return "", err
			}
			threshold = v
		}
		return reporting.FormatLowStock(threshold, s.reporting.LowStock(threshold)), nil
	case models.CommandCategories:
		return reporting.FormatCategoryHealth(s.reporting.CategoryHealth(s.settings.RequiredCategories)), nil
	case models.CommandBackup:
		path, err := s.inventory.Backup()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Backup created: %s", path), nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) stats() string {
	totals := s.reporting.Totals()
	if totals.Items == 0 {
		return "No data available."
	}

	message := fmt.Sprintf("Total asset value: $%.2f\nTotal units: %d", totals.Value, totals.Units)
	if extremes, ok := s.reporting.PriceExtremes(); ok {
		message += fmt.Sprintf("\nMost expensive: %s\nCheapest: %s", extremes.MostExpensive, extremes.Cheapest)
	}
	return message
}

// buildItemInput accepts "<id> <qty>" for a restock or
// "<id> <qty> <price> <category> <name...>" for a new item.
func buildItemInput(args []string) (models.ItemInput, error) {
	if len(args) != 2 && len(args) < 5 {
		return models.ItemInput{}, ErrInvalidArguments
	}

	id, err := parseNonNegative(args[0])
	if err != nil {
		return models.ItemInput{}, err
	}
	qty, err := parseNonNegative(args[1])
	if err != nil {
		return models.ItemInput{}, err
	}

	in := models.ItemInput{ID: id, Quantity: qty}
	if len(args) == 2 {
		return in, nil
	}

	price, err := strconv.ParseFloat(args[2], 64)
	if err != nil || price < 0 {
		return models.ItemInput{}, ErrInvalidArguments
	}
	in.UnitPrice = price
	in.Category = args[3]
	in.Name = strings.Join(args[4:], " ")

	return in, nil
}

func parseNonNegative(raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, ErrInvalidArguments
	}
	return v, nil
}

func formatMatches(items []models.Item) string {
	if len(items) == 0 {
		return "No matches."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-6s | %-20s | %-5s | %-8s", "ID", "Name", "Qty", "Price")
	b.WriteString("\n" + strings.Repeat("-", 45))
	for _, item := range items {
		fmt.Fprintf(&b, "\n%-6d | %-20s | %-5d | $%-8.2f", item.ID, item.Name, item.Quantity, item.UnitPrice)
	}
	return b.String()
}
