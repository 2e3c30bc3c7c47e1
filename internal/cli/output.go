package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/warehouse/internal/domain/models"
)

// OutputFormatter renders command results as tables, JSON or YAML.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Structured reports whether output is machine readable.
func (f *OutputFormatter) Structured() bool {
	return f.Format == "json" || f.Format == "yaml"
}

// Value writes v as JSON or YAML. It is a no-op for table output.
func (f *OutputFormatter) Value(v any) error {
	switch f.Format {
	case "json":
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return nil
}

// Result writes v in structured formats, or message for table output.
func (f *OutputFormatter) Result(v any, message string) error {
	if f.Structured() {
		return f.Value(v)
	}
	_, err := fmt.Fprintln(f.Writer, message)
	return err
}

// Items writes items as a table, or as a list in structured formats.
func (f *OutputFormatter) Items(items []models.Item, empty string) error {
	if f.Structured() {
		return f.Value(items)
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(f.Writer, empty)
		return err
	}

	table := tablewriter.NewWriter(f.Writer)
	table.Header("ID", "Name", "Category", "Qty", "Price", "Value")
	for _, item := range items {
		if err := table.Append([]string{
			strconv.Itoa(item.ID),
			item.Name,
			string(item.Category),
			humanize.Comma(int64(item.Quantity)),
			money(item.UnitPrice),
			money(item.Value()),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}
