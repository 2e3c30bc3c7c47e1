package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/service/commands"
)

// NewBackupCommand copies the inventory file into the backup directory.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Create a timestamped copy of the inventory file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rootOpts.open()
			if err != nil {
				return err
			}
			path, err := sess.inventory.Backup()
			if err != nil {
				return err
			}
			return rootOpts.formatter().Result(map[string]string{"path": path}, fmt.Sprintf("Backup created: %s", path))
		},
	}
}

// NewExecCommand runs a text command such as "/sell 1 3".
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command...>",
		Short: "Run a text command (/add, /sell, /delete, /search, /stats, /lowstock, /categories, /backup)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rootOpts.open()
			if err != nil {
				return err
			}

			dispatcher := commands.NewService(sess.inventory, sess.reporting, commands.Settings{
				LowStockThreshold:  rootOpts.cfg.Inventory.LowStockThreshold,
				RequiredCategories: rootOpts.cfg.Inventory.RequiredCategories,
			}, rootOpts.logger.Named("svc.commands"))

			parsed, reply, err := dispatcher.HandleText(strings.Join(args, " "))
			if err != nil {
				return err
			}

			switch parsed.Type {
			case models.CommandAdd, models.CommandSell, models.CommandDelete:
				if err := sess.inventory.Save(); err != nil {
					return err
				}
			}

			return rootOpts.formatter().Result(models.CommandReply{Command: parsed.Type, Reply: reply}, reply)
		},
	}
}
