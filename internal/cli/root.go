package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/config"
	"github.com/mamadbah2/warehouse/internal/repository/auditlog"
	"github.com/mamadbah2/warehouse/internal/repository/flatfile"
	"github.com/mamadbah2/warehouse/internal/service/inventory"
	"github.com/mamadbah2/warehouse/internal/service/reporting"
	"github.com/mamadbah2/warehouse/pkg/logger"
)

// RootOptions holds global flags for all commands. Empty path flags fall back
// to the environment configuration.
type RootOptions struct {
	EnvFile   string
	File      string
	LogFile   string
	BackupDir string
	Format    string // "table" | "json" | "yaml"
	Strict    bool
	Verbose   bool

	fs     afero.Fs
	out    io.Writer
	cfg    *config.Config
	logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"table", "json", "yaml"}

// NewRootCommand creates the root command for the whsctl CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(afero.NewOsFs(), os.Stdout)
}

func newRootCommand(fs afero.Fs, out io.Writer) *cobra.Command {
	opts := &RootOptions{fs: fs, out: out}

	cmd := &cobra.Command{
		Use:           "whsctl",
		Short:         "whsctl - warehouse inventory tool",
		Long:          "Manage the warehouse inventory file: stock items, process orders, report and back up.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "optional .env file to load")
	cmd.PersistentFlags().StringVarP(&opts.File, "file", "f", "", "inventory file (default $INVENTORY_FILE)")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log", "", "transaction log file (default $TRANSACTION_LOG_FILE)")
	cmd.PersistentFlags().StringVar(&opts.BackupDir, "backup-dir", "", "backup directory (default $BACKUP_DIR)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "table", "output format (table|json|yaml)")
	cmd.PersistentFlags().BoolVar(&opts.Strict, "strict", false, "fail on malformed inventory rows instead of skipping them")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewSellCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewLowStockCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewExecCommand(opts))

	return cmd
}

func (o *RootOptions) init(cmd *cobra.Command) error {
	cfg, err := config.Load(o.EnvFile)
	if err != nil {
		return err
	}
	if o.File == "" {
		o.File = cfg.Storage.InventoryPath
	}
	if o.LogFile == "" {
		o.LogFile = cfg.Storage.LogPath
	}
	if o.BackupDir == "" {
		o.BackupDir = cfg.Storage.BackupDir
	}
	if !cmd.Flags().Changed("strict") {
		o.Strict = cfg.Storage.StrictLoad
	}
	o.cfg = cfg

	o.logger, err = logger.NewConsole(o.Verbose)
	return err
}

// session is one loaded inventory plus the services operating on it.
type session struct {
	inventory *inventory.Service
	reporting *reporting.Service
}

func (o *RootOptions) open() (*session, error) {
	repo := flatfile.NewRepository(o.fs, flatfile.Options{
		Path:      o.File,
		BackupDir: o.BackupDir,
		Strict:    o.Strict,
	}, o.logger.Named("repo.flatfile"))

	s, err := repo.Load()
	if err != nil {
		return nil, err
	}

	audit := auditlog.New(o.fs, o.LogFile, o.logger.Named("repo.auditlog"))
	inv := inventory.NewService(s, repo, audit, o.logger.Named("svc.inventory"))

	return &session{
		inventory: inv,
		reporting: reporting.NewService(inv, o.logger.Named("svc.reporting")),
	}, nil
}

func (o *RootOptions) formatter() *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: o.out}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
