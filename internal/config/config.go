package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mamadbah2/warehouse/internal/domain/models"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Inventory InventoryConfig
	Schedule  ScheduleConfig
	Alerts    AlertsConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	LogLevel  string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StorageConfig locates the inventory file, the audit log and the backups directory.
type StorageConfig struct {
	InventoryPath string
	LogPath       string
	BackupDir     string
	StrictLoad    bool
}

// InventoryConfig holds reporting defaults.
type InventoryConfig struct {
	LowStockThreshold  int
	RequiredCategories []models.Category
}

// ScheduleConfig holds cron expressions for background jobs. An empty expression
// disables the job.
type ScheduleConfig struct {
	Backup   string
	LowStock string
	Snapshot string
	Autosave string
	Timezone string
}

// AlertsConfig configures the low stock webhook.
type AlertsConfig struct {
	WebhookURL string
	Token      string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Range           string
}

// Enabled reports whether sheet export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	threshold, err := getenvInt("LOW_STOCK_THRESHOLD", 5)
	if err != nil {
		return nil, err
	}
	strict, err := getenvBool("STRICT_LOAD", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Storage: StorageConfig{
			InventoryPath: getenvWithDefault("INVENTORY_FILE", "warehouse_inventory.txt"),
			LogPath:       getenvWithDefault("TRANSACTION_LOG_FILE", "transaction_log.txt"),
			BackupDir:     getenvWithDefault("BACKUP_DIR", "backups"),
			StrictLoad:    strict,
		},
		Inventory: InventoryConfig{
			LowStockThreshold:  threshold,
			RequiredCategories: parseCategories(getenvWithDefault("REQUIRED_CATEGORIES", "Electronics,Furniture,Stationery,Cleaning")),
		},
		Schedule: ScheduleConfig{
			Backup:   getenvOptional("BACKUP_CRON_SCHEDULE", "0 2 * * *"),
			LowStock: getenvOptional("LOW_STOCK_CRON_SCHEDULE", "0 8 * * *"),
			Snapshot: getenvOptional("SNAPSHOT_CRON_SCHEDULE", "0 20 * * *"),
			Autosave: getenvOptional("AUTOSAVE_CRON_SCHEDULE", "*/15 * * * *"),
			Timezone: getenvWithDefault("TIMEZONE", "UTC"),
		},
		Alerts: AlertsConfig{
			WebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
			Token:      os.Getenv("ALERT_WEBHOOK_TOKEN"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "warehouse"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			Range:           getenvWithDefault("GOOGLE_SHEET_RANGE", "Inventory!A:E"),
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Storage.InventoryPath == "":
		return errors.New("INVENTORY_FILE must not be empty")
	case c.Storage.LogPath == "":
		return errors.New("TRANSACTION_LOG_FILE must not be empty")
	case c.Storage.BackupDir == "":
		return errors.New("BACKUP_DIR must not be empty")
	}

	if c.Inventory.LowStockThreshold < 0 {
		return errors.New("LOW_STOCK_THRESHOLD must not be negative")
	}

	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Schedule.Timezone, err)
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.Sheets.Enabled() && c.Sheets.Range == "" {
		return errors.New("GOOGLE_SHEET_RANGE must not be empty")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided with MONGODB_URI")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getenvOptional is getenvWithDefault for settings an explicitly empty value turns off.
func getenvOptional(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func parseCategories(raw string) []models.Category {
	return models.ParseCategories(strings.Split(raw, ","))
}
