// Package flatfile persists the inventory as a comma-delimited text file with one
// item per line: id,name,category,price,quantity.
//
// Fields are not escaped. A name or category containing a comma produces a row
// with the wrong field count, which the loader drops (or rejects in strict mode).
package flatfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/store"
)

const (
	fieldCount      = 5
	backupStampFmt  = "20060102_150405"
	backupPrefix    = "inventory_backup_"
	backupExtension = ".txt"
)

var (
	// ErrLoad indicates the inventory file could not be read or parsed.
	ErrLoad = errors.New("load inventory")
	// ErrSave indicates the inventory file could not be written.
	ErrSave = errors.New("save inventory")
	// ErrNoSource indicates a backup was requested before any inventory file exists.
	ErrNoSource = errors.New("no inventory file to back up")
	// ErrBackup indicates the backup copy could not be written.
	ErrBackup = errors.New("backup inventory")
)

// Options configures file locations and parsing strictness.
type Options struct {
	Path      string
	BackupDir string
	// Strict rejects rows with the wrong field count instead of skipping them.
	Strict bool
}

// Repository loads, saves and backs up the inventory file.
type Repository struct {
	fs     afero.Fs
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewRepository builds a flat file repository on top of fs.
func NewRepository(fs afero.Fs, opts Options, logger *zap.Logger) *Repository {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{fs: fs, opts: opts, logger: logger, now: time.Now}
}

// Path returns the inventory file location.
func (r *Repository) Path() string { return r.opts.Path }

// Load reads the inventory file into a new store. A missing file yields an empty store.
func (r *Repository) Load() (*store.Store, error) {
	data, err := afero.ReadFile(r.fs, r.opts.Path)
	if errors.Is(err, os.ErrNotExist) {
		r.logger.Info("inventory file absent, starting empty", zap.String("path", r.opts.Path))
		return store.New(), nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoad, r.opts.Path, err)
	}

	items, err := r.parse(data)
	if err != nil {
		return nil, err
	}

	s := store.FromItems(items)
	r.logger.Info("inventory loaded", zap.String("path", r.opts.Path), zap.Int("items", s.Len()))
	return s, nil
}

func (r *Repository) parse(data []byte) ([]models.Item, error) {
	var items []models.Item

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != fieldCount {
			if r.opts.Strict {
				return nil, fmt.Errorf("%w: line %d: expected %d fields, got %d", ErrLoad, lineNo, fieldCount, len(fields))
			}
			r.logger.Warn("skip inventory row with unexpected field count",
				zap.Int("line", lineNo), zap.Int("fields", len(fields)))
			continue
		}

		item, err := parseItem(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrLoad, lineNo, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	return items, nil
}

func parseItem(fields []string) (models.Item, error) {
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil || id <= 0 {
		return models.Item{}, fmt.Errorf("invalid id %q", fields[0])
	}
	if fields[1] == "" {
		return models.Item{}, fmt.Errorf("empty name for id %d", id)
	}
	price, err := strconv.ParseFloat(fields[3], 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return models.Item{}, fmt.Errorf("invalid price %q", fields[3])
	}
	qty, err := strconv.Atoi(fields[4])
	if err != nil || qty < 0 {
		return models.Item{}, fmt.Errorf("invalid quantity %q", fields[4])
	}

	return models.Item{
		ID:        id,
		Name:      fields[1],
		Category:  models.NormalizeCategory(fields[2]),
		UnitPrice: price,
		Quantity:  qty,
	}, nil
}

// Save overwrites the inventory file with every item, sorted by id.
func (r *Repository) Save(s *store.Store) error {
	items := s.AllRecords()

	var buf bytes.Buffer
	for _, item := range items {
		fmt.Fprintf(&buf, "%d,%s,%s,%s,%d\n",
			item.ID, item.Name, item.Category, formatPrice(item.UnitPrice), item.Quantity)
	}

	if dir := filepath.Dir(r.opts.Path); dir != "." {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create %s: %v", ErrSave, dir, err)
		}
	}

	tmp := r.opts.Path + ".next"
	if err := afero.WriteFile(r.fs, tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrSave, tmp, err)
	}
	if err := r.fs.Rename(tmp, r.opts.Path); err != nil {
		return fmt.Errorf("%w: rename %s => %s: %v", ErrSave, tmp, r.opts.Path, err)
	}

	r.logger.Info("inventory saved", zap.String("path", r.opts.Path), zap.Int("items", len(items)))
	return nil
}

// Backup copies the inventory file into the backup directory under a timestamped
// name and returns the new path.
func (r *Repository) Backup() (string, error) {
	data, err := afero.ReadFile(r.fs, r.opts.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNoSource, r.opts.Path)
	} else if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrBackup, r.opts.Path, err)
	}

	if err := r.fs.MkdirAll(r.opts.BackupDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", ErrBackup, r.opts.BackupDir, err)
	}

	name := backupPrefix + r.now().Format(backupStampFmt) + backupExtension
	dest := filepath.Join(r.opts.BackupDir, name)
	if err := afero.WriteFile(r.fs, dest, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", ErrBackup, dest, err)
	}

	r.logger.Info("inventory backed up", zap.String("source", r.opts.Path), zap.String("backup", dest))
	return dest, nil
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
