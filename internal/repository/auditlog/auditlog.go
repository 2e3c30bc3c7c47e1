// Package auditlog appends one line per inventory mutation to a text log.
//
// Writes are best effort. A failed append is reported through the logger and
// never surfaces to the caller.
package auditlog

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/models"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	minCorrelation  = 1000
	maxCorrelation  = 9999
)

// Recorder is the audit sink used by the inventory service.
type Recorder interface {
	Record(action models.Action, details string)
}

// Log writes audit entries to an append-only file.
type Log struct {
	fs     afero.Fs
	path   string
	logger *zap.Logger
	now    func() time.Time
	intn   func(n int) int
}

// New builds an audit log writing to path.
func New(fs afero.Fs, path string, logger *zap.Logger) *Log {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{fs: fs, path: path, logger: logger, now: time.Now, intn: rand.IntN}
}

// Record appends "[timestamp] ID:nnnn | ACTION | details".
func (l *Log) Record(action models.Action, details string) {
	// Correlation ids may collide; they are a diagnostic hint, not a key.
	correlation := minCorrelation + l.intn(maxCorrelation-minCorrelation+1)
	line := fmt.Sprintf("[%s] ID:%d | %s | %s\n", l.now().Format(timestampLayout), correlation, action, details)

	if err := l.append(line); err != nil {
		l.logger.Error("audit log write failed",
			zap.String("path", l.path),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

func (l *Log) append(line string) error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := l.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := l.fs.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
