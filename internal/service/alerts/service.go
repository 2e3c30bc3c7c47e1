package alerts

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/service/reporting"
	"github.com/mamadbah2/warehouse/pkg/clients/notifier"
)

// LowStockReporter supplies the items below a threshold.
type LowStockReporter interface {
	LowStock(threshold int) []models.Item
}

// Service pushes low stock alerts to the configured notifier.
type Service struct {
	reporting LowStockReporter
	client    notifier.Client
	threshold int
	logger    *zap.Logger
}

// NewService wires a new alert service. A nil client disables sending.
func NewService(reporting LowStockReporter, client notifier.Client, threshold int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reporting: reporting, client: client, threshold: threshold, logger: logger}
}

// NotifyLowStock sends one alert listing every low item. It reports whether an
// alert was sent; nothing is sent when all items are well stocked.
func (s *Service) NotifyLowStock(ctx context.Context) (bool, error) {
	low := s.reporting.LowStock(s.threshold)
	if len(low) == 0 {
		s.logger.Debug("no low stock items", zap.Int("threshold", s.threshold))
		return false, nil
	}

	if s.client == nil {
		s.logger.Warn("low stock detected but no alert webhook configured", zap.Int("items", len(low)))
		return false, nil
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	text := fmt.Sprintf("Warehouse alert\n%s", reporting.FormatLowStock(s.threshold, low))
	if err := s.client.Send(ctxWithTimeout, text); err != nil {
		return false, fmt.Errorf("send low stock alert: %w", err)
	}

	s.logger.Info("low stock alert sent", zap.Int("items", len(low)))
	return true, nil
}
