package inventory

import (
	"context"
	"fmt"
	"github.com/harishnarayan-coder/pizza-orders/internal/metrics"
	"go.uber.org/zap"
	"strings"
)

const AlertSubject = "LOW STOCK ALERT - Pizza App"

// Notifier delivers one message to one recipient.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type MonitorConfig struct {
	Recipient string
	Threshold int
}

// Monitor scans the ledger for ingredients under the threshold and sends a
// single aggregated alert. It never returns an error to the caller.
type Monitor struct {
	ledger    Ledger
	notifier  Notifier
	recipient string
	threshold int
	log       *zap.Logger
}

func NewMonitor(ledger Ledger, notifier Notifier, cfg MonitorConfig, log *zap.Logger) *Monitor {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{
		ledger:    ledger,
		notifier:  notifier,
		recipient: cfg.Recipient,
		threshold: cfg.Threshold,
		log:       log,
	}
}

func (m *Monitor) ScanAndNotify(ctx context.Context) {
	defer func() {
		if p := recover(); p != nil {
			metrics.LowStockAlerts.WithLabelValues("panic").Inc()
			m.log.Error("low_stock_scan_panicked", zap.Any("panic", p))
		}
	}()

	low, err := m.ledger.ListBelow(ctx, m.threshold)
	if err != nil {
		metrics.LowStockAlerts.WithLabelValues("scan_failed").Inc()
		m.log.Error("low_stock_scan_failed", zap.Error(err))
		return
	}
	if len(low) == 0 {
		metrics.LowStockAlerts.WithLabelValues("none").Inc()
		return
	}

	body := FormatAlert(low)
	if err := m.notifier.Send(ctx, m.recipient, AlertSubject, body); err != nil {
		metrics.LowStockAlerts.WithLabelValues("send_failed").Inc()
		m.log.Warn("low_stock_alert_failed",
			zap.String("recipient", m.recipient), zap.Int("items", len(low)), zap.Error(err))
		return
	}
	metrics.LowStockAlerts.WithLabelValues("sent").Inc()
	m.log.Info("low_stock_alert_sent", zap.String("recipient", m.recipient), zap.Int("items", len(low)))
}

// FormatAlert renders one "<name> (<category>): <n> left" line per ingredient.
func FormatAlert(items []Ingredient) string {
	var b strings.Builder
	b.WriteString("Low Stock Alert!\n\nThe following items are running low:\n\n")
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s (%s): %d left", it.Name, it.Category, it.Stock)
	}
	return b.String()
}
