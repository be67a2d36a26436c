// Package notify delivers operator alerts.
package notify

import (
	"context"
	"errors"
	"go.uber.org/zap"
)

var ErrNoRecipient = errors.New("notify: no recipient configured")

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender writes each alert as a structured log entry.
type LogSender struct {
	Log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSender{Log: log}
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	if to == "" {
		return ErrNoRecipient
	}
	s.Log.Info("alert_sent", zap.String("to", to), zap.String("subject", subject), zap.String("body", body))
	return nil
}
