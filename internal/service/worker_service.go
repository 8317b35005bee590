package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionJanitor periodically evicts idle wizard sessions
type SessionJanitor struct {
	wizard   *WizardService
	interval time.Duration
	log      *zap.Logger
}

func NewSessionJanitor(wizard *WizardService, interval time.Duration, log *zap.Logger) *SessionJanitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionJanitor{
		wizard:   wizard,
		interval: interval,
		log:      log,
	}
}

// Start runs until ctx is cancelled
func (j *SessionJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.log.Info("session janitor started", zap.Duration("interval", j.interval))

	for {
		select {
		case <-ctx.Done():
			j.log.Info("session janitor stopped")
			return
		case now := <-ticker.C:
			j.sweep(now)
		}
	}
}

func (j *SessionJanitor) sweep(now time.Time) {
	if n := j.wizard.Evict(now); n > 0 {
		j.log.Info("evicted idle wizard sessions", zap.Int("count", n), zap.Int("open", j.wizard.Len()))
	}
}
