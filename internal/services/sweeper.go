package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/bambinounos/psicoeval/internal/repository"
)

// Sweeper periodically marks pending evaluations past their expiry as
// EXPIRADA. Access checks also expire lazily, so the sweeper only keeps the
// panel listings honest for invitations nobody ever opened.
type Sweeper struct {
	log      *zap.Logger
	interval time.Duration
	done     chan struct{}
}

func NewSweeper(log *zap.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		log:      log,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine. One immediate sweep
// runs at startup so a restarted server catches up right away.
func (s *Sweeper) Start() {
	go func() {
		s.sweep()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.done:
				return
			}
		}
	}()
	s.log.Info("expiration sweeper started", zap.Duration("interval", s.interval))
}

// Stop terminates the sweep loop.
func (s *Sweeper) Stop() {
	close(s.done)
}

func (s *Sweeper) sweep() {
	n, err := repository.SweepExpired(time.Now())
	if err != nil {
		s.log.Error("expiration sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("expired pending evaluations", zap.Int64("count", n))
	}
}
