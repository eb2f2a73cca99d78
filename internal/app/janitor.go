package app

import (
	"log/slog"
	"sync"
	"time"

	"go-rest-auth-starter/internal/repository"
)

// Janitor periodically removes expired rows from the token blacklist. Expired
// tokens fail signature-level checks anyway, so the rows only matter for
// table growth, not correctness.
type Janitor struct {
	tick      time.Duration
	blacklist repository.BlacklistRepository
	logger    *slog.Logger

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

func NewJanitor(tick time.Duration, blacklist repository.BlacklistRepository, logger *slog.Logger) *Janitor {
	if tick <= 0 {
		tick = time.Hour
	}
	return &Janitor{tick: tick, blacklist: blacklist, logger: logger}
}

func (j *Janitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stop != nil {
		return
	}
	j.stop = make(chan struct{})
	j.stopped = make(chan struct{})
	go j.run(j.stop, j.stopped)
}

func (j *Janitor) Stop() {
	j.mu.Lock()
	stop, stopped := j.stop, j.stopped
	j.stop, j.stopped = nil, nil
	j.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-stopped
}

func (j *Janitor) run(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(j.tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *Janitor) sweep() {
	removed, err := j.blacklist.CleanupExpired()
	if err != nil {
		j.logger.Error("blacklist cleanup failed", "error", err)
		return
	}
	if removed > 0 {
		j.logger.Info("blacklist cleanup", "removed", removed)
	}
}
