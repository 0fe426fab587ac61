package tracker

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"aicoach-go/internal/models"
)

// Publisher decouples the fast detection loop from downstream consumers by
// forwarding tracker snapshots at a fixed, bounded cadence. Only the most
// recent snapshot matters, so there is no queueing.
type Publisher struct {
	log      *zap.Logger
	tracker  *Tracker
	interval time.Duration
	sink     func(models.BehaviorSnapshot)

	mu   sync.Mutex
	stop chan struct{}
}

// NewPublisher creates a publisher that pushes snapshots of t into sink.
// A nil tracker makes every tick a no-op.
func NewPublisher(log *zap.Logger, t *Tracker, interval time.Duration, sink func(models.BehaviorSnapshot)) *Publisher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Publisher{
		log:      log,
		tracker:  t,
		interval: interval,
		sink:     sink,
	}
}

// Start begins the publishing loop in a goroutine. Calling Start on a
// running publisher does nothing.
func (p *Publisher) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		return
	}
	p.stop = make(chan struct{})

	go func(stop chan struct{}) {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				p.publish()
			}
		}
	}(p.stop)

	p.log.Debug("Metrics publisher started", zap.Duration("interval", p.interval))
}

// Stop halts the publishing loop. Safe to call multiple times.
func (p *Publisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop == nil {
		return
	}
	close(p.stop)
	p.stop = nil
	p.log.Debug("Metrics publisher stopped")
}

func (p *Publisher) publish() {
	if p.tracker == nil || p.sink == nil {
		return
	}
	p.sink(p.tracker.Snapshot())
}
