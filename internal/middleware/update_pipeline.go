package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradeStage/internal/domain/models"
	domrepo "TradeStage/internal/domain/repository"
)

// Sink is the minimal downstream interface the pipeline needs.
type Sink interface {
	Persist(ctx context.Context, rep *models.TransitionReport) error
}

// UpdatePipeline sits between balance-update intake and persistence.
// It validates, throttles per account, and buffers reports when the
// downstream store is unavailable. Stage-changing reports are never
// throttled: losing an UPGRADE/DOWNGRADE record is worse than a burst.
type UpdatePipeline struct {
	sink     Sink
	metrics  domrepo.Metrics
	maxRPS   int
	bufSize  int
	bufCh    chan *models.TransitionReport
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time // per-account last accepted time
}

type PipelineOption func(*UpdatePipeline)

// WithMaxRPS sets the max accepted updates per second per account.
func WithMaxRPS(n int) PipelineOption {
	return func(p *UpdatePipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *UpdatePipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewUpdatePipeline creates a new pipeline.
func NewUpdatePipeline(sink Sink, metrics domrepo.Metrics, opts ...PipelineOption) *UpdatePipeline {
	p := &UpdatePipeline{
		sink:     sink,
		metrics:  metrics,
		maxRPS:   20,   // default throttle per account
		bufSize:  1000, // default buffer
		bufCh:    make(chan *models.TransitionReport, 1000),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.TransitionReport, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered reports.
func (p *UpdatePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case rep := <-p.bufCh:
				if rep == nil {
					continue
				}
				if err := p.sink.Persist(ctx, rep); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- rep:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *UpdatePipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a report to the sink,
// buffering on persistence errors.
func (p *UpdatePipeline) Process(ctx context.Context, rep *models.TransitionReport) error {
	start := time.Now()
	if err := validateReport(rep); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if rep.Transition == models.TransitionNoChange && !p.allow(rep.AccountID, start) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.sink.Persist(ctx, rep); err != nil {
		p.metrics.RecordError("pipeline_persist")
		// buffer non-blocking
		select {
		case p.bufCh <- rep:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_persist", time.Since(start).Seconds())
	return nil
}

func validateReport(rep *models.TransitionReport) error {
	if rep == nil {
		return fmt.Errorf("report nil")
	}
	if rep.AccountID == "" {
		return fmt.Errorf("account id empty")
	}
	if !rep.CurrentStage.Valid() || !rep.PreviousStage.Valid() {
		return fmt.Errorf("invalid stage in report")
	}
	if rep.CurrentBalance.IsNegative() {
		return fmt.Errorf("negative balance in report")
	}
	return nil
}

func (p *UpdatePipeline) allow(accountID string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[accountID]
	if last.IsZero() {
		p.lastSeen[accountID] = now
		return true
	}
	if now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[accountID] = now
	return true
}
