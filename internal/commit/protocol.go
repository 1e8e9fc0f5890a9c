package commit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/timing"
)

// Mutator is the authority's mutation API. Calls may fail or be delayed;
// nothing is assumed applied until the mirror shows it.
type Mutator interface {
	SetFrames(ctx context.Context, t timing.Directive, edits []FrameEdit) error
	AddFrame(ctx context.Context, t timing.Directive, at grid.Cell, f grid.Frame) error
	RemoveFrame(ctx context.Context, t timing.Directive, at grid.Cell) error
	SetLines(ctx context.Context, t timing.Directive, edits []LineEdit) error
}

// Submitter accepts an ordered sequence of requests. Submit never blocks on
// the network.
type Submitter interface {
	Submit(reqs ...Request)
}

const defaultRequestTimeout = 5 * time.Second

// Protocol forwards request sequences to a Mutator in the background. One
// worker drains a FIFO queue, so sequences reach the authority in the order
// they were submitted. A sequence stops at its first failure so later steps
// never run against a state the earlier ones did not produce.
type Protocol struct {
	ctx      context.Context
	mutator  Mutator
	logger   *slog.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
	failures atomic.Int64

	mu     sync.Mutex
	queue  [][]Request
	closed bool
	wake   chan struct{}
}

var _ Submitter = (*Protocol)(nil)

// NewProtocol builds a Protocol and starts its worker, which runs until ctx
// is cancelled. A zero timeout uses the default.
func NewProtocol(ctx context.Context, m Mutator, logger *slog.Logger, timeout time.Duration) *Protocol {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	p := &Protocol{
		ctx:     ctx,
		mutator: m,
		logger:  logger,
		timeout: timeout,
		wake:    make(chan struct{}, 1),
	}
	go p.run()
	return p
}

// Submit queues reqs as one sequence and returns immediately.
func (p *Protocol) Submit(reqs ...Request) {
	if p == nil || p.mutator == nil || len(reqs) == 0 {
		return
	}
	seq := append([]Request(nil), reqs...)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Debug("mutation dropped after shutdown", "request", seq[0].String(), "steps", len(seq))
		return
	}
	p.wg.Add(1)
	p.queue = append(p.queue, seq)
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Protocol) run() {
	for {
		select {
		case <-p.ctx.Done():
		case <-p.wake:
		}
		if p.ctx.Err() != nil {
			p.shutdown()
			return
		}
		for p.ctx.Err() == nil {
			seq, ok := p.pop()
			if !ok {
				break
			}
			p.deliver(seq)
			p.wg.Done()
		}
	}
}

func (p *Protocol) pop() ([]Request, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return nil, false
	}
	seq := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return seq, true
}

// shutdown refuses further sequences and releases the queued ones unsent.
func (p *Protocol) shutdown() {
	p.mu.Lock()
	p.closed = true
	pending := p.queue
	p.queue = nil
	p.mu.Unlock()

	if len(pending) > 0 {
		p.logger.Info("mutations dropped at shutdown", "sequences", len(pending))
	}
	for range pending {
		p.wg.Done()
	}
}

func (p *Protocol) deliver(seq []Request) {
	for i, req := range seq {
		if err := p.send(req); err != nil {
			p.failures.Add(1)
			p.logger.Warn("mutation rejected",
				"request", req.String(),
				"step", i+1,
				"of", len(seq),
				"error", err)
			return
		}
		p.logger.Debug("mutation sent", "request", req.String())
	}
}

// Wait blocks until every submitted sequence has been sent, has failed or
// was dropped at shutdown.
func (p *Protocol) Wait() {
	p.wg.Wait()
}

// Failures returns how many sequences were cut short by an error.
func (p *Protocol) Failures() int64 {
	return p.failures.Load()
}

func (p *Protocol) send(req Request) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	var err error
	switch req.Kind {
	case KindSetFrames:
		err = p.mutator.SetFrames(ctx, req.Timing, req.Frames)
	case KindAddFrame:
		err = p.mutator.AddFrame(ctx, req.Timing, req.At, req.Insert)
	case KindRemoveFrame:
		err = p.mutator.RemoveFrame(ctx, req.Timing, req.At)
	case KindSetLines:
		err = p.mutator.SetLines(ctx, req.Timing, req.Lines)
	default:
		err = fmt.Errorf("unknown request kind %d", int(req.Kind))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", req.Kind, err)
	}
	return nil
}
