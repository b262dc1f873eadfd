// Package scheduling submits AI scheduling jobs to the external engine and
// polls the job record until completion, failure or budget exhaustion. Only
// one polling cycle runs per board instance; a new submission supersedes
// and cancels the previous one, and late results of a cancelled cycle are
// discarded.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fleetyard/dispatchboard/core/events"
	"github.com/fleetyard/dispatchboard/core/logger"
	"github.com/fleetyard/dispatchboard/core/metrics"
	"github.com/fleetyard/dispatchboard/core/week"
	"github.com/fleetyard/dispatchboard/internal/eventbus"
)

// State is the orchestrator lifecycle state.
type State int

const (
	StateIdle State = iota
	StateSubmitted
	StatePolling
	StateCompleted
	StateFailed
	StateCancelled
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSubmitted:
		return "Submitted"
	case StatePolling:
		return "Polling"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	case StateCancelled:
		return "Cancelled"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptySelection rejects a submission before any remote call.
	ErrEmptySelection = errors.New("scheduling: no orders selected")
	// ErrPollTimeout signals that the job never reached a terminal
	// status within the configured budget.
	ErrPollTimeout = errors.New("scheduling: poll budget exhausted")
	// ErrJobFailed signals that the engine reported the job as failed.
	ErrJobFailed = errors.New("scheduling: job failed")
)

// Board is the subset of the board manager used to fold a completed job's
// recommendations back into the order set.
type Board interface {
	WeekBounds() (string, string)
	ClearSelection()
	Assign(ctx context.Context, orderID, truckID, date string) error
	ReloadOrders(ctx context.Context) error
}

// Orchestrator drives one scheduling job at a time.
type Orchestrator struct {
	engine  Engine
	board   Board
	logger  logger.Logger
	metrics metrics.Sink
	bus     eventbus.EventBus
	cfg     Config

	// interval mirrors cfg.Interval() and is overridable in tests.
	interval time.Duration

	mu     sync.Mutex
	state  State
	jobID  string
	gen    uint64 // polling generation, bumped on cancel/supersede
	cancel context.CancelFunc
	done   chan struct{} // closed when the current poll loop exits
}

// New creates an orchestrator.
func New(engine Engine, board Board, log logger.Logger, sink metrics.Sink, bus eventbus.EventBus, cfg Config) (*Orchestrator, error) {
	if engine == nil || board == nil {
		return nil, fmt.Errorf("scheduling: nil parameter provided to New")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Orchestrator{
		engine:   engine,
		board:    board,
		logger:   log,
		metrics:  sink,
		bus:      bus,
		cfg:      cfg,
		interval: cfg.Interval(),
		state:    StateIdle,
	}, nil
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// JobID returns the identifier of the last submitted job.
func (o *Orchestrator) JobID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.jobID
}

// Submit packages the active week bounds and the selected order ids, hands
// them to the engine and starts the polling cycle. An empty selection is
// rejected before any remote call. A previous in-flight cycle is cancelled
// first.
func (o *Orchestrator) Submit(ctx context.Context, orderIDs []string) (string, error) {
	if len(orderIDs) == 0 {
		return "", ErrEmptySelection
	}

	o.Cancel()

	start, end := o.board.WeekBounds()
	req := SubmitRequest{
		WeekStartDate: week.ToEngineFormat(start),
		WeekEndDate:   week.ToEngineFormat(end),
		OrderIDList:   strings.Join(orderIDs, ","),
	}
	jobID, err := o.engine.Submit(ctx, req)
	if err != nil {
		return "", fmt.Errorf("scheduling: submit: %w", err)
	}
	o.board.ClearSelection()

	pollCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	o.mu.Lock()
	o.state = StateSubmitted
	o.jobID = jobID
	o.gen++
	gen := o.gen
	o.cancel = cancel
	o.done = done
	o.state = StatePolling
	o.mu.Unlock()

	o.logger.Infof("scheduling job %s submitted for %s..%s (%d orders)", jobID, req.WeekStartDate, req.WeekEndDate, len(orderIDs))
	o.publish(jobID, StatePolling, nil)
	go o.poll(pollCtx, gen, jobID, done)
	return jobID, nil
}

// Cancel stops the in-flight polling cycle, if any. A poll response that
// resolves after cancellation is discarded by the generation check, not
// just by the stopped ticker.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	cancel := o.cancel
	done := o.done
	jobID := o.jobID
	active := o.state == StateSubmitted || o.state == StatePolling
	if active {
		o.state = StateCancelled
		o.gen++
		o.cancel = nil
	}
	o.mu.Unlock()
	if !active {
		return
	}
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	o.logger.Infof("scheduling job %s cancelled", jobID)
	o.publish(jobID, StateCancelled, nil)
}

// Close cancels any in-flight cycle on component teardown.
func (o *Orchestrator) Close() error {
	o.Cancel()
	return nil
}

// poll issues job-status checks on a fixed interval until the record turns
// terminal or the attempt budget runs out.
func (o *Orchestrator) poll(ctx context.Context, gen uint64, jobID string, done chan struct{}) {
	defer close(done)
	start := time.Now()
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		attempts++
		pollTicks.Inc()
		rec, err := o.engine.FetchJobStatus(ctx, jobID)
		if err != nil {
			// Transient backend failures do not end the cycle,
			// they only consume budget.
			o.logger.Warnf("job %s status check failed: %v", jobID, err)
		} else {
			switch rec.Status {
			case JobCompleted:
				o.complete(gen, rec, attempts, start)
				return
			case JobFailed:
				o.fail(gen, jobID, ErrJobFailed, attempts, start)
				return
			}
		}
		if attempts >= o.cfg.MaxAttempts {
			o.fail(gen, jobID, ErrPollTimeout, attempts, start)
			return
		}
	}
}

// complete folds the recommendations through the board and reloads the
// working set. A completion arriving after cancellation or supersession is
// dropped whole: no partial application.
func (o *Orchestrator) complete(gen uint64, rec JobRecord, attempts int, started time.Time) {
	o.mu.Lock()
	if gen != o.gen || o.state != StatePolling {
		o.mu.Unlock()
		o.logger.Warnf("discarding stale completion of job %s", rec.ID)
		return
	}
	o.state = StateCompleted
	o.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	applied := 0
	for _, r := range rec.Recommendations {
		if err := o.board.Assign(ctx, r.OrderID, r.TruckID, r.DeliveryDate); err != nil {
			o.logger.Warnf("recommendation for order %s not applied: %v", r.OrderID, err)
			continue
		}
		applied++
	}
	for _, d := range rec.Diagnostics {
		o.logger.Debugw("delivery condition", map[string]any{
			"order":    d.OrderID,
			"severity": d.Severity,
			"message":  d.Message,
		})
	}
	if err := o.board.ReloadOrders(ctx); err != nil {
		o.logger.Errorf("reload after job %s: %v", rec.ID, err)
	}

	jobsTotal.WithLabelValues("completed").Inc()
	o.logger.Infof("scheduling job %s completed: %d/%d recommendations applied", rec.ID, applied, len(rec.Recommendations))
	o.recordOutcome(rec.ID, string(JobCompleted), attempts, started, applied)
	o.publish(rec.ID, StateCompleted, nil)
}

func (o *Orchestrator) fail(gen uint64, jobID string, cause error, attempts int, started time.Time) {
	o.mu.Lock()
	if gen != o.gen || o.state != StatePolling {
		o.mu.Unlock()
		return
	}
	o.state = StateFailed
	o.mu.Unlock()

	outcome := "failed"
	if errors.Is(cause, ErrPollTimeout) {
		outcome = "timeout"
	}
	jobsTotal.WithLabelValues(outcome).Inc()
	o.logger.Errorf("scheduling job %s: %v after %d attempts", jobID, cause, attempts)
	o.recordOutcome(jobID, outcome, attempts, started, 0)
	o.publish(jobID, StateFailed, cause)
}

func (o *Orchestrator) recordOutcome(jobID, status string, attempts int, started time.Time, applied int) {
	err := o.metrics.RecordJobOutcome(metrics.JobOutcome{
		JobID:    jobID,
		Status:   status,
		Attempts: attempts,
		Duration: time.Since(started),
		Applied:  applied,
		Time:     time.Now(),
	})
	if err != nil {
		o.logger.Errorf("metrics error: %v", err)
	}
}

func (o *Orchestrator) publish(jobID string, st State, err error) {
	if o.bus == nil {
		return
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	o.bus.Publish(events.JobEvent{JobID: jobID, State: st.String(), Error: msg, Occurred: time.Now()})
}
