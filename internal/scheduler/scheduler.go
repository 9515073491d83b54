package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
)

// BatchProcessor is the dependency that actually does the work.
// The scheduler calls ProcessBatch once per tick.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context) error
}

// SchedulerService exposes a small control surface for the scheduler.
// Start/Stop are synchronous controls, and IsRunning reports
// whether the scheduler is currently accepting ticks.
type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// DefaultInterval is used when no custom interval is provided.
const DefaultInterval = 30 * time.Second

// DefaultBatchTimeout bounds a single ProcessBatch call.
const DefaultBatchTimeout = 5 * time.Second

// controlTimeout is how long Start/Stop wait for the control loop to
// accept and acknowledge a command.
const controlTimeout = 2 * time.Second

type controlOp int

const (
	opStart controlOp = iota
	opStop
	opStatus
)

type controlMsg struct {
	op   controlOp
	resp chan bool
}

// schedulerService owns the internal state and runs the control loop.
// All mutable state lives in the loop goroutine, so there are no locks.
type schedulerService struct {
	name         string
	processor    BatchProcessor
	interval     time.Duration
	batchTimeout time.Duration
	ctrl         chan controlMsg
	logger       *log.Entry
}

// NewSchedulerService creates a scheduler that runs p every interval.
// Non-positive interval or batchTimeout fall back to the defaults.
// The scheduler starts idle; call Start to begin ticking.
func NewSchedulerService(
	name string,
	p BatchProcessor,
	interval time.Duration,
	batchTimeout time.Duration,
) SchedulerService {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if batchTimeout <= 0 {
		batchTimeout = DefaultBatchTimeout
	}

	s := &schedulerService{
		name:         name,
		processor:    p,
		interval:     interval,
		batchTimeout: batchTimeout,
		ctrl:         make(chan controlMsg),
		logger:       log.WithFields(log.Fields{"component": "scheduler", "job": name}),
	}

	go s.loop()

	return s
}

// Start tells the scheduler to begin processing ticks.
func (s *schedulerService) Start() error {
	return s.send(opStart, "Start")
}

// Stop tells the scheduler to stop accepting new ticks. If a batch is
// running, Stop returns once it finishes or times out.
func (s *schedulerService) Stop() error {
	return s.send(opStop, "Stop")
}

func (s *schedulerService) send(op controlOp, label string) error {
	resp := make(chan bool)
	msg := controlMsg{op: op, resp: resp}

	select {
	case s.ctrl <- msg:
	case <-time.After(controlTimeout):
		return fmt.Errorf("scheduler %s: %s: control loop not responding", s.name, label)
	}

	// Stop may wait on an in-flight batch, which is itself bounded.
	wait := controlTimeout
	if op == opStop {
		wait += s.batchTimeout
	}

	select {
	case <-resp:
		return nil
	case <-time.After(wait):
		return fmt.Errorf("scheduler %s: %s: acknowledgement timeout", s.name, label)
	}
}

// IsRunning reports whether new ticks will be processed. It does not
// mean a batch is executing right now.
func (s *schedulerService) IsRunning() bool {
	resp := make(chan bool)
	s.ctrl <- controlMsg{op: opStatus, resp: resp}
	return <-resp
}

// loop owns all mutable state and reacts to control messages or ticks.
func (s *schedulerService) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	running := false
	done := make(chan error, 1)
	inBatch := false

	// pendingStop is answered once the current batch finishes,
	// if Stop was called mid-batch.
	var pendingStop chan bool

	for {
		select {
		case msg := <-s.ctrl:
			switch msg.op {
			case opStart:
				if !running {
					s.logger.WithFields(log.Fields{
						"interval":     s.interval,
						"batchTimeout": s.batchTimeout,
					}).Info("started")
				}
				running = true
				msg.resp <- true

			case opStop:
				if !running && !inBatch {
					msg.resp <- true
					continue
				}

				running = false
				if inBatch {
					s.logger.Info("stop requested, waiting for current batch")
					pendingStop = msg.resp
				} else {
					s.logger.Info("stopped")
					msg.resp <- true
				}

			case opStatus:
				msg.resp <- running
			}

		case <-ticker.C:
			if !running || inBatch {
				continue
			}

			inBatch = true
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), s.batchTimeout)
				defer cancel()
				done <- s.processor.ProcessBatch(ctx)
			}()

		case err := <-done:
			inBatch = false
			if err != nil {
				s.logger.WithError(err).Warn("batch failed")
			} else {
				s.logger.Debug("batch completed")
			}

			if pendingStop != nil {
				pendingStop <- true
				pendingStop = nil
				s.logger.Info("stopped")
			}
		}
	}
}
