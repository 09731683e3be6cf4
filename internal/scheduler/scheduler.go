// Package scheduler runs periodic jobs on cron schedules.
//
// Cron fires on its own goroutines; those callbacks only enqueue. Jobs are
// executed one at a time by the goroutine that calls Run, so no two jobs
// ever overlap.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/habitual/internal/logger"
)

// queueSize bounds pending runs; further triggers of a job already pending
// are dropped.
const queueSize = 16

// Scheduler provides cron-based job scheduling with serialized execution.
type Scheduler struct {
	cron  *cron.Cron
	queue chan string

	mu      sync.Mutex
	jobs    map[string]func()
	pending map[string]bool
}

// New creates a scheduler. The cron clock starts when Run is called.
func New() *Scheduler {
	// Standard 5-field cron parser plus @hourly style descriptors
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	return &Scheduler{
		cron:    c,
		queue:   make(chan string, queueSize),
		jobs:    make(map[string]func()),
		pending: make(map[string]bool),
	}
}

// AddJob registers job under name and schedules it with the cron expression.
func (s *Scheduler) AddJob(name, expr string, job func()) error {
	s.mu.Lock()
	if _, exists := s.jobs[name]; exists {
		s.mu.Unlock()
		return fmt.Errorf("job %q already registered", name)
	}
	s.jobs[name] = job
	s.mu.Unlock()

	if _, err := s.cron.AddFunc(expr, func() { s.Trigger(name) }); err != nil {
		s.mu.Lock()
		delete(s.jobs, name)
		s.mu.Unlock()
		return fmt.Errorf("invalid schedule %q for job %q: %w", expr, name, err)
	}
	return nil
}

// Trigger enqueues a run of the named job. It never blocks.
func (s *Scheduler) Trigger(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; !ok {
		logger.Warn("Trigger for unknown job", "job", name)
		return false
	}
	if s.pending[name] {
		return false
	}

	select {
	case s.queue <- name:
		s.pending[name] = true
		return true
	default:
		logger.Warn("Job queue full, dropping trigger", "job", name)
		return false
	}
}

// Run starts the cron clock and executes queued jobs until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	defer func() {
		<-s.cron.Stop().Done()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case name := <-s.queue:
			s.mu.Lock()
			job := s.jobs[name]
			delete(s.pending, name)
			s.mu.Unlock()

			s.execute(name, job)
		}
	}
}

func (s *Scheduler) execute(name string, job func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Scheduled job panicked", "job", name, "panic", r)
		}
	}()

	logger.Debug("Running scheduled job", "job", name)
	job()
}
