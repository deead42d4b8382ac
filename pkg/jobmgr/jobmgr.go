// Package jobmgr provides fire-and-forget asynchronous jobs with
// optional start delays, status callbacks, and in-memory tracking of
// what is running.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(msg string) {
//	    log.Println("JOB:", msg)
//	})
//
//	err := jm.Defer("recheck-123", 30*time.Second, func(ctx context.Context) error {
//	    // runs after the delay unless the manager shuts down first
//	    return nil
//	})
//
// Jobs run in separate goroutines and are removed automatically on
// completion. A deferred job cannot be cancelled individually once
// scheduled; only manager shutdown stops pending delays.
package jobmgr

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// StatusReporter receives lifecycle events for jobs.
// Example messages:
//
//	running:recheck-123
//	error:recheck-123:lookup failed
//	done:recheck-123
type StatusReporter func(string)

type job struct {
	name   string
	cancel context.CancelFunc
}

// Manager orchestrates starting and tracking jobs. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*job
	ctx      context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup
	reporter StatusReporter
}

// NewManager creates a new Manager. The reporter callback may be nil.
func NewManager(reporter StatusReporter) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:     make(map[string]*job),
		ctx:      ctx,
		shutdown: cancel,
		reporter: reporter,
	}
}

// StartAsync runs a job in a separate goroutine and returns immediately.
// If a job with the same name is already running, an error is returned.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	return m.start(name, 0, runner)
}

// Defer schedules a job to run after the given delay. The delay is not
// cancellable per job; callers that need overlapping schedules for the
// same subject must use distinct names.
func (m *Manager) Defer(name string, delay time.Duration, runner func(ctx context.Context) error) error {
	return m.start(name, delay, runner)
}

func (m *Manager) start(name string, delay time.Duration, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("job '%s' is already running", name)
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.jobs[name] = &job{name: name, cancel: cancel}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer cancel()

		if delay > 0 {
			select {
			case <-ctx.Done():
				m.remove(name)
				return
			case <-time.After(delay):
			}
		}

		m.report("running:" + name)
		if err := runner(ctx); err != nil {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}
		m.remove(name)
	}()

	return nil
}

// List returns the names of pending and running jobs.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for name := range m.jobs {
		out = append(out, name)
	}
	return out
}

// Status returns a human-readable summary of active jobs.
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

// Shutdown cancels all pending delays and waits for running jobs.
func (m *Manager) Shutdown() {
	m.shutdown()
	m.wg.Wait()
}

func (m *Manager) remove(name string) {
	m.mu.Lock()
	delete(m.jobs, name)
	m.mu.Unlock()
}

func (m *Manager) report(s string) {
	if m.reporter != nil {
		m.reporter(s)
	}
}
