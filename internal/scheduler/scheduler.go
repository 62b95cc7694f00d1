// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultTimezone is the location schedules are evaluated in when none is
// configured.
const DefaultTimezone = "America/New_York"

// Job is one scheduled task.
type Job struct {
	Name        string
	Schedule    string // standard five-field cron expression or @descriptor
	Description string
	Run         func(ctx context.Context) error
}

// JobStatus describes a job for the tasks endpoint.
type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"expression"`
	Description string     `json:"description"`
	Running     bool       `json:"isRunning"`
	LastRun     *time.Time `json:"lastRun"`
	NextRun     *time.Time `json:"nextRun"`
	LastError   string     `json:"lastError,omitempty"`
}

type entry struct {
	job     Job
	id      cron.EntryID
	running bool
	lastRun time.Time
	lastErr string
}

// Scheduler owns a cron runner and the jobs registered on it.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	entries map[string]*entry
	started bool
}

// New registers jobs on a cron runner evaluated in loc. It fails on a
// duplicate name or an unparsable schedule.
func New(loc *time.Location, jobs ...Job) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	logger := slogLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]*entry, len(jobs)),
	}
	for _, job := range jobs {
		if err := s.add(job); err != nil {
			cancel()
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("scheduler: job needs a name and a run function")
	}
	if _, dup := s.entries[job.Name]; dup {
		return fmt.Errorf("scheduler: duplicate job %q", job.Name)
	}
	e := &entry{job: job}
	id, err := s.cron.AddFunc(job.Schedule, func() { s.run(s.ctx, e) })
	if err != nil {
		return fmt.Errorf("scheduler: job %q schedule %q: %w", job.Name, job.Schedule, err)
	}
	e.id = id
	s.entries[job.Name] = e
	slog.Info("scheduled task added", "task", job.Name, "schedule", job.Schedule)
	return nil
}

// run executes one job and records its outcome.
func (s *Scheduler) run(ctx context.Context, e *entry) error {
	s.mu.Lock()
	e.running = true
	s.mu.Unlock()

	start := time.Now()
	err := e.job.Run(ctx)

	s.mu.Lock()
	e.running = false
	e.lastRun = start
	e.lastErr = ""
	if err != nil {
		e.lastErr = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		slog.Error("scheduled task failed", "task", e.job.Name, "error", err)
	} else {
		slog.Info("scheduled task completed", "task", e.job.Name, "duration", time.Since(start))
	}
	return err
}

// Start begins firing jobs. It is a no-op when already started.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
	slog.Info("scheduler started", "tasks", len(s.entries))
}

// Stop halts the schedule, cancels the context handed to running jobs, and
// waits for them to return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		slog.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// RunNow executes the named job immediately, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("scheduler: unknown job %q", name)
	}
	return s.run(ctx, e)
}

// Status reports every job sorted by name.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.entries))
	for _, e := range s.entries {
		st := JobStatus{
			Name:        e.job.Name,
			Schedule:    e.job.Schedule,
			Description: e.job.Description,
			Running:     e.running,
			LastError:   e.lastErr,
		}
		if !e.lastRun.IsZero() {
			t := e.lastRun
			st.LastRun = &t
		}
		if s.started {
			if next := s.cron.Entry(e.id).Next; !next.IsZero() {
				st.NextRun = &next
			}
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// slogLogger adapts cron's logger interface to slog.
type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
