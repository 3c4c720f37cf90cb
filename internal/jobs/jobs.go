// Package jobs runs MediBook background maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/dmitrijs2005/medibook/internal/logging"
)

// DefaultCompletionSchedule runs the completion sweep five minutes past
// every hour.
const DefaultCompletionSchedule = "5 * * * *"

// Completer marks past confirmed appointments completed.
type Completer interface {
	CompletePast(ctx context.Context) (int, error)
}

// parser accepts standard five-field specs, an optional leading seconds
// field and descriptors such as @hourly.
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	ctx context.Context
	log logging.Logger
}

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.log.Debug(l.ctx, msg, kv...)
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.Error(l.ctx, msg, append(kv, "error", err)...)
}

// Scheduler owns the cron runner.
type Scheduler struct {
	cron *cron.Cron
	log  logging.Logger
}

// Start schedules the completion sweep and runs it until ctx is cancelled.
// An empty schedule disables the sweep and returns a nil Scheduler.
func Start(ctx context.Context, schedule string, c Completer, log logging.Logger) (*Scheduler, error) {
	if schedule == "" {
		return nil, nil
	}
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("component", "jobs")

	cl := cronLogger{ctx: ctx, log: log}
	runner := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	_, err := runner.AddFunc(schedule, func() { sweep(ctx, c, log) })
	if err != nil {
		return nil, fmt.Errorf("invalid completion schedule %q: %w", schedule, err)
	}

	s := &Scheduler{cron: runner, log: log}
	runner.Start()
	log.Info(ctx, "completion sweep scheduled", "schedule", schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return s, nil
}

// Stop halts the runner and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func sweep(ctx context.Context, c Completer, log logging.Logger) {
	if ctx.Err() != nil {
		return
	}
	n, err := c.CompletePast(ctx)
	if err != nil {
		log.Error(ctx, "completion sweep failed", "completed", n, "error", err)
		return
	}
	if n > 0 {
		log.Info(ctx, "completion sweep finished", "completed", n)
	}
}
