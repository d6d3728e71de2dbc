// Package budget enforces the wall-clock execution ceiling for a run.
package budget

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrExceeded is the distinguished signal that the execution budget is
// exhausted. Callers must propagate it so the whole run unwinds; it is
// a normal handoff at the top level, not an incident.
var ErrExceeded = errors.New("execution budget exceeded")

// Dispatcher triggers a follow-up run to pick up remaining work.
type Dispatcher interface {
	Dispatch(ctx context.Context) error
}

// Monitor tracks elapsed time against an immutable budget. Check is
// consulted before every potentially slow step; once the limit is
// crossed it fires the continuation dispatch and keeps returning
// ErrExceeded on any further checks during unwind.
type Monitor struct {
	start      time.Time
	limit      time.Duration
	dispatcher Dispatcher
	logger     *zap.Logger
	dispatched bool
}

// NewMonitor starts a budget clock now. dispatcher may be nil, in
// which case exceeding the budget only aborts the run.
func NewMonitor(limit time.Duration, dispatcher Dispatcher, logger *zap.Logger) *Monitor {
	return &Monitor{
		start:      time.Now(),
		limit:      limit,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Check returns nil while the budget holds, ErrExceeded once it does
// not. The continuation dispatch fires at most once per run; its own
// failure is logged and does not change the outcome.
func (m *Monitor) Check(ctx context.Context) error {
	elapsed := time.Since(m.start)
	if elapsed < m.limit {
		return nil
	}

	if !m.dispatched {
		m.dispatched = true
		m.logger.Warn("execution budget exceeded, dispatching continuation",
			zap.Duration("elapsed", elapsed),
			zap.Duration("limit", m.limit))
		if m.dispatcher != nil {
			if err := m.dispatcher.Dispatch(ctx); err != nil {
				m.logger.Error("continuation dispatch failed", zap.Error(err))
			}
		}
	}

	return ErrExceeded
}

// Elapsed reports time spent since the run started.
func (m *Monitor) Elapsed() time.Duration {
	return time.Since(m.start)
}
