package usecase

import (
	"context"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/debounce"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
)

// Executor runs fetch tasks off the caller's goroutine. *ants.Pool satisfies it.
type Executor interface {
	Submit(task func()) error
}

// InlineExecutor runs each task on the calling goroutine.
type InlineExecutor struct{}

func (InlineExecutor) Submit(task func()) error {
	task()
	return nil
}

type WelcomeFetcher interface {
	Welcome(ctx context.Context) (player.Welcome, error)
}

// StaleRecorder counts results dropped because a newer request superseded them.
type StaleRecorder interface {
	RecordStaleResponse(component string)
}

// Runtime bundles what every page controller needs besides its API ports.
type Runtime struct {
	Executor Executor
	Logger   *logging.Logger
	Stale    StaleRecorder
	// Clock drives debounce timers; nil uses the wall clock.
	Clock debounce.Clock
}

func (r Runtime) normalize() Runtime {
	if r.Executor == nil {
		r.Executor = InlineExecutor{}
	}
	if r.Logger == nil {
		r.Logger = logging.Default()
	}
	return r
}

func (r Runtime) debounceOptions() []debounce.Option {
	if r.Clock == nil {
		return nil
	}
	return []debounce.Option{debounce.WithClock(r.Clock)}
}

func (r Runtime) recordStale(component string) {
	if r.Stale != nil {
		r.Stale.RecordStaleResponse(component)
	}
}
