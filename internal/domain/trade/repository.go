package trade

import "context"

type Simulator interface {
	Simulate(ctx context.Context, req SimulationRequest) (SimulationResult, error)
}
