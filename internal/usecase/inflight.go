package usecase

import "context"

// inflight tracks the latest request of one fetch sequence. Starting a request cancels the previous
// one, and only the latest generation may apply its result. Callers guard it with their own mutex.
type inflight struct {
	gen    uint64
	cancel context.CancelFunc
}

func (f *inflight) begin(parent context.Context) (context.Context, uint64) {
	f.stop()
	ctx, cancel := context.WithCancel(parent)
	f.cancel = cancel
	return ctx, f.gen
}

func (f *inflight) current(gen uint64) bool {
	return f.gen == gen && f.cancel != nil
}

// finish releases the context of gen once its result has been applied.
func (f *inflight) finish(gen uint64) {
	if f.gen != gen || f.cancel == nil {
		return
	}
	f.cancel()
	f.cancel = nil
}

// stop cancels the pending request, if any, and invalidates its generation.
func (f *inflight) stop() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
}

func (f *inflight) active() bool {
	return f.cancel != nil
}
