package resilience

import "sync"

// Group deduplicates concurrent calls that share a key. Identical GETs issued by several live
// sessions at once (the sidebar lists on a burst of page loads) hit the backend once.
type Group[T any] struct {
	mu    sync.Mutex
	calls map[string]*flight[T]
}

type flight[T any] struct {
	wg  sync.WaitGroup
	val T
	err error
}

// Do runs fn once per key among concurrent callers. shared reports whether the result came from
// another caller's flight.
func (g *Group[T]) Do(key string, fn func() (T, error)) (val T, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flight[T])
	}

	if f, ok := g.calls[key]; ok {
		g.mu.Unlock()
		f.wg.Wait()
		return f.val, f.err, true
	}

	f := &flight[T]{}
	f.wg.Add(1)
	g.calls[key] = f
	g.mu.Unlock()

	defer func() {
		f.wg.Done()
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
	}()

	f.val, f.err = fn()
	return f.val, f.err, false
}
