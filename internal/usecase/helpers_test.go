package usecase

import (
	"sync"
	"sync/atomic"
)

// queueExecutor holds submitted tasks until the test runs them, so tests can reorder completions.
type queueExecutor struct {
	mu    sync.Mutex
	tasks []func()
}

func (q *queueExecutor) Submit(task func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *queueExecutor) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Run executes the i-th queued task.
func (q *queueExecutor) Run(i int) {
	q.mu.Lock()
	task := q.tasks[i]
	q.mu.Unlock()
	task()
}

type staleCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (s *staleCounter) RecordStaleResponse(component string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	s.counts[component]++
}

func (s *staleCounter) Count(component string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[component]
}

type changeCounter struct {
	n atomic.Int32
}

func (c *changeCounter) Notify() {
	c.n.Add(1)
}

func (c *changeCounter) Count() int {
	return int(c.n.Load())
}
