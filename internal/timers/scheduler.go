// Package timers keeps named one-shot tasks for a single owner goroutine.
//
// Every armed task carries a generation number. When a timer fires, the owner
// is told (name, generation) through the Fire callback and must Claim the fire
// before acting on it. A task that was cancelled or replaced after its timer
// already fired fails the claim, so a stale fire can never run.
package timers

import (
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Fire is called from the timer goroutine. It must not block.
type Fire func(name string, gen uint64)

type entry[T any] struct {
	timer   clockwork.Timer
	gen     uint64
	payload T
}

// Scheduler is not safe for concurrent use; only Fire runs on other goroutines.
type Scheduler[T any] struct {
	clock  clockwork.Clock
	fire   Fire
	log    *zap.Logger
	gen    uint64
	active map[string]entry[T]
}

func New[T any](clock clockwork.Clock, fire Fire, log *zap.Logger) *Scheduler[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler[T]{
		clock:  clock,
		fire:   fire,
		log:    log,
		active: make(map[string]entry[T]),
	}
}

// Arm schedules payload under name after d, replacing any task of the same
// name. It returns the generation of the new task.
func (s *Scheduler[T]) Arm(name string, d time.Duration, payload T) uint64 {
	s.Cancel(name)

	s.gen++
	gen := s.gen
	t := s.clock.AfterFunc(d, func() { s.fire(name, gen) })
	s.active[name] = entry[T]{timer: t, gen: gen, payload: payload}

	s.log.Debug("task armed", zap.String("task", name), zap.Duration("delay", d), zap.Uint64("gen", gen))
	return gen
}

func (s *Scheduler[T]) Cancel(name string) {
	e, ok := s.active[name]
	if !ok {
		return
	}
	e.timer.Stop()
	delete(s.active, name)
	s.log.Debug("task cancelled", zap.String("task", name), zap.Uint64("gen", e.gen))
}

func (s *Scheduler[T]) CancelAll() {
	for name := range s.active {
		s.Cancel(name)
	}
}

// Claim accepts a fire for name only if gen is the live generation. The task
// is removed on success.
func (s *Scheduler[T]) Claim(name string, gen uint64) (T, bool) {
	e, ok := s.active[name]
	if !ok || e.gen != gen {
		var zero T
		s.log.Debug("stale fire dropped", zap.String("task", name), zap.Uint64("gen", gen))
		return zero, false
	}
	delete(s.active, name)
	return e.payload, true
}

// Pending lists armed task names in sorted order.
func (s *Scheduler[T]) Pending() []string {
	names := make([]string, 0, len(s.active))
	for name := range s.active {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
