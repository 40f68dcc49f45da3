package eventconductor

import (
	"context"
	"errors"
	"fmt"

	"github.com/sasha-s/go-deadlock"

	"nostrcard/engine/library"
	"nostrcard/state/views"
)

var ErrScopeClosed = errors.New("scope is closed")

// Scope owns the aggregators started for one displayed set of cards. Closing it cancels them and
// removes their views from the store.
type Scope struct {
	aggregator *Aggregator
	ctx        context.Context
	cancel     context.CancelFunc
	wait       deadlock.WaitGroup
	mu         deadlock.Mutex
	running    map[views.Key]context.CancelFunc
	owned      map[views.Key]struct{}
	closed     bool
}

func (a *Aggregator) NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{
		aggregator: a,
		ctx:        ctx,
		cancel:     cancel,
		running:    make(map[views.Key]context.CancelFunc),
		owned:      make(map[views.Key]struct{}),
	}
}

// Watch starts an aggregator for (identity, kind) unless one is already running in this scope.
func (s *Scope) Watch(identity library.Identity, kind library.Kind) (views.Key, error) {
	key := views.Key{Identity: identity, Kind: kind}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return key, ErrScopeClosed
	}
	if _, ok := s.aggregator.handlers[kind]; !ok {
		return key, fmt.Errorf("no handler for %s", kind)
	}
	if _, ok := s.running[key]; ok {
		return key, nil
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.running[key] = cancel
	if _, ok := s.owned[key]; !ok {
		s.owned[key] = struct{}{}
		s.aggregator.store.Acquire(key)
	}
	s.wait.Add(1)
	go func() {
		defer s.wait.Done()
		defer s.finished(key, ctx)
		library.LogCLI(fmt.Sprintf("watching %s", key), 4)
		err := s.aggregator.Run(ctx, identity, kind)
		if err != nil && !errors.Is(err, context.Canceled) {
			library.LogCLI(fmt.Sprintf("%s: %s", key, err), 2)
		}
	}()
	return key, nil
}

// Unwatch stops the aggregator for key. Its view stays in the store until the scope is closed.
func (s *Scope) Unwatch(key views.Key) {
	s.mu.Lock()
	cancel, ok := s.running[key]
	delete(s.running, key)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// Running reports whether an aggregator for key is still consuming its stream.
func (s *Scope) Running(key views.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[key]
	return ok
}

func (s *Scope) finished(key views.Key, ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// a later Watch may have replaced the entry for key
	if ctx.Err() == nil {
		if cancel, ok := s.running[key]; ok {
			cancel()
			delete(s.running, key)
		}
	}
}

// Close cancels every aggregator and waits for them to return. A view is removed from the store
// unless another scope still owns its key.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wait.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.owned {
		if !s.aggregator.store.Release(key) {
			library.LogCLI(fmt.Sprintf("%s is still owned by another scope, keeping its view", key), 3)
		}
	}
	s.running = make(map[views.Key]context.CancelFunc)
}
