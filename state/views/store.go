package views

import (
	"github.com/sasha-s/go-deadlock"

	"nostrcard/engine/library"
)

// Store holds the latest View per Key and pushes every update to the subscribers of that key.
type Store struct {
	mu          deadlock.Mutex
	views       map[Key]View
	subscribers map[Key]map[uint64]*Subscription
	owners      map[Key]int
	nextID      uint64
}

func NewStore() *Store {
	return &Store{
		views:       make(map[Key]View),
		subscribers: make(map[Key]map[uint64]*Subscription),
		owners:      make(map[Key]int),
	}
}

// Set replaces the view for key and queues it for every live subscriber of key.
func (s *Store) Set(key Key, view View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view.Key = key
	s.views[key] = view
	for _, sub := range s.subscribers[key] {
		sub.push(view)
	}
}

func (s *Store) Get(key Key) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[key]
	return v, ok
}

// Remove forgets the view for key. Subscribers stay attached and see later updates.
func (s *Store) Remove(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, key)
}

// Acquire records one more owner of key. A key with owners is only removed by Release once the
// last of them lets go.
func (s *Store) Acquire(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[key]++
}

// Release drops one owner of key and removes its view when no owner is left. It reports whether
// the view was removed.
func (s *Store) Release(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owners[key] > 1 {
		s.owners[key]--
		return false
	}
	delete(s.owners, key)
	delete(s.views, key)
	return true
}

// Keys returns every key that currently has a view.
func (s *Store) Keys() (keys []Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.views {
		keys = append(keys, k)
	}
	return
}

// Subscribe returns a Subscription that first yields the current view for key, if any, and then
// every update in the order it was written.
func (s *Store) Subscribe(key Key) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sub := &Subscription{
		id:      s.nextID,
		key:     key,
		store:   s,
		pending: library.NewQueue[View](4),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		updates: make(chan View),
	}
	if v, ok := s.views[key]; ok {
		sub.push(v)
	}
	if s.subscribers[key] == nil {
		s.subscribers[key] = make(map[uint64]*Subscription)
	}
	s.subscribers[key][sub.id] = sub
	go sub.deliver()
	return sub
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers[sub.key], sub.id)
	if len(s.subscribers[sub.key]) == 0 {
		delete(s.subscribers, sub.key)
	}
}

type Subscription struct {
	id      uint64
	key     Key
	store   *Store
	mu      deadlock.Mutex
	pending *library.Queue[View]
	wake    chan struct{}
	done    chan struct{}
	closed  bool
	updates chan View
}

// Updates is closed after Close.
func (sub *Subscription) Updates() <-chan View {
	return sub.updates
}

func (sub *Subscription) Key() Key {
	return sub.key
}

// Close detaches the subscription. Views not yet received are discarded.
func (sub *Subscription) Close() {
	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		return
	}
	sub.closed = true
	sub.mu.Unlock()
	sub.store.unsubscribe(sub)
	close(sub.done)
}

func (sub *Subscription) push(v View) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.pending.Push(v)
	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *Subscription) next() (View, bool) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.pending.Pop()
}

func (sub *Subscription) deliver() {
	defer close(sub.updates)
	for {
		v, ok := sub.next()
		if !ok {
			select {
			case <-sub.wake:
				continue
			case <-sub.done:
				return
			}
		}
		select {
		case sub.updates <- v:
		case <-sub.done:
			return
		}
	}
}
