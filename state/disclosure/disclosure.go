// Package disclosure tracks which row of a data card is expanded. At most one row is open at a time.
package disclosure

import (
	"github.com/sasha-s/go-deadlock"
)

type State struct {
	mu       deadlock.Mutex
	selected string
	open     bool
}

// Toggle opens key, closing any other row, or closes key if it is already open.
func (s *State) Toggle(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open && s.selected == key {
		s.selected = ""
		s.open = false
		return
	}
	s.selected = key
	s.open = true
}

func (s *State) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.open
}

func (s *State) IsOpen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open && s.selected == key
}

func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
	s.open = false
}
