// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package policy

import "sync"

// Store holds the current policy set. Reloads swap the whole set at once;
// readers always observe a complete, ordered set.
type Store struct {
	mu  sync.RWMutex
	set *Set
}

// NewStore creates a Store holding the given set.
func NewStore(set *Set) *Store {
	if set == nil {
		set = &Set{}
	}
	return &Store{set: set}
}

// Current returns the active policy set.
func (s *Store) Current() *Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

// Replace installs a new policy set.
func (s *Store) Replace(set *Set) {
	if set == nil {
		set = &Set{}
	}
	s.mu.Lock()
	s.set = set
	s.mu.Unlock()
}
