// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detail

import "sync"

// DefaultTitle is the page title when no movie is shown.
const DefaultTitle = "usePopcorn"

// Title is the page title chrome. A movie view acquires it with Scope and
// must release it on exit; releasing a scope that has since been replaced
// does nothing.
type Title struct {
	mu      sync.Mutex
	current string
	owner   uint64
	next    uint64
}

// NewTitle returns a title showing DefaultTitle.
func NewTitle() *Title {
	return &Title{current: DefaultTitle}
}

// Get returns the current title.
func (t *Title) Get() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Scope sets the title to "Movie | <movie>" and returns the release func
// that restores DefaultTitle.
func (t *Title) Scope(movie string) (release func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	token := t.next
	t.owner = token
	t.current = "Movie | " + movie

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.owner == token {
				t.owner = 0
				t.current = DefaultTitle
			}
		})
	}
}
