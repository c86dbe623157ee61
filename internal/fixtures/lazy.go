// File: internal/fixtures/lazy.go
package fixtures

import "sync"

// Lazy builds its value on the first Get and returns the same value afterwards.
type Lazy[T any] struct {
	once  sync.Once
	build func() T
	value T
}

func NewLazy[T any](build func() T) *Lazy[T] {
	return &Lazy[T]{build: build}
}

func (l *Lazy[T]) Get() T {
	l.once.Do(func() {
		l.value = l.build()
		l.build = nil
	})
	return l.value
}
