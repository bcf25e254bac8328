package csync

import (
	"iter"
	"slices"
	"sync"
)

// Slice is a thread-safe slice.
type Slice[T any] struct {
	inner []T
	mu    sync.RWMutex
}

// NewSlice creates a new empty thread-safe slice.
func NewSlice[T any]() *Slice[T] {
	return &Slice[T]{}
}

// NewSliceFrom creates a new thread-safe slice holding a copy of s.
func NewSliceFrom[T any](s []T) *Slice[T] {
	return &Slice[T]{
		inner: slices.Clone(s),
	}
}

// Append adds items to the end of the slice.
func (s *Slice[T]) Append(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner = append(s.inner, items...)
}

// Get returns the element at index.
func (s *Slice[T]) Get(index int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	if index < 0 || index >= len(s.inner) {
		return zero, false
	}
	return s.inner[index], true
}

// Set replaces the element at index. It reports whether index was valid.
func (s *Slice[T]) Set(index int, item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.inner) {
		return false
	}
	s.inner[index] = item
	return true
}

// Delete removes the element at index. It reports whether index was valid.
func (s *Slice[T]) Delete(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.inner) {
		return false
	}
	s.inner = slices.Delete(s.inner, index, index+1)
	return true
}

// SetSlice replaces the whole content with a copy of items.
func (s *Slice[T]) SetSlice(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner = slices.Clone(items)
}

// Len returns the number of elements.
func (s *Slice[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inner)
}

// Seq returns an iterator over a snapshot of the slice.
func (s *Slice[T]) Seq() iter.Seq[T] {
	s.mu.RLock()
	snapshot := slices.Clone(s.inner)
	s.mu.RUnlock()
	return func(yield func(T) bool) {
		for _, v := range snapshot {
			if !yield(v) {
				return
			}
		}
	}
}

// Seq2 returns an index/value iterator over a snapshot of the slice.
func (s *Slice[T]) Seq2() iter.Seq2[int, T] {
	s.mu.RLock()
	snapshot := slices.Clone(s.inner)
	s.mu.RUnlock()
	return func(yield func(int, T) bool) {
		for i, v := range snapshot {
			if !yield(i, v) {
				return
			}
		}
	}
}
