// Package session holds the last analysis run for a presentation layer.
package session

import (
	"fmt"
	"sync"

	"github.com/kailas-cloud/cvdex/internal/domain"
	"github.com/kailas-cloud/cvdex/internal/domain/batch"
)

// Session is a caller-owned, concurrency-safe holder of the latest run.
type Session struct {
	mu  sync.RWMutex
	run *batch.Run
}

// New creates an empty session.
func New() *Session {
	return &Session{}
}

// Replace swaps in a new run, discarding the previous one.
func (s *Session) Replace(run *batch.Run) {
	s.mu.Lock()
	s.run = run
	s.mu.Unlock()
}

// Reset clears the session.
func (s *Session) Reset() {
	s.Replace(nil)
}

// Last returns the latest run.
func (s *Session) Last() (*batch.Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.run, s.run != nil
}

// Find returns the result for fileName from the latest run.
func (s *Session) Find(fileName string) (batch.Result, error) {
	run, ok := s.Last()
	if !ok {
		return batch.Result{}, fmt.Errorf("no analysis run yet: %w", domain.ErrNotFound)
	}
	res, ok := run.Find(fileName)
	if !ok {
		return batch.Result{}, fmt.Errorf("file %q not in last run: %w", fileName, domain.ErrNotFound)
	}
	return res, nil
}
