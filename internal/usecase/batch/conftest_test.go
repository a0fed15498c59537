package batch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// --- Mocks ---

type analyzeReply struct {
	raw string
	err error
}

type mockAnalyzer struct {
	mu       sync.Mutex
	replies  map[string]analyzeReply
	delay    time.Duration
	calls    []string
	inFlight atomic.Int32
	peak     atomic.Int32
	onCall   func(fileName string)
	panicOn  string
}

func (m *mockAnalyzer) Analyze(ctx context.Context, fileName string) (string, error) {
	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if cur <= p || m.peak.CompareAndSwap(p, cur) {
			break
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, fileName)
	reply, ok := m.replies[fileName]
	m.mu.Unlock()

	if m.onCall != nil {
		m.onCall(fileName)
	}
	if m.panicOn == fileName {
		panic("boom")
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if !ok {
		return "", fmt.Errorf("unexpected file %q", fileName)
	}
	return reply.raw, reply.err
}

func (m *mockAnalyzer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockLister struct {
	names []string
	err   error
}

func (m *mockLister) FileNames(_ context.Context) ([]string, error) {
	return m.names, m.err
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestService(a *mockAnalyzer, l *mockLister) *Service {
	svc := New(a, l, nil)
	svc.now = fixedClock()
	svc.newID = func() string { return "run-1" }
	return svc
}
