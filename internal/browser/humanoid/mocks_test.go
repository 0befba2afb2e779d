package humanoid

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// mockExecutor records every low-level call as a short event string so tests
// can assert on ordering, e.g. "move 10,20", "down", "type a", "click #x".
type mockExecutor struct {
	t  *testing.T
	mu sync.Mutex

	events         []string
	sleepDurations []time.Duration

	boxes map[string]*Box

	// Per-method forced errors.
	boxErr    error
	moveErr   error
	downErr   error
	typeErr   error
	clickErr  error
	fillErr   error
	scrollErr error
}

func newMockExecutor(t *testing.T) *mockExecutor {
	return &mockExecutor{t: t, boxes: map[string]*Box{}}
}

func (m *mockExecutor) record(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, fmt.Sprintf(format, args...))
}

func (m *mockExecutor) Sleep(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sleepDurations = append(m.sleepDurations, d)
	return nil
}

func (m *mockExecutor) MouseMove(_ context.Context, x, y float64) error {
	if m.moveErr != nil {
		return m.moveErr
	}
	m.record("move %.0f,%.0f", x, y)
	return nil
}

func (m *mockExecutor) MouseDown(context.Context) error {
	if m.downErr != nil {
		return m.downErr
	}
	m.record("down")
	return nil
}

func (m *mockExecutor) MouseUp(context.Context) error {
	m.record("up")
	return nil
}

func (m *mockExecutor) TypeText(_ context.Context, text string) error {
	if m.typeErr != nil {
		return m.typeErr
	}
	m.record("type %s", text)
	return nil
}

func (m *mockExecutor) BoundingBox(_ context.Context, selector string) (*Box, error) {
	if m.boxErr != nil {
		return nil, m.boxErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.boxes[selector], nil
}

func (m *mockExecutor) Click(_ context.Context, selector string) error {
	if m.clickErr != nil {
		return m.clickErr
	}
	m.record("click %s", selector)
	return nil
}

func (m *mockExecutor) Fill(_ context.Context, selector, value string) error {
	if m.fillErr != nil {
		return m.fillErr
	}
	m.record("fill %s %s", selector, value)
	return nil
}

func (m *mockExecutor) ScrollTo(_ context.Context, y float64) error {
	if m.scrollErr != nil {
		return m.scrollErr
	}
	m.record("scroll %.0f", y)
	return nil
}

// eventsWithPrefix returns the recorded events that start with prefix.
func (m *mockExecutor) eventsWithPrefix(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			out = append(out, e)
		}
	}
	return out
}

// recordingObserver collects primitive outcomes.
type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (o *recordingObserver) ObservePrimitive(primitive, status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, primitive+":"+status)
}
