package scheduler

import (
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/finsent/newsradar/internal/pipeline"
	"github.com/finsent/newsradar/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeTrigger struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeTrigger) Trigger(pipeline.RunOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeTrigger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestNewRejectsMalformedTime(t *testing.T) {
	tests := []string{"", "1:00:00", "25:00", "12:61", "noon"}
	for _, hhmm := range tests {
		if _, err := New(&fakeTrigger{}, hhmm); err == nil {
			t.Errorf("New(%q) accepted a malformed schedule time", hhmm)
		}
	}
}

func TestNewAcceptsValidTime(t *testing.T) {
	s, err := New(&fakeTrigger{}, "01:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.hhmm != "01:00" {
		t.Errorf("hhmm = %q", s.hhmm)
	}
}

func TestRescheduleSwapsEntry(t *testing.T) {
	s, err := New(&fakeTrigger{}, "01:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Reschedule("06:30"); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if s.hhmm != "06:30" {
		t.Errorf("hhmm = %q, want 06:30", s.hhmm)
	}
	if entries := s.cron.Entries(); len(entries) != 1 {
		t.Errorf("cron entries = %d, want 1 after reschedule", len(entries))
	}

	if err := s.Reschedule("bad"); err == nil {
		t.Error("reschedule accepted a malformed time")
	}
	if s.hhmm != "06:30" {
		t.Errorf("failed reschedule must not change the time, got %q", s.hhmm)
	}
}

func TestFireSkipsWhenAlreadyRunning(t *testing.T) {
	trigger := &fakeTrigger{err: pipeline.ErrAlreadyRunning}
	s, err := New(trigger, "01:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// must not panic or retry
	s.fire()
	s.fire()

	if trigger.callCount() != 2 {
		t.Errorf("trigger calls = %d, want 2", trigger.callCount())
	}
}

func TestFireStartsRun(t *testing.T) {
	trigger := &fakeTrigger{}
	s, err := New(trigger, "01:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.fire()
	if trigger.callCount() != 1 {
		t.Errorf("trigger calls = %d, want 1", trigger.callCount())
	}

	trigger.err = errors.New("bad provider config")
	s.fire()
	if trigger.callCount() != 2 {
		t.Errorf("trigger calls = %d, want 2", trigger.callCount())
	}
}
