package testing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/arloliu/rowlist/types"
)

// NewTestLogger creates a logger that writes to the test log.
func NewTestLogger(t *testing.T) types.Logger {
	return &testLogger{t: t}
}

type testLogger struct {
	t *testing.T
}

var _ types.Logger = (*testLogger)(nil)

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.t.Logf("DEBUG: %s %v", msg, keysAndValues)
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.t.Logf("INFO: %s %v", msg, keysAndValues)
}

func (l *testLogger) Warn(msg string, keysAndValues ...any) {
	l.t.Logf("WARN: %s %v", msg, keysAndValues)
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.t.Logf("ERROR: %s %v", msg, keysAndValues)
}

func (l *testLogger) Fatal(msg string, keysAndValues ...any) {
	l.t.Fatalf("FATAL: %s %v", msg, keysAndValues)
}

// RecordingLogger keeps every message at Warn level and above, so tests can
// assert that a fallback or skipped record was reported.
type RecordingLogger struct {
	mu       sync.Mutex
	messages []string
}

var _ types.Logger = (*RecordingLogger)(nil)

// Messages returns the recorded messages, each prefixed with its level.
func (l *RecordingLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.messages...)
}

func (l *RecordingLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("%s: %s", level, msg))
}

func (l *RecordingLogger) Debug(string, ...any) {}

func (l *RecordingLogger) Info(string, ...any) {}

func (l *RecordingLogger) Warn(msg string, _ ...any) { l.record("WARN", msg) }

func (l *RecordingLogger) Error(msg string, _ ...any) { l.record("ERROR", msg) }

func (l *RecordingLogger) Fatal(msg string, _ ...any) { l.record("FATAL", msg) }
