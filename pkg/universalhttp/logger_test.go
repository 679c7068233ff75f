package universalhttp

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type logEntry struct {
	level string
	msg   string
	key   string
	obj   interface{}
}

// recordLogger keeps every entry for assertions.
type recordLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (r *recordLogger) add(level, msg, key string, obj interface{}) {
	r.mu.Lock()
	r.entries = append(r.entries, logEntry{level: level, msg: msg, key: key, obj: obj})
	r.mu.Unlock()
}

func (r *recordLogger) InfoObj(msg, key string, obj interface{})  { r.add("info", msg, key, obj) }
func (r *recordLogger) DebugObj(msg, key string, obj interface{}) { r.add("debug", msg, key, obj) }
func (r *recordLogger) WarnObj(msg, key string, obj interface{})  { r.add("warn", msg, key, obj) }
func (r *recordLogger) ErrorObj(msg, key string, obj interface{}) { r.add("error", msg, key, obj) }

func (r *recordLogger) snapshot() []logEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]logEntry(nil), r.entries...)
}

func (r *recordLogger) find(msg string) (logEntry, bool) {
	for _, e := range r.snapshot() {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

func (r *recordLogger) has(msg string) bool {
	_, ok := r.find(msg)
	return ok
}

func observeGlobalZap(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestDebugWithoutLoggerWritesToZap(t *testing.T) {
	logs := observeGlobalZap(t)
	client := &fakeClient{resp: fakeResponse{status: http.StatusOK, body: []byte(`{"id":7,"name":"g"}`)}}

	out, err := Execute[item](context.Background(), NewExecutor(WithClient(client)), Request{
		URL:   "https://api.example.com/items/7",
		Debug: true,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Model)

	entries := logs.FilterMessage("response received").All()
	require.Len(t, entries, 1)
	fields, ok := entries[0].ContextMap()["response"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, fields["status_code"])
	assert.Equal(t, `{"id":7,"name":"g"}`, fields["body"])
}

func TestDefaultExecutorLogsThroughZap(t *testing.T) {
	logs := observeGlobalZap(t)

	Default().log.WarnObj("request url rejected", "request_error", map[string]any{"url": "x"})
	assert.Equal(t, 1, logs.FilterMessage("request url rejected").Len())
}

func TestGlobalZapFallsBackWhenUnset(t *testing.T) {
	restore := zap.ReplaceGlobals(zap.NewNop())
	t.Cleanup(restore)

	assert.Same(t, stderrZap(), globalZap())
}
