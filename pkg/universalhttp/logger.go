package universalhttp

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the logging surface the executor relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// zapLogger writes through zap's global logger. Until the process installs
// one with zap.ReplaceGlobals it writes JSON to stderr.
type zapLogger struct{}

var stderrZap = sync.OnceValue(func() *zap.Logger {
	l, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop()
	}
	return l
})

func globalZap() *zap.Logger {
	// The no-op global enables no level at all.
	if l := zap.L(); l.Core().Enabled(zapcore.FatalLevel) {
		return l
	}
	return stderrZap()
}

func (zapLogger) InfoObj(msg, key string, obj interface{}) {
	globalZap().Info(msg, zap.Any(key, obj))
}

func (zapLogger) DebugObj(msg, key string, obj interface{}) {
	globalZap().Debug(msg, zap.Any(key, obj))
}

func (zapLogger) WarnObj(msg, key string, obj interface{}) {
	globalZap().Warn(msg, zap.Any(key, obj))
}

func (zapLogger) ErrorObj(msg, key string, obj interface{}) {
	globalZap().Error(msg, zap.Any(key, obj))
}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return zapLogger{}
	}
	return log
}
