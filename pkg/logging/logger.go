package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// NewJSONLogger creates a logger writing to writer at the given level
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		out:   &sink{writer: writer},
		level: &levelVar{level: level},
	}
}

// NewDefaultLogger creates a logger that writes to stderr at INFO level.
// Stdout stays free for report output.
func NewDefaultLogger() *JSONLogger {
	return NewJSONLogger(os.Stderr, InfoLevel)
}

func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	if level < l.GetLevel() {
		return
	}

	entry := LogEntry{
		Time:    time.Now().UTC().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if n := len(l.fields) + len(fields); n > 0 {
		entry.Fields = make(map[string]any, n)
		for _, f := range l.fields {
			entry.Fields[f.Key] = f.Value
		}
		// Call-site fields override preset ones
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		data = fmt.Appendf(nil, `{"level":"ERROR","msg":"unencodable log entry","fields":{"error":%q}}`, err.Error())
	}
	data = append(data, '\n')

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	_, _ = l.out.writer.Write(data)
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields...) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields...) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields...) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields...) }

// With returns a child sharing the writer and level of l
func (l *JSONLogger) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &JSONLogger{out: l.out, level: l.level, fields: merged}
}

// SetLevel changes the level of l and every logger derived from it
func (l *JSONLogger) SetLevel(level Level) {
	l.level.mu.Lock()
	l.level.level = level
	l.level.mu.Unlock()
}

func (l *JSONLogger) GetLevel() Level {
	l.level.mu.RLock()
	defer l.level.mu.RUnlock()
	return l.level.level
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
	defaultOnce   sync.Once
)

// DefaultLogger returns the process-wide logger. Its initial level comes
// from LOG_LEVEL.
func DefaultLogger() Logger {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		defer defaultMu.Unlock()
		if defaultLogger == nil {
			defaultLogger = NewJSONLogger(os.Stderr, ParseLevel(os.Getenv("LOG_LEVEL")))
		}
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger
func SetDefaultLogger(logger Logger) {
	defaultOnce.Do(func() {})
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

func Debug(msg string, fields ...Field) { DefaultLogger().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { DefaultLogger().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { DefaultLogger().Warn(msg, fields...) }

// ErrorLog logs at ERROR on the default logger. Error is the field constructor.
func ErrorLog(msg string, fields ...Field) { DefaultLogger().Error(msg, fields...) }

func With(fields ...Field) Logger { return DefaultLogger().With(fields...) }

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the timer started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

func (t *TimedOperation) withLatency(extra ...Field) []Field {
	fields := make([]Field, 0, len(t.fields)+len(extra)+1)
	fields = append(fields, t.fields...)
	fields = append(fields, extra...)
	return append(fields, Latency(t.Elapsed()))
}

// End logs the operation at INFO with its duration
func (t *TimedOperation) End(extra ...Field) {
	t.logger.Info(t.msg, t.withLatency(extra...)...)
}

// EndWithLevel logs msg at level with the operation duration
func (t *TimedOperation) EndWithLevel(level Level, msg string) {
	fields := t.withLatency()
	switch level {
	case DebugLevel:
		t.logger.Debug(msg, fields...)
	case WarnLevel:
		t.logger.Warn(msg, fields...)
	case ErrorLevel:
		t.logger.Error(msg, fields...)
	default:
		t.logger.Info(msg, fields...)
	}
}

// EndError logs the operation as failed
func (t *TimedOperation) EndError(err error) {
	t.logger.Error(t.msg, t.withLatency(Error(err))...)
}
