package logging

import (
	"time"
)

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Error records err under "error"; a nil error gives a null value
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Domain fields

func Component(name string) Field {
	return String("component", name)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func GraphLabel(label string) Field {
	return String("graph", label)
}

func Period(p int) Field {
	return Int("period", p)
}

func Modularity(q float64) Field {
	return Float64("modularity", q)
}

func Communities(k int) Field {
	return Int("communities", k)
}

func Nodes(n int) Field {
	return Int("nodes", n)
}

func Edges(n int) Field {
	return Int("edges", n)
}

func Records(n int) Field {
	return Int("records", n)
}

func LouvainLevel(level int) Field {
	return Int("level", level)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Path(p string) Field {
	return String("path", p)
}

