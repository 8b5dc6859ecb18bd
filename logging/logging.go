/*package logging holds the process-wide logger and the verbosity flag that
decides how much of snfit's progress gets reported.*/
package logging

import (
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Flag int

const (
	Nil Flag = iota
	Performance
	Debug
)

// This is handled this way so that GlobalConfig doesn't need to be passed to
// every function in the project.
var (
	Mode Flag = Nil
	Log       = zap.NewNop().Sugar()
)

// ParseFlag converts the value of the 'Logging' config variable into a Flag.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nil", "none":
		return Nil, nil
	case "performance":
		return Performance, nil
	case "debug":
		return Debug, nil
	}
	return Nil, fmt.Errorf("I don't recognize the logging mode '%s'. "+
		"Supported modes are nil, performance, and debug", s)
}

func (f Flag) String() string {
	switch f {
	case Nil:
		return "nil"
	case Performance:
		return "performance"
	case Debug:
		return "debug"
	}
	panic("Impossible")
}

// Setup sets Mode and replaces Log with a logger writing to stderr. Nil
// keeps the no-op logger. The returned function flushes the logger.
func Setup(mode Flag) (func() error, error) {
	Mode = mode
	if mode == Nil {
		Log = zap.NewNop().Sugar()
		return func() error { return nil }, nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if mode == Performance {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	Log = l.Sugar()
	return func() error { return syncIgnoringTTY(Log.Sync()) }, nil
}

// syncIgnoringTTY drops the error zap reports when stderr is a terminal,
// which cannot be fsynced.
func syncIgnoringTTY(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "inappropriate ioctl") ||
		strings.Contains(err.Error(), "invalid argument") {
		return nil
	}
	return err
}

// MemString returns a string containing various statistics on the current
// memory usage of snfit.
func MemString() string {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf(
		"Alloc - %d MB; Sys - %d MB Integrated - %d MB",
		ms.Alloc>>20, ms.Sys>>20, ms.TotalAlloc>>20,
	)
}
