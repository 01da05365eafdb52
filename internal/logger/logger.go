package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Environment variable to configure log file path.
const envLogPath = "OVERLAY_ART_LOG"

var (
	std           zerolog.Logger
	logFile       *os.File
	isInitialized bool
	mu            sync.Mutex
)

// InitFromEnv initializes the logger using OVERLAY_ART_LOG or a default path.
func InitFromEnv() error {
	path := os.Getenv(envLogPath)
	if path == "" {
		// Default to the directory where the executable is located
		if exePath, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(exePath), "overlay-art.log")
		} else {
			path = "./overlay-art.log"
		}
	}
	return Init(path)
}

// Init initializes the logger to write to the provided file path.
// It creates parent directories if needed and opens the file in append mode.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if isInitialized {
		return nil
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	logFile = f
	setOutput(f)
	return nil
}

// SetOutput routes log lines to w. Tests use it to capture or discard output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	setOutput(w)
}

func setOutput(w io.Writer) {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05.000000",
		NoColor:    true,
	}
	std = zerolog.New(cw).With().Timestamp().Int("pid", os.Getpid()).Logger()
	isInitialized = true
}

// Close closes the underlying log file, if open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	isInitialized = false
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// Infof logs informational messages.
func Infof(format string, args ...any) { write(zerolog.InfoLevel, format, args...) }

// Warnf logs warnings.
func Warnf(format string, args ...any) { write(zerolog.WarnLevel, format, args...) }

// Errorf logs errors.
func Errorf(format string, args ...any) { write(zerolog.ErrorLevel, format, args...) }

// Debugf logs diagnostics that are only useful while tuning a widget.
func Debugf(format string, args ...any) { write(zerolog.DebugLevel, format, args...) }

func write(level zerolog.Level, format string, args ...any) {
	mu.Lock()
	ready := isInitialized
	mu.Unlock()
	if !ready {
		// Fallback: initialize with default if not already.
		if err := InitFromEnv(); err != nil {
			return
		}
	}
	mu.Lock()
	l := std
	mu.Unlock()
	l.WithLevel(level).Msg(fmt.Sprintf(format, args...))
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
