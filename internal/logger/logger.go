package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Logger wraps slog with optional debug file output.
type Logger struct {
	*slog.Logger
	debugFile *os.File
	mu        sync.RWMutex
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init sets up the process-wide logger.
func Init() *Logger {
	once.Do(func() {
		handler := newTextHandler(os.Stdout, slog.LevelInfo)
		defaultLogger = &Logger{
			Logger: slog.New(handler),
		}
	})
	return defaultLogger
}

// GetLogger returns the process-wide logger, initializing it if needed.
func GetLogger() *Logger {
	if defaultLogger == nil {
		return Init()
	}
	return defaultLogger
}

// newTextHandler builds the text handler with a fixed timestamp layout
// and right-padded level names.
func newTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				t := a.Value.Time()
				return slog.String("time", t.Format("2006-01-02 15:04:05"))
			}
			if a.Key == slog.LevelKey {
				level := a.Value.Any().(slog.Level)
				levelStr := ""
				switch level {
				case slog.LevelDebug:
					levelStr = "DEBUG"
				case slog.LevelInfo:
					levelStr = "INFO "
				case slog.LevelWarn:
					levelStr = "WARN "
				case slog.LevelError:
					levelStr = "ERROR"
				}
				return slog.String("level", levelStr)
			}
			return a
		},
	})
}

// EnableDebugLog duplicates output to filePath at debug level.
func (l *Logger) EnableDebugLog(filePath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.debugFile != nil {
		l.debugFile.Close()
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create debug log file: %w", err)
	}

	l.debugFile = f

	multiWriter := io.MultiWriter(os.Stdout, f)
	handler := newTextHandler(multiWriter, slog.LevelDebug)
	l.Logger = slog.New(handler)

	l.Info("debug log enabled", "file", filePath)

	return nil
}

// DisableDebugLog stops writing to the debug file and returns its path.
func (l *Logger) DisableDebugLog() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.debugFile == nil {
		return ""
	}

	filePath := l.debugFile.Name()

	l.Info("debug log disabled", "file", filePath)

	l.debugFile.Close()
	l.debugFile = nil

	handler := newTextHandler(os.Stdout, slog.LevelInfo)
	l.Logger = slog.New(handler)

	return filePath
}

// IsDebugEnabled reports whether debug file output is active.
func (l *Logger) IsDebugEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.debugFile != nil
}

// GetDebugFilePath returns the active debug file path, or "".
func (l *Logger) GetDebugFilePath() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.debugFile != nil {
		return l.debugFile.Name()
	}
	return ""
}

// sanitizeArgs masks values whose key looks like a credential.
func sanitizeArgs(args []any) []any {
	if len(args) == 0 {
		return args
	}

	result := make([]any, len(args))
	copy(result, args)

	for i := 0; i < len(result)-1; i += 2 {
		if keyStr, ok := result[i].(string); ok {
			keyLower := strings.ToLower(keyStr)
			if strings.Contains(keyLower, "password") ||
				strings.Contains(keyLower, "token") ||
				strings.Contains(keyLower, "secret") ||
				strings.Contains(keyLower, "key") && !strings.Contains(keyLower, "key=") {
				result[i+1] = "***"
			}
		}
	}

	return result
}

// Package-level convenience wrappers.
func Info(msg string, args ...any) {
	GetLogger().Info(msg, sanitizeArgs(args)...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, sanitizeArgs(args)...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, sanitizeArgs(args)...)
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, sanitizeArgs(args)...)
}

// EnableDebug turns on debug file output globally.
func EnableDebug(filePath string) error {
	return GetLogger().EnableDebugLog(filePath)
}

// DisableDebug turns off debug file output globally.
func DisableDebug() string {
	return GetLogger().DisableDebugLog()
}

// IsDebugEnabled reports the global debug file state.
func IsDebugEnabled() bool {
	return GetLogger().IsDebugEnabled()
}
