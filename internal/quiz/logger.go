package quiz

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger 调试日志器；debug 关闭时丢弃所有输出
// Logger is the debug logger; output is discarded unless debug mode is on
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
}

// NewLogger 创建写入 stderr 的日志器
// NewLogger creates a logger writing to stderr
func NewLogger(enabled bool) *Logger {
	return &Logger{out: os.Stderr, enabled: enabled}
}

// NewLoggerTo 创建写入指定 writer 的日志器
// NewLoggerTo creates a logger writing to the given writer
func NewLoggerTo(out io.Writer, enabled bool) *Logger {
	return &Logger{out: out, enabled: enabled}
}

// SetEnabled 切换调试开关 / SetEnabled toggles debug mode
func (l *Logger) SetEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.enabled = enabled
	l.mu.Unlock()
}

// Logf 输出一行带时间戳的调试日志
// Logf writes one timestamped debug line
func (l *Logger) Logf(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || l.out == nil {
		return
	}
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(l.out, "[%s] %s\n", ts, fmt.Sprintf(format, args...))
}
