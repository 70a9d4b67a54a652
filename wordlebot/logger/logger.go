package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeError   LogType = "ERR"
)

// CustomHandler prints one coloured line per record:
//
//	[Wordle] [15:04:05] [INFO] [CMD] Command completed [stats by alice] [Status: success]
type CustomHandler struct {
	out    io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	color  bool
	source bool
	attrs  []slog.Attr
}

type Options struct {
	Level     slog.Leveler
	AddSource bool
	NoColor   bool
}

func NewHandler(w io.Writer, opts Options) *CustomHandler {
	if w == nil {
		w = os.Stdout
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &CustomHandler{
		out:    w,
		mu:     &sync.Mutex{},
		level:  level,
		color:  !opts.NoColor,
		source: opts.AddSource,
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &c
}

// WithGroup is a no-op; records are printed flat.
func (h *CustomHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(r.Message) {
		return nil
	}

	fields := map[string]string{}
	var extra []string
	collect := func(a slog.Attr) bool {
		switch a.Key {
		case "type", "name", "user_name", "status", "error", "error_location":
			fields[a.Key] = a.Value.String()
		default:
			extra = append(extra, fmt.Sprintf("%s=%v", a.Key, a.Value))
		}
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	message := r.Message
	if r.Level >= slog.LevelError {
		location := fields["error_location"]
		if location == "" && h.source && r.PC != 0 {
			frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
			location = fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
		if location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
		if details := fields["error"]; details != "" {
			message = fmt.Sprintf("%s: %s", message, details)
		}
	}
	if fields["name"] != "" && fields["user_name"] != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, fields["name"], fields["user_name"])
	}
	if fields["status"] != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, fields["status"])
	}
	if len(extra) > 0 {
		message += " " + strings.Join(extra, " ")
	}

	levelColor, levelText := levelStyle(r.Level)
	white, reset := colorWhite, colorReset
	if !h.color {
		levelColor, white, reset = "", "", ""
	}

	line := fmt.Sprintf("%s[Wordle] [%s] [%s%s%s] [%s] %s%s\n",
		white,
		r.Time.Format("15:04:05"),
		levelColor,
		levelText,
		white,
		logType(fields["type"]),
		message,
		reset,
	)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line)
	return err
}

func levelStyle(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return colorRed, "ERROR"
	case level >= slog.LevelWarn:
		return colorYellow, "WARN"
	case level >= slog.LevelInfo:
		return colorGreen, "INFO"
	default:
		return colorPurple, "DEBUG"
	}
}

func logType(t string) LogType {
	switch t {
	case "cmd":
		return TypeCommand
	case "db":
		return TypeDB
	case "error":
		return TypeError
	default:
		return TypeSystem
	}
}

// disgo is chatty at debug level about rate limit buckets and gateway frames.
var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"cleaned up rate limit buckets",
	"binary message received",
	"received gateway message",
	"sending gateway command",
	"new request",
	"new response",
	"locking rest bucket",
	"unlocking rest bucket",
	"rate limit response headers",
	"sending heartbeat",
}

func shouldSkipLog(msg string) bool {
	msg = strings.ToLower(msg)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}
