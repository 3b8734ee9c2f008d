package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger 创建 Logger 并设为 slog 默认 Logger. output 为日志输出类型, 当前支持 "stderr", "stdout", "file".
// 当 output 为 file 时, 需要设定 filename 指定日志文件. format 支持 "json", "text".
// level 用于设定日志输出的最低级别. 返回的 cleanup 用于关闭日志文件.
func NewLogger(output, format, filename, level string) (*slog.Logger, func(), error) {
	w, closer, err := openOutput(output, filename)
	if err != nil {
		return nil, nil, err
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		closeQuietly(closer)
		return nil, nil, err
	}
	handler, err := newHandler(w, format, &slog.HandlerOptions{AddSource: true, Level: lvl})
	if err != nil {
		closeQuietly(closer)
		return nil, nil, err
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, func() { closeQuietly(closer) }, nil
}

// ParseLevel 解析 debug/info/warn(warning)/error, 不区分大小写.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported log level: %s", level)
	}
}

func openOutput(output, filename string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout, nil, nil
	case "stderr", "":
		return os.Stderr, nil, nil
	case "file":
		if filename == "" {
			return nil, nil, fmt.Errorf("unable to create log file which name is null(\"\")")
		}
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to create log file(%s): %w", filename, err)
		}
		return f, f, nil
	default:
		return nil, nil, fmt.Errorf("unsupported log output: %s", output)
	}
}

func newHandler(w io.Writer, format string, ho *slog.HandlerOptions) (slog.Handler, error) {
	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(w, ho), nil
	case "text", "":
		return slog.NewTextHandler(w, ho), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
