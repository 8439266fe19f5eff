package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions 文件输出与滚动参数
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Options 日志初始化参数
type Options struct {
	Level  string
	Format string
	// Output 为 stdout、stderr 或 file
	Output string
	File   FileOptions
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup 按参数初始化默认日志器，返回的 Closer 用于关闭日志文件
func Setup(opts Options) (io.Closer, error) {
	w, closer, err := openOutput(opts)
	if err != nil {
		return nil, err
	}
	InitWithWriter(w, opts.Level, opts.Format)
	return closer, nil
}

func openOutput(opts Options) (io.Writer, io.Closer, error) {
	switch strings.ToLower(opts.Output) {
	case "", "stdout":
		return os.Stdout, nopCloser{}, nil
	case "stderr":
		return os.Stderr, nopCloser{}, nil
	case "file":
		if opts.File.Path == "" {
			return nil, nil, fmt.Errorf("log file path is required for file output")
		}
		if err := os.MkdirAll(filepath.Dir(opts.File.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		w := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
		}
		return w, w, nil
	default:
		return nil, nil, fmt.Errorf("unsupported log output: %s", opts.Output)
	}
}
