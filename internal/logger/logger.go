package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	permission = 0o664
)

// Build collects logger options before Make opens any file.
type Build struct {
	writer io.Writer
	path   string
	level  string
	pretty bool
}

// Log is a constructed logger plus the file it owns, if any.
type Log struct {
	Logger zerolog.Logger
	file   *os.File
}

func New() *Build {
	return &Build{}
}

func (b *Build) FromPath(path string) *Build {
	b.path = path
	return b
}

func (b *Build) FromWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

func (b *Build) Level(level string) *Build {
	b.level = level
	return b
}

// Pretty switches to zerolog's human-readable console output.
func (b *Build) Pretty(pretty bool) *Build {
	b.pretty = pretty
	return b
}

func (b *Build) Make() (*Log, error) {
	l := new(Log)
	var w io.Writer = os.Stderr
	if b.writer != nil {
		w = b.writer
	}
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		l.file = f
		w = zerolog.SyncWriter(f)
	}
	if b.pretty {
		w = zerolog.ConsoleWriter{Out: w, NoColor: b.path != ""}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(b.level)))
	if err != nil || b.level == "" {
		lvl = zerolog.InfoLevel
	}
	l.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return l, nil
}

// Close releases the log file opened by FromPath.
func (l *Log) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
