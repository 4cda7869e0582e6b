// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/sanitize/pkg/status"
)

// 🎯 Logger writes run results for humans and mirrors them to zerolog.
// Per-file notices and the summary go to out; warnings and errors go to console.
type Logger struct {
	zlog      zerolog.Logger
	out       io.Writer
	console   io.Writer
	formatter status.FileFormatter
	mu        sync.Mutex
}

// 🏭 New creates a new logger. The structured log is written to console.
func New(out, console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: console, NoColor: color.NoColor}).
		With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:      zlog,
		out:       out,
		console:   console,
		formatter: status.NewDefaultFileFormatter(),
	}
}

// Zerolog returns the structured logger, for attaching to a context.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger, and its zerolog logger, to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	ctx = l.zlog.WithContext(ctx)
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 FileUpdated prints the notice for a modified file
func (l *Logger) FileUpdated(ctx context.Context, path string, dryRun bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.out, l.formatter.FormatUpdated(path, dryRun))
	l.zlog.Debug().Str("file", path).Bool("dry_run", dryRun).Msg("file updated")
}

// 📝 FileFailed reports a per-file I/O error
func (l *Logger) FileFailed(ctx context.Context, f status.Failure) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("error:"), l.formatter.FormatFailure(f))
	l.zlog.Debug().Str("file", f.Path).Err(f.Err).Msg("file failed")
}

// 📝 Diagnostic reports a content problem handled by a fallback rule
func (l *Logger) Diagnostic(ctx context.Context, d status.Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s %s\n", color.New(color.FgYellow).Sprint("warning:"), l.formatter.FormatDiagnostic(d))
	l.zlog.Debug().Str("file", d.Path).Int("offset", d.Offset).Msg(d.Message)
}

// 📝 Summary prints the final total line
func (l *Logger) Summary(ctx context.Context, s status.RunSummary, dryRun bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.out, l.formatter.FormatTotal(s.FilesModified, dryRun))
	l.zlog.Debug().
		Int("scanned", s.FilesScanned).
		Int("modified", s.FilesModified).
		Int("failures", len(s.Failures)).
		Int("diagnostics", len(s.Diagnostics)).
		Bool("dry_run", dryRun).
		Msg("run complete")
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s %s\n", color.New(color.FgYellow).Sprint("warning:"), msg)
	l.zlog.Debug().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("error:"), msg)
	l.zlog.Debug().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s %s\n", color.New(color.FgCyan).Sprint("info:"), msg)
	l.zlog.Debug().Msg(msg)
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}
