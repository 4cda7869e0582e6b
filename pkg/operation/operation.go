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

package operation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/sanitize/pkg/log"
	"github.com/walteh/sanitize/pkg/rules"
	"github.com/walteh/sanitize/pkg/status"
	"github.com/walteh/sanitize/pkg/text"
	"github.com/walteh/sanitize/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// ErrIO marks a failure to read or write a document.
var ErrIO = errors.Base("i/o error")

// 🧾 FileError is a per-file I/O failure. It matches ErrIO with errors.Is.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func (e *FileError) Is(target error) bool {
	return target == ErrIO
}

// 📄 Document is one file moving through a run
type Document struct {
	Path      string
	Original  []byte
	Rewritten []byte
}

// Changed reports whether the rewritten content differs from the original.
func (d *Document) Changed() bool {
	return string(d.Original) != string(d.Rewritten)
}

// 🎯 Operation is a unit of work run by an OperationRunner
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for a sanitize run
type Options struct {
	// Root is the directory to walk
	Root string
	// Filter selects documents under Root
	Filter walk.Filter
	// Table is the rule table, rules.DefaultTable when nil
	Table *rules.Table
	// Files reads and writes documents, the local file system when nil
	Files status.FileManager
	// DryRun reports changes without writing them
	DryRun bool
	// FailFast aborts at the first per-file I/O error
	FailFast bool
	// SelfCheck verifies the table before any file is read, and each
	// document's output before it is written
	SelfCheck bool
	// Jobs is the number of documents processed at once
	Jobs int
}

// 🧼 SanitizeOperation rewrites every matching document under a root
type SanitizeOperation struct {
	opts     Options
	engine   *text.Engine
	reporter *status.Reporter
}

// 🏭 NewSanitizeOperation creates a new sanitize operation
func NewSanitizeOperation(opts Options) (*SanitizeOperation, error) {
	if opts.Root == "" {
		return nil, errors.Errorf("root is required")
	}
	if opts.Files == nil {
		opts.Files = status.NewOSFileManager()
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return &SanitizeOperation{
		opts:     opts,
		engine:   text.NewEngine(opts.Table),
		reporter: status.NewReporter(),
	}, nil
}

// Summary returns the accounting so far.
func (op *SanitizeOperation) Summary() status.RunSummary {
	return op.reporter.Summarize()
}

// 🏃 Execute walks the root and sanitizes each document. Per-file I/O errors
// are reported and the run continues, unless FailFast is set. Writes already
// made are kept when the run fails. The context must carry a *log.Logger.
func (op *SanitizeOperation) Execute(ctx context.Context) error {
	logger := log.FromContext(ctx)

	if op.opts.SelfCheck {
		if err := op.engine.Table().SelfCheck(); err != nil {
			return errors.Errorf("self check: %w", err)
		}
		logger.Infof("rule table passed self check (%d rules)", op.engine.Table().Len())
	}
	if op.opts.DryRun {
		logger.Infof("dry run: no files will be written")
	}

	logger.Zerolog().Debug().
		Str("root", op.opts.Root).
		Strs("extensions", op.opts.Filter.Extensions).
		Int("jobs", op.opts.Jobs).
		Bool("dry_run", op.opts.DryRun).
		Msg("starting sanitize run")

	var err error
	if op.opts.Jobs > 1 {
		err = op.runParallel(ctx)
	} else {
		err = op.runSequential(ctx)
	}

	summary := op.reporter.Summarize()
	if err == nil && summary.FilesScanned == 0 && len(summary.Failures) == 0 {
		logger.Warningf("no files matching %s found under %s", describeFilter(op.opts.Filter), op.opts.Root)
	}
	logger.Summary(ctx, summary, op.opts.DryRun)

	if err != nil {
		return err
	}
	if n := len(summary.Failures); n > 0 {
		return errors.Errorf("%w: %d file(s) could not be processed", ErrIO, n)
	}
	return nil
}

// 📄 process reads, transforms and, if needed, writes one document.
func (op *SanitizeOperation) process(ctx context.Context, path string) (*Document, []text.Diagnostic, error) {
	original, err := op.opts.Files.ReadFile(ctx, path)
	if err != nil {
		return nil, nil, &FileError{Path: path, Err: err}
	}

	result := op.engine.Transform(original)
	doc := &Document{Path: path, Original: original, Rewritten: result.ModifiedContent}

	if op.opts.SelfCheck {
		if err := op.engine.Verify(original); err != nil {
			return nil, nil, errors.Errorf("%w: %s: %s", rules.ErrConfiguration, path, err.Error())
		}
	}

	if doc.Changed() && !op.opts.DryRun {
		if err := op.opts.Files.WriteFileAtomic(ctx, path, doc.Rewritten); err != nil {
			return doc, result.Diagnostics, &FileError{Path: path, Err: err}
		}
	}

	zerolog.Ctx(ctx).Trace().
		Str("file", path).
		Int("replacements", result.ReplacementCount).
		Bool("changed", doc.Changed()).
		Msg("processed file")

	return doc, result.Diagnostics, nil
}

// 📋 record reports one outcome. It must be called in walk order.
func (op *SanitizeOperation) record(ctx context.Context, path string, changed bool, diags []text.Diagnostic, err error) {
	logger := log.FromContext(ctx)

	for _, d := range diags {
		diag := status.Diagnostic{
			Path:    path,
			Offset:  d.Offset,
			Message: fmt.Sprintf("malformed UTF-8 byte 0x%02x replaced by fallback rule", d.Byte),
		}
		op.reporter.RecordDiagnostic(diag.Path, diag.Offset, diag.Message)
		logger.Diagnostic(ctx, diag)
	}

	st := status.StatusUnchanged
	switch {
	case err != nil:
		st = status.StatusFailed
		op.reporter.RecordFailure(path, err)
		cause := err
		var ferr *FileError
		if errors.As(err, &ferr) {
			cause = ferr.Err
		}
		logger.FileFailed(ctx, status.Failure{Path: path, Err: cause})
	case changed:
		st = status.StatusModified
		op.reporter.Record(path, true)
		logger.FileUpdated(ctx, path, op.opts.DryRun)
	default:
		op.reporter.Record(path, false)
	}

	logger.Zerolog().Debug().Str("file", path).Stringer("status", st).Msg("recorded file")
}

// describeFilter names the extensions a filter accepts, for notices.
func describeFilter(f walk.Filter) string {
	if len(f.Extensions) == 0 {
		return walk.DefaultExtension
	}
	return strings.Join(f.Extensions, ", ")
}

// 🎯 Run creates and executes a sanitize operation and returns its summary
func Run(ctx context.Context, opts Options) (*status.RunSummary, error) {
	op, err := NewSanitizeOperation(opts)
	if err != nil {
		return nil, err
	}
	err = NewRunner(zerolog.Ctx(ctx)).Run(ctx, op)
	summary := op.Summary()
	return &summary, err
}
