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

	"github.com/walteh/sanitize/pkg/text"
	"github.com/walteh/sanitize/pkg/walk"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// fileResult holds one processed document until it can be recorded in walk
// order. Only the outcome is kept, not the document bytes.
type fileResult struct {
	path    string
	changed bool
	diags   []text.Diagnostic
	err     error
	done    bool
	ready   chan struct{}
}

func newFileResult(path string) *fileResult {
	return &fileResult{path: path, ready: make(chan struct{})}
}

func (r *fileResult) finished() bool {
	select {
	case <-r.ready:
		return true
	default:
		return false
	}
}

// 🔄 runSequential handles each document fully before asking the walker for the next.
func (op *SanitizeOperation) runSequential(ctx context.Context) error {
	for path, err := range walk.Files(ctx, op.opts.Root, op.opts.Filter) {
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return errors.Errorf("sanitize run cancelled: %w", ctxErr)
			}
			ferr := &FileError{Path: path, Err: err}
			op.record(ctx, path, false, nil, ferr)
			if op.opts.FailFast {
				return errors.Errorf("aborting: %w", ferr)
			}
			continue
		}

		doc, diags, err := op.process(ctx, path)
		if err != nil && !errors.Is(err, ErrIO) {
			return err
		}
		op.record(ctx, path, doc != nil && doc.Changed(), diags, err)
		if err != nil && op.opts.FailFast {
			return errors.Errorf("aborting: %w", err)
		}
	}

	return nil
}

// ⚡ runParallel processes up to Jobs documents at once. Outcomes are recorded
// in the order the walker produced them, as soon as every earlier document has
// been recorded.
func (op *SanitizeOperation) runParallel(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(op.opts.Jobs)

	var (
		pending []*fileResult
		first   error
		fatal   error
	)

	// flush records finished results from the front of pending. With wait set
	// it blocks on each one, otherwise it stops at the first unfinished result.
	// Nothing is recorded after a result that is not an I/O error.
	flush := func(wait bool) {
		for len(pending) > 0 && fatal == nil {
			res := pending[0]
			if !wait && !res.finished() {
				return
			}
			<-res.ready
			pending[0] = nil
			pending = pending[1:]

			if !res.done {
				continue
			}
			if res.err != nil && !errors.Is(res.err, ErrIO) {
				fatal = res.err
				return
			}
			op.record(ctx, res.path, res.changed, res.diags, res.err)
			if res.err != nil && first == nil {
				first = res.err
			}
		}
	}

	for path, err := range walk.Files(gctx, op.opts.Root, op.opts.Filter) {
		if gctx.Err() != nil {
			break
		}

		res := newFileResult(path)
		pending = append(pending, res)

		if err != nil {
			res.err = &FileError{Path: path, Err: err}
			res.done = true
			close(res.ready)
			if op.opts.FailFast {
				break
			}
			flush(false)
			continue
		}

		g.Go(func() error {
			defer close(res.ready)
			if gctx.Err() != nil {
				return nil
			}
			doc, diags, err := op.process(gctx, res.path)
			res.changed = doc != nil && doc.Changed()
			res.diags, res.err = diags, err
			res.done = true
			if err != nil && (op.opts.FailFast || !errors.Is(err, ErrIO)) {
				return err
			}
			return nil
		})

		flush(false)
	}

	flush(true)
	waitErr := g.Wait()
	if waitErr != nil && !errors.Is(waitErr, ErrIO) {
		return waitErr
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Errorf("sanitize run cancelled: %w", ctxErr)
	}
	if op.opts.FailFast {
		if waitErr != nil {
			return errors.Errorf("aborting: %w", waitErr)
		}
		if first != nil {
			return errors.Errorf("aborting: %w", first)
		}
	}

	return nil
}
