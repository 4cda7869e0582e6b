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

// Package walk discovers documents under a root directory in a deterministic order.
package walk

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultExtension is the documentation suffix used when none is configured.
const DefaultExtension = ".md"

// 🔍 Filter selects which files are yielded
type Filter struct {
	Extensions []string // File name suffixes to accept, e.g. ".md"
	Exclude    []string // Doublestar globs, relative to root, to skip
}

// Validate checks every exclude pattern.
func (f Filter) Validate() error {
	for _, pattern := range f.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

func (f Filter) matchesExtension(name string) bool {
	exts := f.Extensions
	if len(exts) == 0 {
		exts = []string{DefaultExtension}
	}
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (f Filter) excluded(ctx context.Context, rel string) bool {
	for _, pattern := range f.Exclude {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("path", rel).Str("pattern", pattern).Msg("path excluded by pattern")
			return true
		}
	}
	return false
}

// 🚶 Files lazily yields every regular file under root that passes filter.
// Directories are visited in lexical order and symbolic links are skipped.
// A directory that cannot be read is yielded as (path, err) and the walk
// continues with its siblings. The walk stops early if the consumer breaks
// or ctx is cancelled.
func Files(ctx context.Context, root string, filter Filter) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		info, err := os.Stat(root)
		if err != nil {
			yield(root, errors.Errorf("reading root: %w", err))
			return
		}
		if !info.IsDir() {
			yield(root, errors.Errorf("root %s is not a directory", root))
			return
		}
		walkDir(ctx, root, "", filter, yield)
	}
}

// walkDir returns false once the consumer has asked to stop.
func walkDir(ctx context.Context, root, rel string, filter Filter, yield func(string, error) bool) bool {
	dir := filepath.Join(root, filepath.FromSlash(rel))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return yield(dir, errors.Errorf("reading directory: %w", err))
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			yield(dir, errors.Errorf("walking %s: %w", dir, err))
			return false
		}

		childRel := entry.Name()
		if rel != "" {
			childRel = rel + "/" + entry.Name()
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			zerolog.Ctx(ctx).Debug().Str("path", childRel).Msg("skipping symbolic link")
			continue
		}

		if filter.excluded(ctx, childRel) {
			continue
		}

		if entry.IsDir() {
			if !walkDir(ctx, root, childRel, filter, yield) {
				return false
			}
			continue
		}

		if !entry.Type().IsRegular() || !filter.matchesExtension(entry.Name()) {
			continue
		}

		if !yield(filepath.Join(root, filepath.FromSlash(childRel)), nil) {
			return false
		}
	}

	return true
}
