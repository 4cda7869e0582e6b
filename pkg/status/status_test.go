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

package status

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter(t *testing.T) {
	r := NewReporter()

	r.Record("a.md", false)
	r.Record("b.md", true)
	r.RecordDiagnostic("b.md", 3, "malformed UTF-8 byte 0xff")

	// 🧪 Snapshot mid-run must not see later records
	partial := r.Summarize()

	r.Record("c.md", true)
	r.RecordFailure("d.md", errors.New("permission denied"))

	final := r.Summarize()

	assert.Equal(t, 2, partial.FilesScanned)
	assert.Equal(t, 1, partial.FilesModified)
	assert.Equal(t, []string{"b.md"}, partial.ModifiedPaths)
	assert.Empty(t, partial.Failures)

	assert.Equal(t, 3, final.FilesScanned)
	assert.Equal(t, 2, final.FilesModified)
	assert.Equal(t, []string{"b.md", "c.md"}, final.ModifiedPaths)
	require.Len(t, final.Failures, 1)
	assert.Equal(t, "d.md", final.Failures[0].Path)
	assert.Equal(t, []Diagnostic{{Path: "b.md", Offset: 3, Message: "malformed UTF-8 byte 0xff"}}, final.Diagnostics)
}

func TestReporter_SnapshotIsolation(t *testing.T) {
	r := NewReporter()
	r.Record("a.md", true)

	snap := r.Summarize()
	snap.ModifiedPaths[0] = "mutated"

	assert.Equal(t, []string{"a.md"}, r.Summarize().ModifiedPaths)
}

func TestReporter_Concurrent(t *testing.T) {
	r := NewReporter()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Record("f.md", i%2 == 0)
		}(i)
	}
	wg.Wait()

	summary := r.Summarize()
	assert.Equal(t, 50, summary.FilesScanned)
	assert.Equal(t, 25, summary.FilesModified)
	assert.Len(t, summary.ModifiedPaths, 25)
}

func TestFileStatus_String(t *testing.T) {
	assert.Equal(t, "unchanged", StatusUnchanged.String())
	assert.Equal(t, "modified", StatusModified.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}

func TestDefaultFileFormatter(t *testing.T) {
	f := NewDefaultFileFormatter()

	assert.Equal(t, "Updated: docs/a.md", f.FormatUpdated("docs/a.md", false))
	assert.Equal(t, "Would update: docs/a.md", f.FormatUpdated("docs/a.md", true))
	assert.Equal(t, "Total files updated: 3", f.FormatTotal(3, false))
	assert.Equal(t, "Total files that would be updated: 0", f.FormatTotal(0, true))
	assert.Equal(t, "Failed: x.md: boom", f.FormatFailure(Failure{Path: "x.md", Err: errors.New("boom")}))
	assert.Equal(t, "x.md:7: malformed", f.FormatDiagnostic(Diagnostic{Path: "x.md", Offset: 7, Message: "malformed"}))
}

func TestOSFileManager(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	m := NewOSFileManager()

	require.NoError(t, m.WriteFileAtomic(ctx, path, []byte("new")))

	content, err := m.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "mode should be preserved")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")

	_, err = m.ReadFile(ctx, filepath.Join(dir, "missing.md"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	err = m.WriteFileAtomic(ctx, filepath.Join(dir, "no-such-dir", "x.md"), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating temp file")
}
