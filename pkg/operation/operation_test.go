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
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sanitize/pkg/log"
	"github.com/walteh/sanitize/pkg/rules"
	"github.com/walteh/sanitize/pkg/status"
	"github.com/walteh/sanitize/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockFileManager is a mock implementation of the status.FileManager interface
type MockFileManager struct {
	mock.Mock
}

func (m *MockFileManager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	result := m.Called(ctx, path)
	content, _ := result.Get(0).([]byte)
	return content, result.Error(1)
}

func (m *MockFileManager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	result := m.Called(ctx, path, content)
	return result.Error(0)
}

type harness struct {
	out     *bytes.Buffer
	console *bytes.Buffer
	logger  *log.Logger
	ctx     context.Context
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	h := &harness{out: &bytes.Buffer{}, console: &bytes.Buffer{}}
	h.logger = log.New(h.out, h.console, zerolog.WarnLevel)
	h.ctx = log.NewContext(context.Background(), h.logger)
	return h
}

func (h *harness) outLines() []string {
	return splitLines(h.out.String())
}

func (h *harness) consoleLines() []string {
	return splitLines(h.console.String())
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

var sampleTree = map[string]string{
	"a.md":          "Done ✅\n",
	"b.md":          "already clean\n",
	"notes.txt":     "skip → me\n",
	"sub/c.md":      "Next → step\n",
	"sub/deep/d.md": "plain\r\ntext\n",
}

func TestRun(t *testing.T) {
	for _, jobs := range []int{1, 4} {
		t.Run(fmt.Sprintf("jobs_%d", jobs), func(t *testing.T) {
			h := newHarness(t)
			root := writeTree(t, sampleTree)

			summary, err := Run(h.ctx, Options{
				Root:   root,
				Filter: walk.Filter{Extensions: []string{".md"}},
				Jobs:   jobs,
			})
			require.NoError(t, err)

			assert.Equal(t, []string{
				"Updated: " + filepath.Join(root, "a.md"),
				"Updated: " + filepath.Join(root, "sub", "c.md"),
				"Total files updated: 2",
			}, h.outLines())
			assert.Empty(t, h.consoleLines())

			assert.Equal(t, 4, summary.FilesScanned)
			assert.Equal(t, 2, summary.FilesModified)
			assert.Empty(t, summary.Failures)

			assert.Equal(t, "Done [CORRECT]\n", readFile(t, filepath.Join(root, "a.md")))
			assert.Equal(t, "Next -> step\n", readFile(t, filepath.Join(root, "sub", "c.md")))
			assert.Equal(t, "already clean\n", readFile(t, filepath.Join(root, "b.md")))
			assert.Equal(t, "plain\r\ntext\n", readFile(t, filepath.Join(root, "sub", "deep", "d.md")))
			assert.Equal(t, "skip → me\n", readFile(t, filepath.Join(root, "notes.txt")), "filtered files are untouched")
		})
	}
}

func TestRun_SecondRunIsNoop(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, sampleTree)
	opts := Options{Root: root, Filter: walk.Filter{Extensions: []string{".md"}}}

	_, err := Run(h.ctx, opts)
	require.NoError(t, err)

	h.out.Reset()
	summary, err := Run(h.ctx, opts)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.FilesModified)
	assert.Equal(t, []string{"Total files updated: 0"}, h.outLines())
}

func TestRun_DryRun(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, sampleTree)

	summary, err := Run(h.ctx, Options{
		Root:   root,
		Filter: walk.Filter{Extensions: []string{".md"}},
		DryRun: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesModified)
	assert.Equal(t, []string{
		"Would update: " + filepath.Join(root, "a.md"),
		"Would update: " + filepath.Join(root, "sub", "c.md"),
		"Total files that would be updated: 2",
	}, h.outLines())
	assert.Equal(t, []string{"info: dry run: no files will be written"}, h.consoleLines())
	assert.Equal(t, "Done ✅\n", readFile(t, filepath.Join(root, "a.md")))
}

func TestRun_MalformedBytes(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, map[string]string{"bad.md": "ok\xffok\n"})

	summary, err := Run(h.ctx, Options{
		Root:   root,
		Filter: walk.Filter{Extensions: []string{".md"}},
	})
	require.NoError(t, err)

	path := filepath.Join(root, "bad.md")
	assert.Equal(t, "ok?ok\n", readFile(t, path))
	require.Len(t, summary.Diagnostics, 1)
	assert.Equal(t, 2, summary.Diagnostics[0].Offset)
	assert.Equal(t, []string{
		fmt.Sprintf("warning: %s:2: malformed UTF-8 byte 0xff replaced by fallback rule", path),
	}, h.consoleLines())
}

func TestRun_WriteFailureContinues(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, map[string]string{
		"a.md": "one ✅\n",
		"b.md": "two ✅\n",
	})
	a := filepath.Join(root, "a.md")
	b := filepath.Join(root, "b.md")

	files := &MockFileManager{}
	files.On("ReadFile", mock.Anything, a).Return([]byte("one ✅\n"), nil)
	files.On("ReadFile", mock.Anything, b).Return([]byte("two ✅\n"), nil)
	files.On("WriteFileAtomic", mock.Anything, a, []byte("one [CORRECT]\n")).Return(errors.New("permission denied"))
	files.On("WriteFileAtomic", mock.Anything, b, []byte("two [CORRECT]\n")).Return(nil)

	summary, err := Run(h.ctx, Options{
		Root:   root,
		Filter: walk.Filter{Extensions: []string{".md"}},
		Files:  files,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO), "error should match ErrIO")
	files.AssertExpectations(t)

	assert.Equal(t, []string{
		"Updated: " + b,
		"Total files updated: 1",
	}, h.outLines())
	assert.Equal(t, []string{
		fmt.Sprintf("error: Failed: %s: permission denied", a),
	}, h.consoleLines())

	require.Len(t, summary.Failures, 1)
	assert.Equal(t, a, summary.Failures[0].Path)
	assert.Equal(t, []string{b}, summary.ModifiedPaths)
}

func TestRun_FailFast(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, map[string]string{
		"a.md": "one\n",
		"b.md": "two ✅\n",
	})
	a := filepath.Join(root, "a.md")
	b := filepath.Join(root, "b.md")

	files := &MockFileManager{}
	files.On("ReadFile", mock.Anything, a).Return(nil, errors.New("input/output error"))

	summary, err := Run(h.ctx, Options{
		Root:     root,
		Filter:   walk.Filter{Extensions: []string{".md"}},
		Files:    files,
		FailFast: true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
	assert.Contains(t, err.Error(), "aborting")

	files.AssertExpectations(t)
	files.AssertNotCalled(t, "ReadFile", mock.Anything, b)
	assert.Equal(t, 0, summary.FilesScanned)
	assert.Equal(t, []string{"Total files updated: 0"}, h.outLines())
}

func TestRun_MissingRoot(t *testing.T) {
	h := newHarness(t)

	summary, err := Run(h.ctx, Options{
		Root:   filepath.Join(t.TempDir(), "missing"),
		Filter: walk.Filter{Extensions: []string{".md"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
	require.Len(t, summary.Failures, 1)
	assert.Contains(t, summary.Failures[0].Err.Error(), "reading root")
}

func TestRun_SelfCheckRunsBeforeIO(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, sampleTree)

	table, err := rules.NewTable(
		rules.Literal("✅", "[OK]"),
		rules.Literal("✅ done", "[DONE]"),
		rules.Category(rules.CategoryNonASCII, ""),
	)
	require.NoError(t, err)

	files := &MockFileManager{}

	_, err = Run(h.ctx, Options{
		Root:      root,
		Filter:    walk.Filter{Extensions: []string{".md"}},
		Table:     table,
		Files:     files,
		SelfCheck: true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, rules.ErrConfiguration))
	assert.False(t, errors.Is(err, ErrIO))
	files.AssertNotCalled(t, "ReadFile", mock.Anything, mock.Anything)
	assert.Empty(t, h.outLines())
}

func TestRun_SelfCheckPasses(t *testing.T) {
	for _, jobs := range []int{1, 3} {
		t.Run(fmt.Sprintf("jobs_%d", jobs), func(t *testing.T) {
			h := newHarness(t)
			root := writeTree(t, sampleTree)

			summary, err := Run(h.ctx, Options{
				Root:      root,
				Filter:    walk.Filter{Extensions: []string{".md"}},
				SelfCheck: true,
				Jobs:      jobs,
			})
			require.NoError(t, err)
			assert.Equal(t, 2, summary.FilesModified)

			lines := h.consoleLines()
			require.Len(t, lines, 1)
			assert.Equal(t, fmt.Sprintf("info: rule table passed self check (%d rules)", rules.DefaultTable().Len()), lines[0])
		})
	}
}

func TestRun_NoMatchingFiles(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, map[string]string{"notes.txt": "→\n"})

	summary, err := Run(h.ctx, Options{Root: root})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.FilesScanned)
	assert.Equal(t, []string{"Total files updated: 0"}, h.outLines())
	assert.Equal(t, []string{
		fmt.Sprintf("warning: no files matching .md found under %s", root),
	}, h.consoleLines())
}

func TestRun_LogsFileStatus(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	out, console := &bytes.Buffer{}, &bytes.Buffer{}
	ctx := log.NewContext(context.Background(), log.New(out, console, zerolog.DebugLevel))
	root := writeTree(t, sampleTree)

	_, err := Run(ctx, Options{Root: root, Filter: walk.Filter{Extensions: []string{".md"}}})
	require.NoError(t, err)

	logged := console.String()
	assert.Contains(t, logged, "file="+filepath.Join(root, "a.md"))
	assert.Contains(t, logged, "status="+status.StatusModified.String())
	assert.Contains(t, logged, "status="+status.StatusUnchanged.String())
	assert.NotContains(t, logged, "status="+status.StatusFailed.String())
}

// 🔔 noticeWriter signals once a given notice has been written
type noticeWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	want string
	seen chan struct{}
	once sync.Once
}

func (w *noticeWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.buf.Write(p)
	if strings.Contains(w.buf.String(), w.want) {
		w.once.Do(func() { close(w.seen) })
	}
	return n, err
}

func (w *noticeWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestRun_ParallelRecordsBeforeLaterFilesFinish(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	names := []string{"a.md", "b.md", "c.md", "d.md", "e.md"}
	tree := map[string]string{}
	for _, name := range names {
		tree[name] = name + " ✅\n"
	}
	root := writeTree(t, tree)
	first := filepath.Join(root, "a.md")
	last := filepath.Join(root, "e.md")

	out := &noticeWriter{want: "Updated: " + first, seen: make(chan struct{})}
	ctx := log.NewContext(context.Background(), log.New(out, &bytes.Buffer{}, zerolog.WarnLevel))

	var reportedEarly atomic.Bool
	files := &MockFileManager{}
	for _, name := range names {
		path := filepath.Join(root, name)
		call := files.On("ReadFile", mock.Anything, path).Return([]byte(tree[name]), nil)
		if path == last {
			call.Run(func(mock.Arguments) {
				select {
				case <-out.seen:
					reportedEarly.Store(true)
				case <-time.After(5 * time.Second):
				}
			})
		}
	}
	files.On("WriteFileAtomic", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	summary, err := Run(ctx, Options{
		Root:   root,
		Filter: walk.Filter{Extensions: []string{".md"}},
		Files:  files,
		Jobs:   2,
	})
	require.NoError(t, err)

	assert.True(t, reportedEarly.Load(), "a.md should be reported while e.md is still being processed")
	assert.Equal(t, 5, summary.FilesModified)

	expected := []string{}
	for _, name := range names {
		expected = append(expected, "Updated: "+filepath.Join(root, name))
	}
	expected = append(expected, "Total files updated: 5")
	assert.Equal(t, expected, splitLines(out.String()))
}

func TestRun_Cancelled(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, sampleTree)

	ctx, cancel := context.WithCancel(h.ctx)
	cancel()

	_, err := Run(ctx, Options{
		Root:   root,
		Filter: walk.Filter{Extensions: []string{".md"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "Done ✅\n", readFile(t, filepath.Join(root, "a.md")))
}

func TestNewSanitizeOperation(t *testing.T) {
	_, err := NewSanitizeOperation(Options{})
	assert.ErrorContains(t, err, "root is required")

	op, err := NewSanitizeOperation(Options{Root: ".", Jobs: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, op.opts.Jobs)
	assert.IsType(t, &status.OSFileManager{}, op.opts.Files)
	assert.Same(t, rules.DefaultTable(), op.engine.Table())
}

func TestFileError(t *testing.T) {
	cause := errors.New("disk full")
	err := errors.Errorf("wrapped: %w", &FileError{Path: "x.md", Err: cause})

	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "wrapped: x.md: disk full", err.Error())
}
