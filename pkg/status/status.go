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
	"sync"
)

// 📊 FileStatus represents the outcome for one document
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // Content already clean
	StatusModified             // Content was rewritten
	StatusFailed               // Reading or writing failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ⚠️ Failure is a per-file I/O error
type Failure struct {
	Path string
	Err  error
}

// 🔬 Diagnostic is a non-fatal note about a file's content
type Diagnostic struct {
	Path    string
	Offset  int
	Message string
}

// 📋 RunSummary is the accounting for one run
type RunSummary struct {
	FilesScanned  int
	FilesModified int
	ModifiedPaths []string
	Failures      []Failure
	Diagnostics   []Diagnostic
}

// 📈 Reporter accumulates a RunSummary. It is safe for concurrent use.
type Reporter struct {
	mu      sync.Mutex
	summary RunSummary
}

// 🏭 NewReporter creates an empty reporter
func NewReporter() *Reporter {
	return &Reporter{}
}

// Record counts a scanned file and, if changed, adds it to the modified list.
func (r *Reporter) Record(path string, changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary.FilesScanned++
	if changed {
		r.summary.FilesModified++
		r.summary.ModifiedPaths = append(r.summary.ModifiedPaths, path)
	}
}

// RecordFailure notes a file that could not be read or written.
func (r *Reporter) RecordFailure(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary.Failures = append(r.summary.Failures, Failure{Path: path, Err: err})
}

// RecordDiagnostic notes a content problem that was handled by a fallback rule.
func (r *Reporter) RecordDiagnostic(path string, offset int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary.Diagnostics = append(r.summary.Diagnostics, Diagnostic{Path: path, Offset: offset, Message: message})
}

// Summarize returns a snapshot. Calling it mid-run yields a partial but
// consistent view; later records do not affect a returned snapshot.
func (r *Reporter) Summarize() RunSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.summary
	out.ModifiedPaths = append([]string(nil), r.summary.ModifiedPaths...)
	out.Failures = append([]Failure(nil), r.summary.Failures...)
	out.Diagnostics = append([]Diagnostic(nil), r.summary.Diagnostics...)
	return out
}
