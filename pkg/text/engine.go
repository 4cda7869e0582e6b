package text

import (
	"bytes"
	"context"
	"io"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/sanitize/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// Diagnostic records a malformed UTF-8 byte found while scanning
type Diagnostic struct {
	Offset int  // Byte offset in the original content
	Byte   byte // The offending byte
}

// Result contains the outcome of one transform
type Result struct {
	// WasModified indicates if the output differs from the input
	WasModified bool

	// ReplacementCount is the number of rule matches applied
	ReplacementCount int

	// OriginalContent is the content before sanitization
	OriginalContent []byte

	// ModifiedContent is the content after sanitization
	ModifiedContent []byte

	// Diagnostics lists malformed bytes, in offset order
	Diagnostics []Diagnostic
}

// Engine rewrites documents with a rule table
type Engine struct {
	table *rules.Table
}

// NewEngine creates an engine for the given table. A nil table selects rules.DefaultTable.
func NewEngine(table *rules.Table) *Engine {
	if table == nil {
		table = rules.DefaultTable()
	}
	return &Engine{table: table}
}

// Table returns the engine's rule table.
func (e *Engine) Table() *rules.Table {
	return e.table
}

// Transform scans content once, left to right, replacing every span a rule
// matches and copying everything else verbatim.
func (e *Engine) Transform(content []byte) *Result {
	result := &Result{OriginalContent: content}

	var out bytes.Buffer
	out.Grow(len(content))

	for pos := 0; pos < len(content); {
		if r, size := utf8.DecodeRune(content[pos:]); r == utf8.RuneError && size == 1 {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Offset: pos, Byte: content[pos]})
		}

		if n, replacement, ok := e.table.Resolve(content, pos); ok {
			out.WriteString(replacement)
			result.ReplacementCount++
			pos += n
			continue
		}

		_, size := utf8.DecodeRune(content[pos:])
		out.Write(content[pos : pos+size])
		pos += size
	}

	result.ModifiedContent = out.Bytes()
	result.WasModified = !bytes.Equal(result.OriginalContent, result.ModifiedContent)
	return result
}

// ReplaceText reads all of content and transforms it
func (e *Engine) ReplaceText(ctx context.Context, content io.Reader) (*Result, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := e.Transform(data)

	zerolog.Ctx(ctx).Trace().
		Int("bytes", len(data)).
		Int("replacements", result.ReplacementCount).
		Int("diagnostics", len(result.Diagnostics)).
		Bool("modified", result.WasModified).
		Msg("transformed content")

	return result, nil
}

// Verify checks that transforming content twice gives the same output as
// transforming it once.
func (e *Engine) Verify(content []byte) error {
	once := e.Transform(content)
	twice := e.Transform(once.ModifiedContent)
	if twice.WasModified {
		return errors.Errorf("transform is not idempotent: second pass made %d replacements", twice.ReplacementCount)
	}
	for i, b := range once.ModifiedContent {
		if !rules.IsClean(b) {
			return errors.Errorf("output byte 0x%02x at offset %d is not clean ASCII", b, i)
		}
	}
	return nil
}
