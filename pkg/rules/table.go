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

package rules

import (
	"bytes"
	"strconv"

	"gitlab.com/tozd/go/errors"
)

// ErrConfiguration marks an ambiguous or conflicting rule table.
var ErrConfiguration = errors.Base("invalid rule table")

// 📚 Table is an immutable, ordered list of rules
type Table struct {
	rules []Rule

	// candidates[b] holds, in priority order, the rules that can match
	// at a position whose first byte is b.
	candidates [256][]int
}

// 🏭 NewTable validates the rules and builds a table. Rules are evaluated in
// argument order; each rule's Priority is set to its index.
func NewTable(rules ...Rule) (*Table, error) {
	t := &Table{rules: make([]Rule, len(rules))}

	literals := make(map[string]int, len(rules))
	hasFallback := false

	for i, r := range rules {
		r.Priority = i
		t.rules[i] = r

		if !IsCleanString(r.Replacement) {
			return nil, errors.Errorf("%w: %s: replacement must be printable ASCII", ErrConfiguration, r)
		}

		switch r.Kind {
		case KindLiteral:
			if r.Pattern == "" {
				return nil, errors.Errorf("%w: %s: empty literal pattern", ErrConfiguration, r)
			}
			if IsCleanString(r.Pattern) {
				return nil, errors.Errorf("%w: %s: pattern is plain ASCII and would rewrite clean text", ErrConfiguration, r)
			}
			if prev, ok := literals[r.Pattern]; ok {
				return nil, errors.Errorf("%w: %s duplicates %s", ErrConfiguration, r, t.rules[prev])
			}
			literals[r.Pattern] = i
		case KindCategory:
			if !r.Category.known() {
				return nil, errors.Errorf("%w: %s: unknown category %s", ErrConfiguration, r, strconv.Quote(string(r.Category)))
			}
			if r.Category == CategoryNonASCII {
				hasFallback = true
			}
		default:
			return nil, errors.Errorf("%w: %s", ErrConfiguration, r)
		}
	}

	if !hasFallback {
		return nil, errors.Errorf("%w: no %s category rule, output could keep non-ASCII text", ErrConfiguration, CategoryNonASCII)
	}

	t.index()
	return t, nil
}

// MustNewTable is like NewTable but panics on error. Use it for static tables only.
func MustNewTable(rules ...Rule) *Table {
	t, err := NewTable(rules...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) index() {
	for b := 0; b < 256; b++ {
		for i, r := range t.rules {
			switch r.Kind {
			case KindLiteral:
				if r.Pattern[0] == byte(b) {
					t.candidates[b] = append(t.candidates[b], i)
				}
			case KindCategory:
				// category rules never match a clean byte
				if !IsClean(byte(b)) {
					t.candidates[b] = append(t.candidates[b], i)
				}
			}
		}
	}
}

// Rules returns a copy of the rules in priority order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// 🎯 Resolve finds the first rule matching text at pos. It returns the number
// of bytes consumed and the replacement. When ok is false the caller keeps the
// scalar at pos unchanged.
func (t *Table) Resolve(text []byte, pos int) (n int, replacement string, ok bool) {
	_, n, replacement, ok = t.resolve(text, pos)
	return n, replacement, ok
}

func (t *Table) resolve(text []byte, pos int) (idx, n int, replacement string, ok bool) {
	if pos < 0 || pos >= len(text) {
		return -1, 0, "", false
	}
	rest := text[pos:]
	for _, i := range t.candidates[rest[0]] {
		r := t.rules[i]
		switch r.Kind {
		case KindLiteral:
			if bytes.HasPrefix(rest, []byte(r.Pattern)) {
				return i, len(r.Pattern), r.Replacement, true
			}
		case KindCategory:
			if size, repl, hit := classify(r.Category, rest, r.Replacement); hit {
				return i, size, repl, true
			}
		}
	}
	return -1, 0, "", false
}
