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
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// 🏷️ Kind selects how a rule matches input
type Kind int

const (
	KindLiteral  Kind = iota // exact byte sequence
	KindCategory             // classification of a single scalar
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindCategory:
		return "category"
	default:
		return "unknown"
	}
}

// 🗂️ CategoryTag names a scalar classification predicate
type CategoryTag string

const (
	// CategoryInvalidUTF8 matches one byte that does not start a valid UTF-8 sequence.
	CategoryInvalidUTF8 CategoryTag = "invalid-utf8"
	// CategoryDecomposable matches a scalar whose compatibility decomposition
	// contains clean ASCII. The replacement is that ASCII part.
	CategoryDecomposable CategoryTag = "decomposable"
	// CategoryNonASCII matches anything outside clean ASCII, malformed bytes included.
	CategoryNonASCII CategoryTag = "non-ascii"
)

// Categories lists every known tag.
var Categories = []CategoryTag{CategoryInvalidUTF8, CategoryDecomposable, CategoryNonASCII}

func (c CategoryTag) known() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// 📏 Rule is a single (match, replacement) entry of a Table
type Rule struct {
	Kind        Kind        // Literal or Category
	Pattern     string      // Literal pattern, unused for categories
	Category    CategoryTag // Category tag, unused for literals
	Replacement string      // ASCII text written in place of the match
	Priority    int         // Position in the table, assigned by NewTable
}

// Literal creates a rule matching an exact substring.
func Literal(pattern, replacement string) Rule {
	return Rule{Kind: KindLiteral, Pattern: pattern, Replacement: replacement}
}

// Category creates a rule matching any scalar in the given category.
func Category(tag CategoryTag, replacement string) Rule {
	return Rule{Kind: KindCategory, Category: tag, Replacement: replacement}
}

// String renders the rule with every non-ASCII byte escaped, so it is safe for diagnostics.
func (r Rule) String() string {
	switch r.Kind {
	case KindLiteral:
		return fmt.Sprintf("rule %d (literal %s -> %s)", r.Priority, strconv.QuoteToASCII(r.Pattern), strconv.QuoteToASCII(r.Replacement))
	case KindCategory:
		if r.Category == CategoryDecomposable {
			return fmt.Sprintf("rule %d (category %s)", r.Priority, r.Category)
		}
		return fmt.Sprintf("rule %d (category %s -> %s)", r.Priority, r.Category, strconv.QuoteToASCII(r.Replacement))
	default:
		return fmt.Sprintf("rule %d (unknown kind %d)", r.Priority, int(r.Kind))
	}
}

// IsClean reports whether b may appear in sanitized output: printable ASCII,
// newline, carriage return or tab.
func IsClean(b byte) bool {
	return (b >= 0x20 && b <= 0x7e) || b == '\n' || b == '\r' || b == '\t'
}

// IsCleanString reports whether every byte of s is clean.
func IsCleanString(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsClean(s[i]) {
			return false
		}
	}
	return true
}

// 🔍 classify tests the scalar at the start of text against a category.
// size is the number of bytes the scalar occupies; a malformed byte has size 1.
func classify(tag CategoryTag, text []byte, fixed string) (size int, replacement string, ok bool) {
	r, size := utf8.DecodeRune(text)
	if size == 0 {
		return 0, "", false
	}
	invalid := r == utf8.RuneError && size == 1

	switch tag {
	case CategoryInvalidUTF8:
		if invalid {
			return 1, fixed, true
		}
	case CategoryDecomposable:
		if invalid || r < utf8.RuneSelf {
			return 0, "", false
		}
		if ascii := decomposeASCII(r); ascii != "" {
			return size, ascii, true
		}
	case CategoryNonASCII:
		if invalid || r >= utf8.RuneSelf || !IsClean(byte(r)) {
			return size, fixed, true
		}
	}
	return 0, "", false
}

// fractionSlash is U+2044, which NFKD places inside vulgar fractions.
const fractionSlash = '\u2044'

// decomposeASCII keeps the clean, non-control ASCII part of the NFKD form of r.
// A fraction slash becomes '/', so ⅓ reads as 1/3.
func decomposeASCII(r rune) string {
	var b strings.Builder
	for _, d := range norm.NFKD.String(string(r)) {
		if d == fractionSlash {
			b.WriteByte('/')
			continue
		}
		if d < utf8.RuneSelf && d >= 0x20 && d <= 0x7e {
			b.WriteRune(d)
		}
	}
	return b.String()
}
