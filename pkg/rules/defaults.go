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

// 🧾 Mis-decoded sequences: UTF-8 text that was read as Windows-1252 and saved
// again. Each must come before any rule that could claim its leading scalar.
// Longer sequences come first where one is a prefix of another.
var mojibakeRules = []Rule{
	Literal("âœ”ï¸\u008f", "[OK]"),           // ✔ + VS16
	Literal("âš\u00a0ï¸\u008f", "[WARNING]"), // ⚠ + VS16
	Literal("ðŸš€", ""),                      // 🚀
	Literal("ðŸ’¡", "[TIP]"),                 // 💡
	Literal("ðŸ“\u009d", "[NOTE]"),           // 📝
	Literal("ðŸ§ª", "[TEST]"),                // 🧪
	Literal("âœ…", "[CORRECT]"),              // ✅
	Literal("â\u009dŒ", "[WRONG]"),           // ❌
	Literal("âœ”", "[OK]"),                   // ✔
	Literal("âœ“", "[OK]"),                   // ✓
	Literal("âœ—", "[X]"),                    // ✗
	Literal("âš\u00a0", "[WARNING]"),         // ⚠
	Literal("â†’", "->"),                     // →
	Literal("â†\u0090", "<-"),                // ←
	Literal("â€”", "--"),                     // —
	Literal("â€“", "-"),                      // –
	Literal("â€˜", "'"),                      // ‘
	Literal("â€™", "'"),                      // ’
	Literal("â€œ", "\""),                     // “
	Literal("â€\u009d", "\""),                // ”
	Literal("â€¦", "..."),                    // …
	Literal("â€¢", "*"),                      // •
	Literal("Â\u00a0", " "),                  // NBSP
	Literal("Ã©", "e"),                       // é
}

// 🏷️ Pictographs become bracketed tags. Variation-selector forms first.
var symbolRules = []Rule{
	Literal("✅", "[CORRECT]"),
	Literal("❌", "[WRONG]"),
	Literal("✔\ufe0f", "[OK]"),
	Literal("✔", "[OK]"),
	Literal("✓", "[OK]"),
	Literal("✗", "[X]"),
	Literal("✘", "[X]"),
	Literal("⚠\ufe0f", "[WARNING]"),
	Literal("⚠", "[WARNING]"),
	Literal("❗", "[!]"),
	Literal("❓", "[?]"),
	Literal("ℹ\ufe0f", "[INFO]"),
	Literal("ℹ", "[INFO]"),
	Literal("💡", "[TIP]"),
	Literal("📝", "[NOTE]"),
	Literal("📌", "[NOTE]"),
	Literal("🧪", "[TEST]"),
	Literal("🐛", "[BUG]"),
	Literal("⭐", "[*]"),
	Literal("🚀", ""),
}

// ✏️ Typographic punctuation and arrows
var punctuationRules = []Rule{
	Literal("➡\ufe0f", "->"),
	Literal("➡", "->"),
	Literal("➜", "->"),
	Literal("→", "->"),
	Literal("←", "<-"),
	Literal("↔", "<->"),
	Literal("⇒", "=>"),
	Literal("⇐", "<="),
	Literal("⇔", "<=>"),
	Literal("↑", "^"),
	Literal("↓", "v"),
	Literal("“", "\""),
	Literal("”", "\""),
	Literal("„", "\""),
	Literal("‘", "'"),
	Literal("’", "'"),
	Literal("‚", "'"),
	Literal("—", "--"),
	Literal("–", "-"),
	Literal("−", "-"),
	Literal("…", "..."),
	Literal("•", "*"),
	Literal("·", "-"),
	Literal("×", "x"),
	Literal("÷", "/"),
	Literal("≤", "<="),
	Literal("≥", ">="),
	Literal("≠", "!="),
	Literal("≈", "~="),
	Literal("±", "+/-"),
	Literal("°", "deg"),
	Literal("©", "(c)"),
	Literal("®", "(R)"),
	Literal("™", "(TM)"),
	Literal("½", "1/2"),
	Literal("¼", "1/4"),
	Literal("¾", "3/4"),
	Literal("¹", "^1"),
	Literal("²", "^2"),
	Literal("³", "^3"),
	Literal("\u00a0", " "), // NBSP
	Literal("\u200b", ""),  // zero width space
	Literal("\ufeff", ""),  // byte order mark
}

// 🧹 Category fallbacks, tried only when no literal matched
var fallbackRules = []Rule{
	Category(CategoryInvalidUTF8, "?"),
	Category(CategoryDecomposable, ""),
	Category(CategoryNonASCII, ""),
}

// DefaultRules returns the built-in rules in priority order.
func DefaultRules() []Rule {
	out := make([]Rule, 0, len(mojibakeRules)+len(symbolRules)+len(punctuationRules)+len(fallbackRules))
	out = append(out, mojibakeRules...)
	out = append(out, symbolRules...)
	out = append(out, punctuationRules...)
	out = append(out, fallbackRules...)
	return out
}

// FallbackRules returns only the category fallbacks. Tables built from
// user-supplied literals append these so the non-ASCII catch-all is present.
func FallbackRules() []Rule {
	out := make([]Rule, len(fallbackRules))
	copy(out, fallbackRules)
	return out
}

var defaultTable = MustNewTable(DefaultRules()...)

// DefaultTable returns the shared built-in table.
func DefaultTable() *Table {
	return defaultTable
}
