package rules

import (
	"gitlab.com/tozd/go/errors"
)

// 🔬 SelfCheck verifies the ordering and idempotence invariants that NewTable
// does not enforce on its own:
//   - every literal must be reachable, i.e. resolving its own pattern selects it
//     (an earlier prefix literal or category rule would shadow it)
//   - no replacement may be matched by any rule, so a second pass is a no-op
func (t *Table) SelfCheck() error {
	for i, r := range t.rules {
		if r.Kind != KindLiteral {
			continue
		}
		idx, _, _, ok := t.resolve([]byte(r.Pattern), 0)
		if ok && idx != i {
			return errors.Errorf("%w: %s is shadowed by %s", ErrConfiguration, r, t.rules[idx])
		}
	}

	for _, r := range t.rules {
		repl := []byte(r.Replacement)
		for pos := 0; pos < len(repl); pos++ {
			if idx, _, _, ok := t.resolve(repl, pos); ok {
				return errors.Errorf("%w: replacement of %s is rewritten again by %s at offset %d",
					ErrConfiguration, r, t.rules[idx], pos)
			}
		}
	}

	return nil
}
