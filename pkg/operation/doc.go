/*
Package operation runs a sanitize pass over a directory tree.

	+-------------+     +-------------+     +-------------+
	|    walk     | --> |    text     | --> |   status    |
	|   (Files)   |     |  (Engine)   |     | (Reporter)  |
	+-------------+     +-------------+     +-------------+

🎯 Purpose:
- Pulls document paths from the walker
- Rewrites each document with the rule table
- Writes changed documents back atomically
- Records every outcome and prints the summary

🔄 Flow:
1. Optionally self-checks the rule table
2. For each path: read, transform, write if changed, record
3. Prints "Updated: <path>" per changed file and the total

⚡ Concurrency:
With Jobs > 1 documents are processed by a bounded errgroup. Outcomes are
still recorded and printed in walk order.

⚠️ Failures:
A file that cannot be read or written is reported and the run moves on.
Execute then returns an error matching ErrIO. With FailFast the run stops at
the first failure. Writes already made are kept.

🔍 Example:

	summary, err := operation.Run(ctx, operation.Options{
		Root:   "docs",
		Filter: walk.Filter{Extensions: []string{".md"}},
		Logger: log.New(os.Stdout, os.Stderr, zerolog.WarnLevel),
	})
*/
package operation
