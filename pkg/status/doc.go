/*
Package status tracks what a sanitize run did to each document.

	        +-------------+
	        |  Operation  |
	        +------+------+
	               |
	   +-----------+-----------+
	   |                       |
	+--+----------+     +------+-----+
	| FileManager |     |  Reporter  |
	|   (I/O)     |     | (Summary)  |
	+-------------+     +------+-----+
	                           |
	                    +------+------+
	                    |  Formatter  |
	                    +-------------+

🎯 Purpose:
- Reads documents and writes changed ones back atomically
- Counts scanned and modified files
- Keeps per-file failures and encoding diagnostics

🔄 Flow:
1. The operation reads a document through the FileManager
2. The transformed content is written back only when it differs
3. The Reporter records the outcome in walk order
4. The Formatter renders "Updated: <path>" lines and the final total

📝 Design Philosophy:
The Reporter does no I/O. Printing is left to the caller, so a snapshot from
Summarize can be inspected in tests or rendered any way the CLI likes.
*/
package status
