/*
Package config manages configuration parsing and validation for sanitize.

	                  +-------------+
	                  |   Config    |
	                  | (Settings)  |
	                  +------+------+
	                         |
	      +-----------+------+----+-----------+
	      |           |           |           |
	+-----+-----+ +---+-------+ +-+---------+ +-----+-----+
	|   YAML    | |   JSON    | |   TOML    | |    HCL    |
	|  Parser   | |  Parser   | |  Parser   | |  Parser   |
	+-----------+ +-----------+ +-----------+ +-----------+

🎯 Purpose:
- Loads optional settings: extensions, exclude globs, worker count
- Declares extra rules that run before the built-in table
- Builds the rules.Table used by a run

🔄 Flow:
1. Reads configuration from file
2. Picks a parser by file extension
3. Validates values and fills in defaults
4. Turns rule declarations into a rules.Table

Example HCL:

	extensions = [default_extension, ".txt"]
	exclude    = ["vendor/**"]

	rule {
	  literal = "🎉"
	  replace = "[PARTY]"
	}

	rule {
	  category = category.non_ascii
	  replace  = "?"
	}

📝 Design Philosophy:
A configured literal that repeats a built-in pattern is a conflict, not an
override. Set replace_defaults to take full control of the table.
*/
package config
