package main

import (
	"cookbook/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// cookbook is a small recipe catalog kept in a single JSON file:
//   - `add NAME -t TAG` appends a meal; names are unique and case sensitive
//   - `list` prints every meal as "<index>: <name>" in insertion order
//   - `search PATTERN` prints meals whose name contains PATTERN literally
//   - `info NAME` prints one meal, matched exactly, as YAML
//   - `import FILE` merges meals from a JSON/YAML file, compressed or archived
//
// Persistence model:
//   - The whole file is read on startup and rewritten in full on exit
//     (through a temp file and rename), never appended to
//   - A missing file is created holding an empty catalog
//   - One process owns the file at a time; there is no locking
//
// Settings come from flags (--data, --verbose), COOKBOOK_* environment variables
// and an optional ~/.config/cookbook/config.yaml, in that order of precedence.
func main() {
	cmd.Execute()
}
