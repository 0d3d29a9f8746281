// Package cmd implements the konf subcommands: eval, check, fmt, query,
// init and repl.
//
// Commands receive their environment through the context: the parsed
// [kong.Context] ([WithContext]), the --source files ([WithSourceFiles]) and
// the language options ([WithOptions]). Output goes to the kong context's
// Stdout, diagnostics to its Stderr.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the konf configuration file.
	ConfigIdentifier = "config"
)
