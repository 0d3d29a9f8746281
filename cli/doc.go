// Package cli contains the command line interface for konf.
//
// # Usage
//
//	konf [flags] [text]              # eval (default command)
//	konf check [text]
//	konf query <expr> [text]
//	konf fmt [native|ast|tokens] [text]
//	konf repl
//	konf init [--force]
//
// Program text comes from the positional argument, otherwise from the
// --source files ("-" names stdin), otherwise from stdin.
//
// # Configuration
//
// Flags may be set in a configuration file written in konf itself, in
// the user configuration directory (for example ~/.config/konf/config):
//
//	(define loglevel 0o1);
//	(define maxbits 0o200);
//
// See [resolve] for how constants map to flags. A config.json file beside
// it is read as well. "konf init" writes the current flag values.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: log output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, none, ...)
//   - --log-caller: include caller information
//   - --[no-]log-pretty: colorized output on terminals
//
// # Language Options
//
//   - --max-depth: nesting limit of values
//   - --max-bits: bit length limit of integers (0 for unlimited)
//   - --reserved-keywords: reject define, max and pow as names
//   - --no-redefine: reject declaring a constant twice
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o konf .
//
//   - --pprof-mode: profile to collect (cpu, heap, allocs, ...)
//   - --pprof-dir: output directory (default ~/.cache/konf/pprof)
package cli
