package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/alecthomas/kong"

	"github.com/ardnew/konf/cli/cmd"
	"github.com/ardnew/konf/lang"
	"github.com/ardnew/konf/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written in konf.
//
// Each constant configures the flag whose name, with hyphens removed,
// equals the constant's name. Since konf has only integers:
//   - numeric flags take the integer value
//   - boolean flags are true for any nonzero value
//   - enumerated flags take the enumeration member at the given index
//
// String flags cannot be configured. For example, the file
//
//	(define loglevel 0o1);    # debug
//	(define logpretty 0o0);
//	(define maxdepth 0o144);
//
// applies --log-level=debug --no-log-pretty --max-depth=100. Command-line
// flags override configuration values. A file that fails to evaluate is
// reported and otherwise ignored.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		table, err := lang.EvaluateReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file", slog.Any("error", err))

			return config{}, nil
		}

		return config{table: table}, nil
	}
}

// config implements [kong.Resolver] for konf configuration files.
type config struct {
	table *lang.Table
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if r.table == nil {
		return nil, nil
	}

	name := cmd.ConstantName(flag.Name)

	v, ok := r.table.Lookup(name)
	if !ok {
		return nil, nil
	}

	value, err := flagValue(flag, v)
	if err != nil {
		return nil, fmt.Errorf("configuration constant %s: %w", name, err)
	}

	return value, nil
}

// flagValue converts v to a value kong can decode into flag.
func flagValue(flag *kong.Flag, v lang.Value) (any, error) {
	if !v.IsInteger() {
		return nil, fmt.Errorf("want integer, got %s", v.Octal())
	}

	if flag.Enum != "" {
		enum := flag.EnumSlice()

		n, ok := v.Int64()
		if !ok || n < 0 || n >= int64(len(enum)) {
			return nil, fmt.Errorf("index %s outside enumeration [%s]", v, flag.Enum)
		}

		return enum[n], nil
	}

	if flag.IsBool() {
		return v.String() != "0", nil
	}

	switch flag.Target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		// kong decodes numbers from their decimal text.
		return v.String(), nil
	}

	return nil, fmt.Errorf("flag --%s is not numeric", flag.Name)
}
