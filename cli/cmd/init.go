package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/konf/lang"
	"github.com/ardnew/konf/log"
	"github.com/ardnew/konf/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// ConstantName returns the konf constant that configures the flag with the
// given name: the flag name with hyphens removed.
func ConstantName(flag string) string {
	return strings.ReplaceAll(flag, "-", "")
}

// ignoredFlags are never written to the configuration file.
var ignoredFlags = []string{"help", "version", "source", profile.Tag}

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"F"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	ast := i.buildAST(ktx)

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = ast.Format(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.Int("constant_count", len(ast.Declarations)),
	)

	return nil
}

// buildAST constructs the config AST from current flag values.
func (i *Init) buildAST(ktx *kong.Context) *lang.AST {
	ast := lang.NewAST()

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoredFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		node := flagNode(flag, ktx.FlagValue(flag))
		if node == nil {
			continue
		}

		if _, err := ast.Define(ConstantName(flag.Name), node); err != nil {
			log.Warn("flag cannot be configured",
				slog.String("flag", flag.Name),
				slog.Any("error", err))
		}
	}

	return ast
}

// flagNode returns the konf value for a flag, or nil if the flag's type has
// no konf representation.
//
// Booleans are 0o1 or 0o0, enumerated flags are the index of their value in
// the enumeration, and integers are written as is.
func flagNode(flag *kong.Flag, val any) *lang.Node {
	if val == nil {
		return nil
	}

	if flag.Enum != "" {
		idx := slices.Index(flag.EnumSlice(), fmt.Sprint(val))
		if idx < 0 {
			return nil
		}

		return lang.Number(uint64(idx))
	}

	switch v := val.(type) {
	case bool:
		if v {
			return lang.Number(1)
		}

		return lang.Number(0)

	case int:
		return lang.BigNumber(big.NewInt(int64(v)))

	case int64:
		return lang.BigNumber(big.NewInt(v))

	case uint:
		return lang.Number(uint64(v))

	case uint64:
		return lang.Number(v)

	default:
		return nil
	}
}
