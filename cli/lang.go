package cli

import (
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/konf/lang"
	"github.com/ardnew/konf/log"
)

// langConfig holds the flags passed through to the lang package.
type langConfig struct {
	MaxDepth         int  `default:"${langMaxDepth}" help:"Maximum nesting depth of values."`
	MaxBits          int  `default:"${langMaxBits}"  help:"Maximum bit length of integers (0 for unlimited)."`
	ReservedKeywords bool `default:"false"           help:"Reject define, max and pow as constant names."`
	NoRedefine       bool `default:"false"           help:"Reject declaring a constant twice."`
}

func (langConfig) vars() kong.Vars {
	return kong.Vars{
		"langMaxDepth": strconv.Itoa(lang.DefaultMaxDepth),
		"langMaxBits":  strconv.Itoa(lang.DefaultMaxBits),
	}
}

func (langConfig) group() kong.Group {
	return kong.Group{Key: "lang", Title: "Language options"}
}

func (f langConfig) options() []lang.Option {
	return []lang.Option{
		lang.WithMaxDepth(f.MaxDepth),
		lang.WithMaxBits(f.MaxBits),
		lang.WithReservedKeywords(f.ReservedKeywords),
		lang.WithForbidRedefinition(f.NoRedefine),
		lang.WithLogger(log.Default().WithGroup("lang")),
	}
}
