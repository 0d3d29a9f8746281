// Package profile provides optional runtime profiling for konf.
//
// It wraps [github.com/pkg/profile] behind the "pprof" build tag. Without
// the tag every operation is a no-op and the dependency is not linked.
//
//	p := profile.New(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/konf"),
//		profile.WithQuiet(true))
//	defer p.Start().Stop()
//
// Profiles are written to Path with names matching the mode (cpu.pprof,
// mem.pprof, and so on) and can be inspected with "go tool pprof".
// Builds with the tag also register the [net/http/pprof] handlers.
package profile
