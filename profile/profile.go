package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Stopper stops a running profiler.
type Stopper interface{ Stop() }

// Profiler configures a profiling session.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option configures a [Profiler].
type Option func(*Profiler)

// New returns a Profiler configured by opts.
func New(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}

	return p
}

// WithMode sets the profiling mode. See [Modes].
func WithMode(mode string) Option { return func(p *Profiler) { p.Mode = mode } }

// WithPath sets the directory profiles are written to.
func WithPath(path string) Option { return func(p *Profiler) { p.Path = path } }

// WithQuiet suppresses the profiler's own log output.
func WithQuiet(quiet bool) Option { return func(p *Profiler) { p.Quiet = quiet } }

// Start starts profiling and returns a handle to stop it.
//
// Start returns a no-op when built without the pprof tag, when Mode is
// empty, or when Mode is not one of [Modes]. Both Start and Stop are always
// safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
