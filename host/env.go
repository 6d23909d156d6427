package host

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-libc/console"
)

// DefaultMaxStringUnits bounds how far a guest string is scanned for its
// terminator.
const DefaultMaxStringUnits = 4096

// Options tune how guest requests are served.
type Options struct {
	// MaxStringUnits is the terminator search limit, in code units for wide
	// strings and bytes for narrow ones.
	MaxStringUnits uint32

	// LegacyPrefixScan makes atol and atoi look for a radix prefix anywhere
	// after the sign instead of only directly after it.
	LegacyPrefixScan bool

	// StrictDecodeWindow makes mbtowc require the whole n-byte window to be
	// valid UTF-8, not just the leading character.
	StrictDecodeWindow bool
}

// DefaultOptions returns the options NewEnv starts from.
func DefaultOptions() Options {
	return Options{
		MaxStringUnits:     DefaultMaxStringUnits,
		StrictDecodeWindow: true,
	}
}

// Env is the context every host call is served from. It replaces global
// platform tables: whoever instantiates a guest builds one and passes it in.
// An Env is immutable after NewEnv returns.
type Env struct {
	console *console.Console
	logger  *zap.Logger
	opts    Options
}

// Option configures an Env.
type Option func(*Env)

// WithConsole sets the console output_string writes to.
func WithConsole(c *console.Console) Option {
	return func(e *Env) {
		e.console = c
	}
}

// WithLogger sets the logger used for call diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Env) {
		e.logger = l
	}
}

// WithOptions replaces all options at once.
func WithOptions(o Options) Option {
	return func(e *Env) {
		e.opts = o
	}
}

func WithMaxStringUnits(n uint32) Option {
	return func(e *Env) {
		e.opts.MaxStringUnits = n
	}
}

func WithLegacyPrefixScan(enabled bool) Option {
	return func(e *Env) {
		e.opts.LegacyPrefixScan = enabled
	}
}

func WithStrictDecodeWindow(enabled bool) Option {
	return func(e *Env) {
		e.opts.StrictDecodeWindow = enabled
	}
}

// NewEnv builds an Env. Without WithConsole, output is discarded.
func NewEnv(opts ...Option) *Env {
	e := &Env{opts: DefaultOptions()}
	for _, opt := range opts {
		opt(e)
	}
	if e.console == nil {
		e.console = console.New(nil)
	}
	if e.logger == nil {
		e.logger = Logger()
	}
	if e.opts.MaxStringUnits == 0 {
		e.opts.MaxStringUnits = DefaultMaxStringUnits
	}
	return e
}

func (e *Env) Console() *console.Console {
	return e.console
}

func (e *Env) Logger() *zap.Logger {
	return e.logger
}

func (e *Env) Options() Options {
	return e.opts
}
