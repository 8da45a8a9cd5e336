// SPDX-License-Identifier: MIT
package parilut

import "log"

// Options are Factor's optional knobs, resolved through lvlath's
// functional-option contract (config.Option mirrors the same shape):
// validate nothing data-dependent here, since the only field is a
// logging destination, not a numeric bound.
type Options struct {
	// Logger receives one line per zero-pivot substitution (spec.md §7's
	// recovered, non-fatal "zero-pivot" kind). Defaults to log.Default()
	// when unset so a caller that never wires one still sees the notice
	// rather than silently losing it.
	Logger *log.Logger
}

// Option mutates Options under construction.
type Option func(*Options)

// WithLogger overrides the destination for zero-pivot notices. A nil
// logger is a programmer error, not a runtime condition — pass
// log.New(io.Discard, "", 0) to suppress output instead.
func WithLogger(l *log.Logger) Option {
	if l == nil {
		panic("parilut.WithLogger: logger must not be nil")
	}
	return func(o *Options) { o.Logger = l }
}

func gatherOptions(opts []Option) Options {
	o := Options{Logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
