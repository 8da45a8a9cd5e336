// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for Params validation. Callers branch on these with
// errors.Is; messages are not part of the contract.
var (
	// ErrBadRowCount indicates N <= 0.
	ErrBadRowCount = errors.New("config: row count must be > 0")

	// ErrBadMaxNZ indicates MaxNZ <= 0.
	ErrBadMaxNZ = errors.New("config: maxnz must be > 0")

	// ErrBadTol indicates Tol <= 0.
	ErrBadTol = errors.New("config: tol must be > 0")

	// ErrBadMaxLevel indicates MaxNLevel <= 0.
	ErrBadMaxLevel = errors.New("config: maxnlevel must be > 0")
)

// DefaultMaxNLevel is MAXNLEVEL from spec.md §6's "Environment" row: the
// fatal cap on the number of factorization levels. lvlath has no analogous
// constant (it has no iterative level structure); the value is picked high
// enough that no legitimate partition of a well-posed PDE matrix should
// ever approach it, while still catching a pathological or misconfigured
// row distribution quickly.
const DefaultMaxNLevel = 1000

// Params is the per-PE view of the global factorization parameters from
// spec.md §3 ("Global parameters"). Every PE in a run holds an identical
// Params value; what varies per PE is its row range and local rows in
// distmat.Distributed (RowDist itself is the same on every PE).
type Params struct {
	N         int     // total rows across all PEs
	MaxNZ     int     // target max off-diagonal nonzeros per row in L and U
	Tol       float64 // relative drop tolerance
	MaxNLevel int     // MAXNLEVEL: fatal cap on factorization levels
}

// Option mutates a Params under construction. Options are applied in the
// order given to New; later options override earlier ones.
type Option func(*Params)

// WithMaxNZ overrides the per-row fill bound. Panics if nz <= 0: a
// non-positive fill bound is a programmer error, not a runtime condition
// (mirrors matrix.WithX's panic-on-nonsensical-constant contract).
func WithMaxNZ(nz int) Option {
	if nz <= 0 {
		panic("config.WithMaxNZ: maxnz must be > 0")
	}
	return func(p *Params) { p.MaxNZ = nz }
}

// WithTol overrides the relative drop tolerance. Panics if tol <= 0.
func WithTol(tol float64) Option {
	if tol <= 0 {
		panic("config.WithTol: tol must be > 0")
	}
	return func(p *Params) { p.Tol = tol }
}

// WithMaxNLevel overrides MAXNLEVEL. Panics if n <= 0.
func WithMaxNLevel(n int) Option {
	if n <= 0 {
		panic("config.WithMaxNLevel: maxnlevel must be > 0")
	}
	return func(p *Params) { p.MaxNLevel = n }
}

// New resolves a Params for a matrix of n total rows, applying opts in
// order over the defaults (MaxNZ=5, Tol=1e-3, MaxNLevel=DefaultMaxNLevel).
// Returns ErrBadRowCount if n <= 0; that check is done here rather than in
// an option because N is a required, not optional, input.
func New(n int, opts ...Option) (Params, error) {
	if n <= 0 {
		return Params{}, fmt.Errorf("config.New: %w", ErrBadRowCount)
	}

	p := Params{
		N:         n,
		MaxNZ:     5,
		Tol:       1e-3,
		MaxNLevel: DefaultMaxNLevel,
	}
	for _, opt := range opts {
		opt(&p)
	}

	return p, p.Validate()
}

// Validate checks that every field of p is in range, returning the first
// sentinel error it finds (row count, then MaxNZ, then Tol, then MaxNLevel).
func (p Params) Validate() error {
	switch {
	case p.N <= 0:
		return ErrBadRowCount
	case p.MaxNZ <= 0:
		return ErrBadMaxNZ
	case p.Tol <= 0:
		return ErrBadTol
	case p.MaxNLevel <= 0:
		return ErrBadMaxLevel
	default:
		return nil
	}
}
