// SPDX-License-Identifier: MIT

// Package config holds the numeric parameters shared by every PE running a
// ParILUT factorization: the global row count, the per-row fill bound, the
// relative drop tolerance, and the level-count safety cap. It resolves them
// through functional options exactly the way lvlath/matrix resolves its
// MatrixOptions: validate eagerly, panic only on a programmer error (a
// nonsensical constant baked into the call site), never on data the caller
// could have gotten from user input.
package config
