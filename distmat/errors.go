// SPDX-License-Identifier: MIT
package distmat

import "errors"

// ErrBadPartition indicates a row or PE count that cannot be partitioned
// (either is <= 0, or there are more PEs than rows), or a PE index is out
// of range. Row counts that do not divide evenly are allowed.
var ErrBadPartition = errors.New("distmat: invalid row partition")

// ErrBadGridSize indicates a grid dimension requested for a synthetic
// Laplacian fixture is <= 0.
var ErrBadGridSize = errors.New("distmat: grid dimensions must be > 0")
