// SPDX-License-Identifier: MIT
package parilut

import "errors"

// ErrLevelOverflow indicates the factorization ran past
// config.Params.MaxNLevel without every PE's active set draining to
// zero — spec.md §7's "level-overflow" kind: fatal, the partition or
// drop tolerance is almost certainly pathological.
var ErrLevelOverflow = errors.New("parilut: exceeded maximum factorization levels")

// ErrStalledLevel indicates a level in which rows were still active on
// some PE but no PE was able to select a single row — a
// dependency cycle that an independent-set selector by construction
// should never produce, so this signals a bug rather than a data
// condition.
var ErrStalledLevel = errors.New("parilut: no PE could select a row this level")
