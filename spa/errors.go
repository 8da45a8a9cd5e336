// SPDX-License-Identifier: MIT
package spa

import "errors"

// ErrOutOfBounds indicates a column index outside [0,N) was presented to
// the workspace. This is spec.md §7's "invalid-bounds" kind as it applies
// to C1; callers treat it as fatal (see parilut.ErrLevelOverflow's sibling
// handling in the level driver).
var ErrOutOfBounds = errors.New("spa: column index out of bounds")

// ErrNotAtRest indicates Seed was called on a Workspace that still has a
// row in progress (Reset was never called to close out the previous row;
// DropBelow alone leaves the surviving entries in place). This guards the
// "jr ≡ -1 between rows" invariant from spec.md §3.
var ErrNotAtRest = errors.New("spa: workspace has an unfinished row")
