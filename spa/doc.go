// SPDX-License-Identifier: MIT

// Package spa implements the sparse accumulator workspace described in
// spec.md §4.1 (component C1): a dense-indexed scratch area used to
// assemble one sparse row of the factorization at a time. A Workspace is
// allocated once per PE and reused across every row processed at every
// level; Reset closes out each row and restores the workspace's "at rest"
// invariant (jr entirely -1) by clearing only the populated slots, so the
// next row can reuse it without a full-array reset.
//
// The design mirrors lvlath/matrix's Dense: a flat backing array, O(1)
// indexed access, and validation that returns a sentinel error instead of
// panicking on caller-supplied indices.
package spa
