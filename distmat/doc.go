// SPDX-License-Identifier: MIT

// Package distmat is the out-of-scope collaborator spec.md §1 and §6
// describe: the thing that owns the distributed CSR-like matrix and the
// row partition vector before a ParILUT factorization ever starts. Full
// distributed matrix assembly (reading a mesh, discretizing a PDE,
// redistributing rows for load balance) is genuinely out of scope per
// spec.md — this package only builds small, well-understood test
// fixtures (1D and 5-point 2D Laplacians) good enough to drive the
// factorization in tests, benchmarks, and the CLI's demo command.
package distmat
