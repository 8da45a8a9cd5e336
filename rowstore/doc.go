// SPDX-License-Identifier: MIT

// Package rowstore implements the per-PE row storage of spec.md §3/§4.2
// (component C2): the reduced matrix R that still needs eliminating, and
// the factor parts L, D, U that hold completed rows. It mirrors
// lvlath/matrix.Dense's flat-slice-with-bounds-checked-accessors style,
// adapted to the two shapes this domain actually needs: a CSR-like
// variable-length row (ReducedMatrix) and a fixed-capacity-per-row shared
// pool (Factor's L and U).
package rowstore
