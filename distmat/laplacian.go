// SPDX-License-Identifier: MIT
package distmat

import "fmt"

// Laplacian1D builds the distributed view, for PE pe of p, of the n-point
// 1D Laplacian (tridiagonal, diagonal 2, off-diagonals -1) used as test
// scenario S1 in spec.md §8.
func Laplacian1D(n, p, pe int) (*Distributed, error) {
	if n <= 0 {
		return nil, fmt.Errorf("distmat.Laplacian1D: %w", ErrBadGridSize)
	}
	gm := &globalMatrix{n: n, rows: make([][]entry, n)}
	for i := 0; i < n; i++ {
		row := []entry{{i, 2.0}}
		if i > 0 {
			row = append(row, entry{i - 1, -1.0})
		}
		if i < n-1 {
			row = append(row, entry{i + 1, -1.0})
		}
		gm.rows[i] = row
	}
	rowdist, err := EvenRowDist(n, p)
	if err != nil {
		return nil, err
	}
	return distribute(gm, rowdist, pe)
}

// Laplacian2D builds the distributed view, for PE pe of p, of the 5-point
// Laplacian on an nx-by-ny grid (row-major vertex numbering i = y*nx+x),
// used as test scenario S2 in spec.md §8. Row partitioning is a
// contiguous block split of the nx*ny vertices, matching the "block
// row-partitioned" wording of S2.
func Laplacian2D(nx, ny, p, pe int) (*Distributed, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("distmat.Laplacian2D: %w", ErrBadGridSize)
	}
	n := nx * ny
	gm := &globalMatrix{n: n, rows: make([][]entry, n)}
	idx := func(x, y int) int { return y*nx + x }
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			i := idx(x, y)
			row := []entry{{i, 4.0}}
			if x > 0 {
				row = append(row, entry{idx(x-1, y), -1.0})
			}
			if x < nx-1 {
				row = append(row, entry{idx(x+1, y), -1.0})
			}
			if y > 0 {
				row = append(row, entry{idx(x, y-1), -1.0})
			}
			if y < ny-1 {
				row = append(row, entry{idx(x, y+1), -1.0})
			}
			gm.rows[i] = row
		}
	}
	rowdist, err := EvenRowDist(n, p)
	if err != nil {
		return nil, err
	}
	return distribute(gm, rowdist, pe)
}
