// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"math"

	"github.com/katalvlaran/parilut/distmat"
)

// buildMatrix constructs PE pe's local view of the grid-flags.n-sized test
// matrix named by flags.grid, mirroring spec.md §8's scenarios S1 (1D
// Laplacian) and S2 (2D Laplacian).
func buildMatrix(flags *rootFlags, pe int) (*distmat.Distributed, error) {
	switch flags.grid {
	case "1d":
		return distmat.Laplacian1D(flags.n, flags.p, pe)
	case "2d":
		side := int(math.Sqrt(float64(flags.n)))
		if side*side != flags.n {
			return nil, fmt.Errorf("--grid=2d requires --n to be a perfect square, got %d", flags.n)
		}
		return distmat.Laplacian2D(side, side, flags.p, pe)
	default:
		return nil, fmt.Errorf("unknown --grid %q", flags.grid)
	}
}
