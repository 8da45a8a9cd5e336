// SPDX-License-Identifier: MIT
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// rootFlags holds the factorization parameters shared by every
// subcommand, bound once in newRootCmd via pflag (cobra's underlying
// flag package) rather than re-declared per subcommand.
type rootFlags struct {
	n        int
	p        int
	grid     string
	maxnz    int
	tol      float64
	maxlevel int
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "parilut",
		Short: "Distributed parallel incomplete LDU factorization with threshold dropping",
		Long: "parilut builds a small test matrix, partitions it across an in-process\n" +
			"mesh of simulated PEs, and runs the ParILUT factorization over it.",
		SilenceUsage: true,
	}
	root.PersistentFlags().IntVar(&flags.n, "n", 100, "matrix size; for 2d, a perfect square side*side")
	root.PersistentFlags().IntVar(&flags.p, "p", 4, "number of simulated processing elements")
	root.PersistentFlags().StringVar(&flags.grid, "grid", "1d", "test matrix shape: 1d or 2d")
	root.PersistentFlags().IntVar(&flags.maxnz, "maxnz", 5, "target max nonzeros per row in L and U")
	root.PersistentFlags().Float64Var(&flags.tol, "tol", 1e-3, "relative drop tolerance")
	root.PersistentFlags().IntVar(&flags.maxlevel, "maxlevel", 1000, "fatal cap on factorization levels")

	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newBenchCmd(flags))
	return root
}

func (f *rootFlags) validate() error {
	if f.grid != "1d" && f.grid != "2d" {
		return fmt.Errorf("--grid must be \"1d\" or \"2d\", got %q", f.grid)
	}
	if f.p <= 0 {
		return fmt.Errorf("--p must be > 0")
	}
	return nil
}
