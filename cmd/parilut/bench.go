// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/katalvlaran/parilut/config"
	"github.com/katalvlaran/parilut/parilut"
	"github.com/katalvlaran/parilut/pemesh"
	"github.com/spf13/cobra"
)

func newBenchCmd(flags *rootFlags) *cobra.Command {
	var repeat int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time repeated factorizations of the configured test matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			params, err := config.New(flags.n, config.WithMaxNZ(flags.maxnz), config.WithTol(flags.tol), config.WithMaxNLevel(flags.maxlevel))
			if err != nil {
				return fmt.Errorf("resolving parameters: %w", err)
			}
			for i := 0; i < repeat; i++ {
				elapsed, err := timeOneRun(flags, params)
				if err != nil {
					return err
				}
				cmd.Printf("run %d: n=%d p=%d grid=%s elapsed=%s\n", i+1, flags.n, flags.p, flags.grid, elapsed)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&repeat, "repeat", 1, "number of timed runs")
	return cmd
}

func timeOneRun(flags *rootFlags, params config.Params) (time.Duration, error) {
	mesh := pemesh.NewMesh(flags.p)
	errs := make([]error, flags.p)
	var wg sync.WaitGroup
	ctx := context.Background()

	start := time.Now()
	for pe := 0; pe < flags.p; pe++ {
		pe := pe
		wg.Add(1)
		go func() {
			defer wg.Done()
			dm, err := buildMatrix(flags, pe)
			if err != nil {
				errs[pe] = err
				return
			}
			if _, _, err := parilut.Factor(ctx, mesh, pe, dm, params); err != nil {
				errs[pe] = fmt.Errorf("PE %d: %w", pe, err)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	for _, err := range errs {
		if err != nil {
			return 0, err
		}
	}
	return elapsed, nil
}
