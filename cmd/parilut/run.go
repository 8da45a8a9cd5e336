// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/katalvlaran/parilut/config"
	"github.com/katalvlaran/parilut/parilut"
	"github.com/katalvlaran/parilut/pemesh"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Factor the configured test matrix and print a per-PE summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFactorization(cmd, flags)
		},
	}
}

type peSummary struct {
	pe     int
	lnrows int
	levels int
	lNNZ   int
	uNNZ   int
}

func runFactorization(cmd *cobra.Command, flags *rootFlags) error {
	if err := flags.validate(); err != nil {
		return err
	}
	params, err := config.New(flags.n, config.WithMaxNZ(flags.maxnz), config.WithTol(flags.tol), config.WithMaxNLevel(flags.maxlevel))
	if err != nil {
		return fmt.Errorf("resolving parameters: %w", err)
	}

	mesh := pemesh.NewMesh(flags.p)
	summaries := make([]peSummary, flags.p)
	errs := make([]error, flags.p)
	var wg sync.WaitGroup
	ctx := context.Background()

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
			f, perm, err := parilut.Factor(ctx, mesh, pe, dm, params)
			if err != nil {
				errs[pe] = fmt.Errorf("PE %d: %w", pe, err)
				return
			}
			s := peSummary{pe: pe, lnrows: dm.LNRows(), levels: f.NLevels}
			for _, r := range perm.Order {
				cols, _ := f.LRow(r)
				s.lNNZ += len(cols)
				ucols, _ := f.URow(r)
				s.uNNZ += len(ucols)
			}
			summaries[pe] = s
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	totalRows := lo.SumBy(summaries, func(s peSummary) int { return s.lnrows })
	totalL := lo.SumBy(summaries, func(s peSummary) int { return s.lNNZ })
	totalU := lo.SumBy(summaries, func(s peSummary) int { return s.uNNZ })

	for _, s := range summaries {
		cmd.Printf("PE %d: %d rows, %d levels, %d L-nnz, %d U-nnz\n", s.pe, s.lnrows, s.levels, s.lNNZ, s.uNNZ)
	}
	cmd.Printf("total: %d rows across %d PEs, %d L-nnz, %d U-nnz\n", totalRows, flags.p, totalL, totalU)
	return nil
}
