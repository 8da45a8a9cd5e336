// SPDX-License-Identifier: MIT

// Package parilut drives the distributed, level-structured incomplete LDU
// factorization with threshold dropping spec.md describes: each PE
// repeatedly selects a set of rows it can finish without waiting on a
// lower-numbered PE (C3; dependencies among its own selected rows are
// ordered during factorization), factors
// them against the completed rows and multipliers already on hand (C5),
// exchanges the freshly completed rows with the PEs that depend on them
// (pemesh's C4/C6), and reduces whatever remains active using both the
// local and the newly received completed rows (C7) before moving to the
// next level (C8). Factor is the single entry point that runs this to
// completion for one PE.
//
// The algorithm's bookkeeping — sparse row assembly, threshold
// dropping, bounded L/U insertion — is delegated to spa and rowstore,
// except that FactorizeSelected ranks and truncates each U row itself;
// this package otherwise sequences those calls the way spec.md §4 lays
// the stages out.
package parilut
