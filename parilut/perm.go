// SPDX-License-Identifier: MIT
package parilut

// Perm records the order in which this PE's local rows were eliminated
// across all levels, plus its inverse — spec.md §3's "newperm"
// bookkeeping, retained past the end of the run so a triangular-solve
// collaborator can relate factor rows back to original row numbers.
type Perm struct {
	// Order[i] is the local row index eliminated i-th.
	Order []int
	// Inverse[localIdx] is the position of localIdx within Order, or -1
	// if localIdx has not been eliminated yet.
	Inverse []int
}

// NewPerm allocates a Perm for lnrows local rows, none yet eliminated.
func NewPerm(lnrows int) *Perm {
	inv := make([]int, lnrows)
	for i := range inv {
		inv[i] = -1
	}
	return &Perm{Order: make([]int, 0, lnrows), Inverse: inv}
}

// Append records localIdx as the next row eliminated.
func (p *Perm) Append(localIdx int) {
	p.Inverse[localIdx] = len(p.Order)
	p.Order = append(p.Order, localIdx)
}
