// SPDX-License-Identifier: MIT
package pemesh

// Membership tracks, for every global row index, whether that row has
// been selected into the current level's independent set (locally) or
// received from a remote PE as a dependency of some other PE's
// selection. It is the Go rendering of spec.md §4.3's membership map.
//
// Encoding:
//
//	0                 -> not a member of this level
//	1                 -> selected locally (row index is a "newperm" slot)
//	(offset<<1)|1      -> row arrived from a remote PE, at buffer offset `offset`
//
// The low bit alone never distinguishes local from remote: offset 0
// remote-encodes to the same value (1) as a local selection. That
// collision is intentional and harmless, because no caller ever needs
// to disambiguate from the encoded value alone — whether a column index
// is local or remote is already known externally, from whether it
// falls inside [firstrow,lastrow) for this PE. The encoding only needs
// to answer "is this row a member, and if remote at what offset",
// which it does unambiguously once locality is known by other means.
type Membership []int32

// NewMembership allocates a membership map sized for n global rows, all
// initially unmarked.
func NewMembership(n int) Membership {
	return make(Membership, n)
}

// IsMember reports whether global row idx belongs to the current level.
func (m Membership) IsMember(idx int) bool {
	return m[idx] != 0
}

// MarkLocal records that global row idx, owned by this PE, was selected
// into this level's independent set.
func (m Membership) MarkLocal(idx int) {
	m[idx] = 1
}

// MarkRemote records that global row idx is a row received from a
// remote PE, stored at buffer offset off.
func (m Membership) MarkRemote(idx, off int) {
	m[idx] = int32(off)<<1 | 1
}

// RemoteOffset returns the buffer offset recorded by MarkRemote. Callers
// must already know, by other means (idx outside [firstrow,lastrow)),
// that idx was marked remote rather than local before calling this.
func (m Membership) RemoteOffset(idx int) int {
	return int(m[idx] >> 1)
}

// Clear resets every entry back to unmarked, ready for the next level.
func (m Membership) Clear() {
	for i := range m {
		m[i] = 0
	}
}
