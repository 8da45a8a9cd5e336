// SPDX-License-Identifier: MIT
package parilut

import "github.com/katalvlaran/parilut/pemesh"

// remoteStore accumulates every row this PE has ever received from
// another PE, across all levels, keyed by the row's global diagonal
// column. A row fetched at level 3 may still be a pivot dependency for
// a row this PE does not eliminate until level 9, so entries are never
// evicted. seqOf/order assign each newly learned column a monotonically
// increasing sequence number, used as the pending-L heap's ordering key
// for remote references (spec.md §9's "remote reference ordered by
// arrival").
type remoteStore struct {
	rows  map[int]pemesh.ReceivedRow
	seqOf map[int]int
	order []int
}

func newRemoteStore() *remoteStore {
	return &remoteStore{
		rows:  make(map[int]pemesh.ReceivedRow),
		seqOf: make(map[int]int),
	}
}

// Add records row, assigning it a fresh sequence number the first time
// its diagonal column is seen.
func (s *remoteStore) Add(row pemesh.ReceivedRow) {
	if _, ok := s.seqOf[row.Diag]; !ok {
		s.seqOf[row.Diag] = len(s.order)
		s.order = append(s.order, row.Diag)
	}
	s.rows[row.Diag] = row
}

// Get returns the stored row for global column col, if known.
func (s *remoteStore) Get(col int) (pemesh.ReceivedRow, bool) {
	r, ok := s.rows[col]
	return r, ok
}

// SeqOf returns the arrival sequence number for global column col, if
// known.
func (s *remoteStore) SeqOf(col int) (int, bool) {
	seq, ok := s.seqOf[col]
	return seq, ok
}

// ColAt reverses SeqOf: the global column that was assigned sequence
// number seq.
func (s *remoteStore) ColAt(seq int) int { return s.order[seq] }
