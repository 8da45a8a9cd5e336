// SPDX-License-Identifier: MIT
package pemesh

import "errors"

// ErrCommFailed indicates a point-to-point send/receive or a collective
// (all-to-all, all-reduce, barrier) did not complete, either because the
// mesh's context was canceled by another PE's failure or because a peer
// index was invalid. spec.md §7's "communication-failure" kind: fatal,
// collective abort.
var ErrCommFailed = errors.New("pemesh: communication failed")

// ErrBadPeer indicates a PE index outside [0,n) was used to address the
// mesh.
var ErrBadPeer = errors.New("pemesh: peer index out of range")
