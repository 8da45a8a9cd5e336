// SPDX-License-Identifier: MIT

// Package pemesh realizes spec.md §5's communication model — one process
// per PE, explicit message passing, no shared memory — as an in-process
// mesh of goroutines linked by channels. It implements component C4 (the
// communication planner) and component C6 (row exchange) from spec.md
// §4.4/§4.6, plus the Mesh transport both of them, and the level driver's
// termination check, run on top of.
//
// lvlath has no networking or message-passing layer of its own (it is a
// single-process graph library), so there is no teacher idiom to imitate
// for the transport primitives themselves; they follow the same
// discipline the teacher applies everywhere else — no global state,
// explicit context.Context on anything that can block, sentinel errors
// for every failure mode — while using the one concurrency primitive the
// teacher itself already reaches for in core/concurrency_test.go:
// goroutines synchronized with the standard library, nothing fancier.
package pemesh
