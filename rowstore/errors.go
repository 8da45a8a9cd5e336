// SPDX-License-Identifier: MIT
package rowstore

import "errors"

// ErrRowOutOfRange indicates a row index outside [0,lnrows) was given to
// a ReducedMatrix or Factor accessor. spec.md §7's "invalid-bounds" kind
// as it applies to C2.
var ErrRowOutOfRange = errors.New("rowstore: row index out of range")
