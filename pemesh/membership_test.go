// SPDX-License-Identifier: MIT
package pemesh_test

import (
	"testing"

	"github.com/katalvlaran/parilut/pemesh"
	"github.com/stretchr/testify/require"
)

func TestMembershipMarkLocalAndRemote(t *testing.T) {
	m := pemesh.NewMembership(4)
	require.False(t, m.IsMember(0))

	m.MarkLocal(0)
	require.True(t, m.IsMember(0))

	m.MarkRemote(2, 7)
	require.True(t, m.IsMember(2))
	require.Equal(t, 7, m.RemoteOffset(2))
}

func TestMembershipClear(t *testing.T) {
	m := pemesh.NewMembership(3)
	m.MarkLocal(0)
	m.MarkRemote(1, 2)
	m.Clear()
	require.False(t, m.IsMember(0))
	require.False(t, m.IsMember(1))
}

func TestMembershipRemoteOffsetZeroCollidesWithLocalEncoding(t *testing.T) {
	local := pemesh.NewMembership(1)
	local.MarkLocal(0)

	remote := pemesh.NewMembership(1)
	remote.MarkRemote(0, 0)

	// Both encode to the same underlying value; disambiguation is the
	// caller's job via the [firstrow,lastrow) range check, never this map.
	require.True(t, local.IsMember(0))
	require.True(t, remote.IsMember(0))
}
