package pathset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Emeline-1/pathinfer/internal/asid"
	"github.com/Emeline-1/pathinfer/internal/pathset"
)

func newOrigin(t *testing.T) asid.ID {
	return mustEncode(t, "1234")
}

func TestPathSetAddInsertsNewPath(t *testing.T) {
	ps := pathset.New()
	origin := newOrigin(t)
	p1, _ := pathset.Parse("1 2 3 4")
	require.True(t, ps.Add(origin, p1))
	require.Equal(t, 1, ps.Size(origin))

	p2, _ := pathset.Parse("5 6 7 8")
	require.True(t, ps.Add(origin, p2))
	require.Equal(t, 2, ps.Size(origin))
}

func TestPathSetPeekNoCopyReturnsSameObject(t *testing.T) {
	ps := pathset.New()
	origin := newOrigin(t)
	p1, _ := pathset.Parse("1 2 3 4")
	ps.Add(origin, p1)

	require.Same(t, p1, ps.Peek(origin, false))
}

func TestPathSetPeekCopyCreatesNew(t *testing.T) {
	ps := pathset.New()
	origin := newOrigin(t)
	p1, _ := pathset.Parse("1 2 3 4")
	ps.Add(origin, p1)

	got := ps.Peek(origin, true)
	require.NotSame(t, p1, got)
	require.True(t, p1.Equal(got))
}

func TestPathSetClearRemovesElements(t *testing.T) {
	ps := pathset.New()
	origin := newOrigin(t)
	p1, _ := pathset.Parse("1 2 3 4")
	ps.Add(origin, p1)
	require.Equal(t, 1, ps.Size(origin))

	ps.Clear(origin)
	require.Equal(t, 0, ps.Size(origin))
	require.Nil(t, ps.Peek(origin, false))
}

func TestPathSetAddIdenticalBumpsFrequency(t *testing.T) {
	ps := pathset.New()
	origin := newOrigin(t)
	p1, _ := pathset.Parse("1 2 3 4")
	ps.Add(origin, p1)

	p1Dup, _ := pathset.Parse("1 2 3 4")
	added := ps.Add(origin, p1Dup)
	require.False(t, added)
	require.Equal(t, 1, ps.Size(origin))

	ret := ps.Peek(origin, false)
	require.Equal(t, 2, ret.Frequency())

	p1Dup2, _ := pathset.Parse("1 2 3 4")
	ps.Add(origin, p1Dup2)
	ret = ps.Peek(origin, false)
	require.Equal(t, 3, ret.Frequency())
}

func TestPathSetPeekReturnsBestPath(t *testing.T) {
	ps := pathset.New()
	origin2 := mustEncode(t, "5678")
	require.Equal(t, 0, ps.Size(origin2))

	p1, _ := pathset.Parse("1 2 3 4")
	p4 := p1.Copy()
	p4.Prepend(mustEncode(t, "99"), false)
	ps.Add(origin2, p4)
	require.Same(t, p4, ps.Peek(origin2, false))

	p2, _ := pathset.Parse("5 6 7 8")
	ps.Add(origin2, p2)
	require.Same(t, p2, ps.Peek(origin2, false))

	p3, _ := pathset.Parse("1 2 3")
	ps.Add(origin2, p3)
	require.Same(t, p3, ps.Peek(origin2, false))
}
