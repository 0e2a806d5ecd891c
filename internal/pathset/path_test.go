package pathset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Emeline-1/pathinfer/internal/asid"
	"github.com/Emeline-1/pathinfer/internal/pathset"
)

func TestEmptyPath(t *testing.T) {
	p := pathset.New()
	require.Equal(t, 0, p.Len())
	require.Equal(t, 1, p.Frequency())
	require.False(t, p.HaveLoop())
	require.Equal(t, 0, p.ULen())
	require.Equal(t, "", p.Text(false))
}

func TestParsePath(t *testing.T) {
	p, err := pathset.Parse("['1234', '23454', '332345']")
	require.NoError(t, err)
	require.Equal(t, "1234 23454 332345", p.Text(false))
	require.Equal(t, 0, p.ULen())
	require.Equal(t, 3, p.SureCount())
}

func TestPrependAddsToFrontUncertain(t *testing.T) {
	p, err := pathset.Parse("['1234', '23454', '332345']")
	require.NoError(t, err)

	ok := p.Prepend(mustEncode(t, "23442"), false)
	require.True(t, ok)
	require.Equal(t, "23442 1234 23454 332345", p.Text(false))
	require.Equal(t, 1, p.ULen())
}

func TestPrependSureIncrementsSureCount(t *testing.T) {
	p, err := pathset.Parse("['1234', '23454', '332345']")
	require.NoError(t, err)
	sureBefore, ulenBefore := p.SureCount(), p.ULen()

	ok := p.Prepend(mustEncode(t, "23442"), true)
	require.True(t, ok)
	require.Equal(t, sureBefore+1, p.SureCount())
	require.Equal(t, ulenBefore, p.ULen())
	require.Equal(t, "23442 1234 23454 332345", p.Text(false))
}

func TestPrependLoopReturnsFalse(t *testing.T) {
	p, err := pathset.Parse("1234 23454 332345")
	require.NoError(t, err)

	ok := p.Prepend(mustEncode(t, "23454"), false)
	require.False(t, ok)
	require.True(t, p.HaveLoop())
	require.Equal(t, "1234 23454 332345", p.Text(false))
}

func TestPrependLoopOnOwnPrepends(t *testing.T) {
	p, err := pathset.Parse("1 2 3 4")
	require.NoError(t, err)

	require.True(t, p.Prepend(mustEncode(t, "22"), false))
	require.True(t, p.Prepend(mustEncode(t, "24"), false))
	require.False(t, p.Prepend(mustEncode(t, "22"), false))
	require.True(t, p.HaveLoop())
}

func TestCopyIsIndependent(t *testing.T) {
	p1, err := pathset.Parse("1 2 3 4")
	require.NoError(t, err)
	p2 := p1.Copy()
	p2.Prepend(mustEncode(t, "9"), false)

	require.Equal(t, "1 2 3 4", p1.Text(false))
	require.Equal(t, "9 1 2 3 4", p2.Text(false))
}

func TestIdenticalPathsCompareEqual(t *testing.T) {
	p1, err := pathset.Parse("1 2 3 4")
	require.NoError(t, err)
	p2, err := pathset.Parse("1 2 3 4")
	require.NoError(t, err)
	require.True(t, p1.Equal(p2))
}

func TestOrdering(t *testing.T) {
	p1, err := pathset.Parse("1 2 3 4")
	require.NoError(t, err)
	p2 := p1.Copy()
	p2.Prepend(mustEncode(t, "9"), false)
	p3 := p1.Copy()
	p3.Prepend(mustEncode(t, "8"), true)
	p1Dup := p1.Copy()
	p1Dup.IncrFrequency()

	require.True(t, p1Dup.Less(p1), "higher frequency paths should be lower")
	require.True(t, p1.Less(p3), "shorter paths should be lower")
	require.True(t, p1.Less(p2), "shorter paths should be lower")
	require.True(t, p3.Less(p2), "less uncertain paths should be lower")
}

func mustEncode(t *testing.T, text string) asid.ID {
	t.Helper()
	id, err := asid.Encode(text)
	require.NoError(t, err)
	return id
}
