package worklist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Emeline-1/pathinfer/internal/asid"
	"github.com/Emeline-1/pathinfer/internal/worklist"
)

func id(t *testing.T, s string) asid.ID {
	t.Helper()
	v, err := asid.Encode(s)
	require.NoError(t, err)
	return v
}

func TestAddDedupesPending(t *testing.T) {
	w := worklist.New()
	require.True(t, w.Add(id(t, "5")))
	require.False(t, w.Add(id(t, "5")))
	require.Equal(t, 1, w.Len())
}

func TestExtractIsAscending(t *testing.T) {
	w := worklist.New()
	w.Add(id(t, "30"))
	w.Add(id(t, "10"))
	w.Add(id(t, "20"))

	a, ok := w.Extract()
	require.True(t, ok)
	require.Equal(t, id(t, "10"), a)

	b, _ := w.Extract()
	require.Equal(t, id(t, "20"), b)

	c, _ := w.Extract()
	require.Equal(t, id(t, "30"), c)

	_, ok = w.Extract()
	require.False(t, ok)
}

func TestExtractAfterDrainAllowsReAdd(t *testing.T) {
	w := worklist.New()
	w.Add(id(t, "7"))
	w.Extract()
	require.True(t, w.Empty())
	require.True(t, w.Add(id(t, "7")))
}
