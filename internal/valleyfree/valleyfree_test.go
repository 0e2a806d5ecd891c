package valleyfree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Emeline-1/pathinfer/internal/asid"
	"github.com/Emeline-1/pathinfer/internal/relation"
	"github.com/Emeline-1/pathinfer/internal/valleyfree"
)

type fakeLookup map[[2]asid.ID]relation.Tag

func (f fakeLookup) Relation(a, b asid.ID) (relation.Tag, bool) {
	tag, ok := f[[2]asid.ID{a, b}]
	return tag, ok
}

func id(t *testing.T, s string) asid.ID {
	t.Helper()
	v, err := asid.Encode(s)
	require.NoError(t, err)
	return v
}

func TestValleyFreeCustomerChainIsOK(t *testing.T) {
	a, b, c := id(t, "1"), id(t, "2"), id(t, "3")
	lookup := fakeLookup{
		{a, b}: relation.Customer,
		{b, c}: relation.Customer,
	}
	res := valleyfree.Check(lookup, []asid.ID{a, b, c}, 2)
	require.True(t, res.OK)
	require.False(t, res.MissingData)
}

func TestValleyFreeUpThenDownIsOK(t *testing.T) {
	a, b, c := id(t, "1"), id(t, "2"), id(t, "3")
	lookup := fakeLookup{
		{a, b}: relation.Provider,
		{b, c}: relation.Customer,
	}
	res := valleyfree.Check(lookup, []asid.ID{a, b, c}, 2)
	require.True(t, res.OK)
}

func TestValleyFreeDownThenUpIsAViolation(t *testing.T) {
	a, b, c := id(t, "1"), id(t, "2"), id(t, "3")
	lookup := fakeLookup{
		{a, b}: relation.Customer,
		{b, c}: relation.Provider,
	}
	res := valleyfree.Check(lookup, []asid.ID{a, b, c}, 2)
	require.False(t, res.OK)
	require.False(t, res.MissingData)
}

func TestValleyFreeMissingDataIsReported(t *testing.T) {
	a, b, c := id(t, "1"), id(t, "2"), id(t, "3")
	lookup := fakeLookup{
		{a, b}: relation.Customer,
	}
	res := valleyfree.Check(lookup, []asid.ID{a, b, c}, 2)
	require.False(t, res.OK)
	require.True(t, res.MissingData)
}

func TestValleyFreeSureSuffixIsNotReverified(t *testing.T) {
	a, b, c := id(t, "1"), id(t, "2"), id(t, "3")
	// No relation data at all; spBegin=0 means the whole path is sure.
	lookup := fakeLookup{}
	res := valleyfree.Check(lookup, []asid.ID{a, b, c}, 0)
	require.True(t, res.OK)
	require.False(t, res.MissingData)
}

func TestValleyFreePeerAfterDownIsViolation(t *testing.T) {
	a, b, c := id(t, "1"), id(t, "2"), id(t, "3")
	lookup := fakeLookup{
		{a, b}: relation.Customer,
		{b, c}: relation.Peer,
	}
	res := valleyfree.Check(lookup, []asid.ID{a, b, c}, 2)
	require.False(t, res.OK)
}

func TestValleySiblingKeepsDirection(t *testing.T) {
	a, b, c, d := id(t, "1"), id(t, "2"), id(t, "3"), id(t, "4")
	lookup := fakeLookup{
		{a, b}: relation.Provider,
		{b, c}: relation.Sibling,
		{c, d}: relation.Customer,
	}
	res := valleyfree.Check(lookup, []asid.ID{a, b, c, d}, 3)
	require.True(t, res.OK)
}
