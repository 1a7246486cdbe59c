package generator

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairNode(internalType string, fields ...string) RawTypeNode {
	return RawTypeNode{
		Name:         "pair",
		Type:         "tuple",
		InternalType: internalType,
		Components: lo.Map(fields, func(f string, _ int) RawTypeNode {
			return RawTypeNode{Name: f, Type: "uint256", InternalType: "uint256"}
		}),
	}
}

func TestCollectStructs(t *testing.T) {
	doc := loadDocument(t, "token.json")
	table := NewStructTable()
	require.NoError(t, CollectStructs(doc.Contracts[0].Members, table))

	// Nested structs first
	assert.Equal(t, []string{"LibMeta", "TokenOrder"}, table.Names())
	assert.Equal(t,
		[]string{"maker", "amount", "meta"},
		lo.Map(table.Fields("TokenOrder"), func(p ParamDescriptor, _ int) string { return p.Name }))
	assert.Equal(t, "LibMeta", table.Fields("TokenOrder")[2].Type.InternalType)

	// Collecting the other contracts adds nothing new
	require.NoError(t, CollectStructs(doc.Contracts[1].Members, table))
	assert.Equal(t, 2, table.Len())
}

func TestCollectStructsFirstDefinitionWins(t *testing.T) {
	table := NewStructTable()
	require.NoError(t, CollectStructs([]RawMember{
		{Type: "function", Name: "a", Inputs: []RawTypeNode{pairNode("struct Pair", "x")}},
		{Type: "function", Name: "b", Outputs: []RawTypeNode{pairNode("struct Pair", "x", "y")}},
	}, table))

	assert.Equal(t, []string{"Pair"}, table.Names())
	assert.Len(t, table.Fields("Pair"), 1)
	assert.False(t, table.Add("Pair", nil))
}

func TestCollectStructsOrder(t *testing.T) {
	outer := RawTypeNode{
		Name:         "outer",
		Type:         "tuple[]",
		InternalType: "struct Outer[]",
		Components: []RawTypeNode{
			{Name: "inner", Type: "tuple[2][]", InternalType: "struct Inner[2][]", Components: pairNode("", "x").Components},
			{Name: "count", Type: "uint8", InternalType: "uint8"},
		},
	}

	table := NewStructTable()
	require.NoError(t, CollectStructs([]RawMember{
		{Type: "receive"},
		{Type: "event", Name: "Logged", Inputs: []RawTypeNode{pairNode("struct Logged.Entry", "a", "b")}},
		{Type: "error", Name: "Failed", Inputs: []RawTypeNode{outer}},
		{Type: "constructor", Inputs: []RawTypeNode{pairNode("struct Init", "supply")}},
	}, table))

	assert.Equal(t, []string{"LoggedEntry", "Inner", "Outer", "Init"}, table.Names())
	assert.Equal(t, "[]Outer", lo.Must(MapType(outer)).InternalType)
	assert.Equal(t, "[][2]Inner", table.Fields("Outer")[0].Type.InternalType)
}

func TestCollectStructsUnsupported(t *testing.T) {
	table := NewStructTable()
	err := CollectStructs([]RawMember{{
		Type: "function",
		Name: "f",
		Inputs: []RawTypeNode{{
			Name:         "bad",
			Type:         "tuple",
			InternalType: "struct Bad",
			Components:   []RawTypeNode{{Name: "x", Type: "notatype"}},
		}},
	}}, table)
	assert.Error(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestCollectStructsSharedStruct(t *testing.T) {
	inner := pairNode("struct Point", "x", "y")
	outer := RawTypeNode{
		Name:         "segment",
		Type:         "tuple",
		InternalType: "struct Segment",
		Components:   []RawTypeNode{inner, inner},
	}

	table := NewStructTable()
	require.NoError(t, CollectStructs([]RawMember{
		{Type: "function", Name: "move", Inputs: []RawTypeNode{inner}},
		{Type: "function", Name: "draw", Inputs: []RawTypeNode{outer}},
		{Type: "function", Name: "last", Outputs: []RawTypeNode{inner}},
	}, table))

	assert.Equal(t, []string{"Point", "Segment"}, table.Names())
}
