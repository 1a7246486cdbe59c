package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamName(t *testing.T) {
	assert.Equal(t, "owner", paramName("owner_", 0))
	assert.Equal(t, "owner", paramName("owner", 0))
	assert.Equal(t, "arg2", paramName("", 2))
	assert.Equal(t, "arg1", paramName("_", 1))
}

func TestGoIdentifiers(t *testing.T) {
	assert.Equal(t,
		[]string{"to", "arg1", "arg2", "arg3", "to0", "arg5"},
		goIdentifiers([]string{"to", "err", "", "type", "to", "opts"}))
}

func TestExportedNames(t *testing.T) {
	assert.Equal(t,
		[]string{"Value", "Error0", "Arg2", "MaxValue", "Value0"},
		exportedNames([]string{"value", "error", "", "max_value", "Value"}, reservedErrorFields))
}

func TestLowerFirst(t *testing.T) {
	assert.Equal(t, "safeMath", lowerFirst("SafeMath"))
	assert.Equal(t, "", lowerFirst(""))
}

func TestSymbols(t *testing.T) {
	s := newSymbols()

	name, ok := s.declare("Transfer", "event Transfer(address,address,uint256)")
	assert.True(t, ok)
	assert.Equal(t, "Transfer", name)

	// Same declaration again
	name, ok = s.declare("Transfer", "event Transfer(address,address,uint256)")
	assert.False(t, ok)
	assert.Equal(t, "Transfer", name)

	// A different declaration with the same name
	name, ok = s.declare("Transfer", "event Transfer(address,uint256)")
	assert.True(t, ok)
	assert.Equal(t, "Transfer0", name)

	name, ok = s.declare("Transfer", "contract Transfer")
	assert.True(t, ok)
	assert.Equal(t, "Transfer1", name)
}
