package generator

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "generator")

// Identifiers generated function bodies rely on. Parameters may not shadow them.
var reservedParams = map[string]bool{
	"opts":     true,
	"out":      true,
	"err":      true,
	"result":   true,
	"ctx":      true,
	"backend":  true,
	"contract": true,
	"filter":   true,
	"topics":   true,
	"logs":     true,
	"events":   true,
	"big":      true,
	"common":   true,
	"lib":      true,
	"fmt":      true,
	"context":  true,
	"new":      true,
	"make":     true,
	"len":      true,
	"append":   true,
	"nil":      true,
	"true":     true,
	"false":    true,
	"uint8":    true,
	"uint16":   true,
	"uint32":   true,
	"uint64":   true,
	"string":   true,
	"bool":     true,
	"byte":     true,
	"error":    true,
}

// Fields and methods of the generated binding type
var reservedMembers = map[string]bool{
	"Address":             true,
	"Contract":            true,
	"CallStatic":          true,
	"SendTransaction":     true,
	"PopulateTransaction": true,
	"EstimateGas":         true,
	"Encode":              true,
}

// Methods of the runtime's ContractEvent, which generated events embed
var reservedEventGetters = map[string]bool{
	"ContractEvent": true,
	"Raw":           true,
	"Signature":     true,
	"EventName":     true,
	"Values":        true,
}

var reservedErrorFields = map[string]bool{
	"Error": true,
	"Sig":   true,
}

var reservedFilterFields = map[string]bool{
	"FilterOptions": true,
}

// paramName applies the ABI naming rules: trailing underscores are dropped and unnamed
// parameters are called argN.
func paramName(name string, n int) string {
	name = strings.TrimSuffix(name, "_")
	if name == "" {
		return fmt.Sprintf("arg%d", n)
	}
	return name
}

// goParamNames turns parameter names into usable, distinct Go identifiers.
func goParamNames(params []ParamDescriptor) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return goIdentifiers(names)
}

func goIdentifiers(names []string) []string {
	used := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		if !token.IsIdentifier(name) || reservedParams[name] || name == "_" {
			name = fmt.Sprintf("arg%d", i)
		}
		name = abi.ResolveNameConflict(name, func(s string) bool { return used[s] })
		used[name] = true
		out[i] = name
	}
	return out
}

// exportedNames camel-cases names into distinct exported identifiers that avoid reserved.
func exportedNames(names []string, reserved map[string]bool) []string {
	used := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		name = abi.ToCamelCase(name)
		if !token.IsIdentifier(name) || !token.IsExported(name) {
			name = fmt.Sprintf("Arg%d", i)
		}
		name = abi.ResolveNameConflict(name, func(s string) bool { return used[s] || reserved[s] })
		used[name] = true
		out[i] = name
	}
	return out
}

func paramFieldNames(params []ParamDescriptor, reserved map[string]bool) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return exportedNames(names, reserved)
}

// lowerFirst lower-cases the first character, eg for library link parameters.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// symbols hands out package level identifiers for one generated file. Declarations with the same
// kind and signature share a name, anything else that collides is suffixed.
type symbols struct {
	taken map[string]string
}

func newSymbols() *symbols {
	return &symbols{taken: make(map[string]string)}
}

// declare returns the identifier to use and whether the declaration still has to be emitted.
func (s *symbols) declare(name, key string) (string, bool) {
	if existing, ok := s.taken[name]; ok && existing == key {
		return name, false
	}
	name = abi.ResolveNameConflict(name, func(n string) bool {
		_, ok := s.taken[n]
		return ok
	})
	s.taken[name] = key
	return name, true
}
