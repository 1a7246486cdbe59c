package generator

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	bigIntType     = "*big.Int"
	addressType    = "common.Address"
	hasAddressType = "lib.HasAddress"
	structPrefix   = "struct "
)

// TypeDescriptor holds the three Go representations of one ABI type and the conversions between them.
//
// APIType is what go-ethereum's unpacker produces, InternalType is what bindings store, and UserType
// is what bindings accept from callers. Internal values are handed to the runtime as they are, it
// narrows integers to APIType when packing.
type TypeDescriptor struct {
	APIType      string
	InternalType string
	UserType     string

	UserToInternal  Conversion
	InternalToAPI   Conversion
	APIToInternal   Conversion
	InternalToTopic TopicEncoding
}

// IsVoid reports whether the descriptor stands for an empty output list.
func (t TypeDescriptor) IsVoid() bool {
	return t.APIType == ""
}

// Wire reports whether values cross the packer without conversion in either direction.
func (t TypeDescriptor) Wire() bool {
	return t.InternalToAPI.IsIdentity() && t.APIToInternal.IsIdentity()
}

var voidType = TypeDescriptor{
	InternalToTopic: noTopic("void has no value"),
}

// MapType derives the descriptor of a single ABI type node.
func MapType(node RawTypeNode) (TypeDescriptor, error) {
	switch {
	case strings.HasSuffix(node.Type, "]"):
		return mapArray(node)
	case node.Type == "uint8":
		return TypeDescriptor{
			APIType:         "uint8",
			InternalType:    "uint8",
			UserType:        "uint8",
			InternalToTopic: topicf("lib.UintTopic(new(big.Int).SetUint64(uint64(%s)))"),
		}, nil
	case strings.HasPrefix(node.Type, "uint"):
		return mapUint(node)
	case node.Type == "address":
		return TypeDescriptor{
			APIType:         addressType,
			InternalType:    addressType,
			UserType:        hasAddressType,
			UserToInternal:  Transformf("%s.Address()"),
			InternalToTopic: topicf("lib.AddressTopic(%s), nil"),
		}, nil
	case node.Type == "bool":
		return TypeDescriptor{
			APIType:         "bool",
			InternalType:    "bool",
			UserType:        "bool",
			InternalToTopic: noTopic("bool cannot be indexed"),
		}, nil
	case node.Type == "tuple":
		if name, ok := structName(node.InternalType); ok {
			return mapStruct(name, node.Components)
		}
		return mapTuple(node.Components)
	}

	t, err := goType(node.Type)
	if err != nil {
		return TypeDescriptor{}, err
	}
	return TypeDescriptor{
		APIType:         t,
		InternalType:    t,
		UserType:        t,
		InternalToTopic: noTopic(fmt.Sprintf("%s cannot be indexed", node.Type)),
	}, nil
}

// MapOutputs derives the descriptor of a function's return value. Several outputs are combined into
// one anonymous tuple.
func MapOutputs(outputs []RawTypeNode) (TypeDescriptor, error) {
	switch len(outputs) {
	case 0:
		return voidType, nil
	case 1:
		return MapType(outputs[0])
	}
	return mapTuple(outputs)
}

// The Go type go-ethereum uses for an elementary ABI type
func goType(t string) (string, error) {
	switch t {
	case "uint":
		t = "uint256"
	case "int":
		t = "int256"
	}
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		return "", errors.Wrapf(err, "unsupported type %q", t)
	}
	return typ.GetType().String(), nil
}

func mapUint(node RawTypeNode) (TypeDescriptor, error) {
	api, err := goType(node.Type)
	if err != nil {
		return TypeDescriptor{}, err
	}

	out := TypeDescriptor{
		APIType:         api,
		InternalType:    bigIntType,
		UserType:        bigIntType,
		InternalToTopic: topicf("lib.UintTopic(%s)"),
	}
	if api != bigIntType {
		// go-ethereum unpacks uint16, uint32 and uint64 as native integers. Packing goes the other way
		// in the runtime, which rejects values the width cannot hold.
		out.APIToInternal = Transformf("new(big.Int).SetUint64(uint64(%s))")
	}
	return out, nil
}

func mapArray(node RawTypeNode) (TypeDescriptor, error) {
	open := strings.LastIndex(node.Type, "[")
	if open < 0 {
		return TypeDescriptor{}, errors.Errorf("malformed array type %q", node.Type)
	}
	prefix := node.Type[open:]

	inner, err := MapType(RawTypeNode{
		Name:         node.Name,
		Type:         node.Type[:open],
		InternalType: trimArraySuffix(node.InternalType),
		Components:   node.Components,
	})
	if err != nil {
		return TypeDescriptor{}, err
	}

	return TypeDescriptor{
		APIType:         prefix + inner.APIType,
		InternalType:    prefix + inner.InternalType,
		UserType:        prefix + inner.UserType,
		UserToInternal:  liftArray(inner.UserToInternal, prefix, inner.UserType, inner.InternalType),
		InternalToAPI:   liftArray(inner.InternalToAPI, prefix, inner.InternalType, inner.APIType),
		APIToInternal:   liftArray(inner.APIToInternal, prefix, inner.APIType, inner.InternalType),
		InternalToTopic: noTopic(fmt.Sprintf("%s cannot be indexed", node.Type)),
	}, nil
}

// Apply an element conversion to every element of a slice or fixed size array
func liftArray(elem Conversion, prefix, from, to string) Conversion {
	if elem.IsIdentity() {
		return Identity
	}
	return Transform(func(expr string) string {
		if prefix == "[]" {
			return fmt.Sprintf("func(in []%s) []%s { out := make([]%s, len(in)); for i, v := range in { out[i] = %s }; return out }(%s)",
				from, to, to, elem.Apply("v"), expr)
		}
		return fmt.Sprintf("func(in %s%s) (out %s%s) { for i, v := range in { out[i] = %s }; return }(%s)",
			prefix, from, prefix, to, elem.Apply("v"), expr)
	})
}

func mapStruct(name string, components []RawTypeNode) (TypeDescriptor, error) {
	fields := tupleFieldNames(components)
	types, err := mapComponents(components)
	if err != nil {
		return TypeDescriptor{}, err
	}

	out := TypeDescriptor{
		APIType:         name,
		InternalType:    name,
		UserType:        name,
		InternalToTopic: noTopic(fmt.Sprintf("struct %s cannot be indexed", name)),
	}

	// The struct itself can be handed to the packer when none of its fields need converting
	if lo.EveryBy(types, TypeDescriptor.Wire) {
		return out, nil
	}

	internalToAPI := func(t TypeDescriptor) Conversion { return t.InternalToAPI }
	apiToInternal := func(t TypeDescriptor) Conversion { return t.APIToInternal }

	out.APIType = anonymousStruct(fields, lo.Map(types, func(t TypeDescriptor, _ int) string { return t.APIType }))
	if !allIdentity(types, internalToAPI) {
		out.InternalToAPI = convertFields(name, out.APIType, fields, types, internalToAPI)
	}
	if !allIdentity(types, apiToInternal) {
		out.APIToInternal = convertFields(out.APIType, name, fields, types, apiToInternal)
	}
	return out, nil
}

func mapTuple(components []RawTypeNode) (TypeDescriptor, error) {
	fields := tupleFieldNames(components)
	types, err := mapComponents(components)
	if err != nil {
		return TypeDescriptor{}, err
	}

	out := TypeDescriptor{
		APIType:         anonymousStruct(fields, lo.Map(types, func(t TypeDescriptor, _ int) string { return t.APIType })),
		InternalType:    anonymousStruct(fields, lo.Map(types, func(t TypeDescriptor, _ int) string { return t.InternalType })),
		UserType:        anonymousStruct(fields, lo.Map(types, func(t TypeDescriptor, _ int) string { return t.UserType })),
		InternalToTopic: noTopic("tuples cannot be indexed"),
	}

	userToInternal := func(t TypeDescriptor) Conversion { return t.UserToInternal }
	internalToAPI := func(t TypeDescriptor) Conversion { return t.InternalToAPI }
	apiToInternal := func(t TypeDescriptor) Conversion { return t.APIToInternal }

	if !allIdentity(types, userToInternal) {
		out.UserToInternal = convertFields(out.UserType, out.InternalType, fields, types, userToInternal)
	}
	if !allIdentity(types, internalToAPI) {
		out.InternalToAPI = convertFields(out.InternalType, out.APIType, fields, types, internalToAPI)
	}
	if !allIdentity(types, apiToInternal) {
		out.APIToInternal = convertFields(out.APIType, out.InternalType, fields, types, apiToInternal)
	}
	return out, nil
}

func mapComponents(components []RawTypeNode) ([]TypeDescriptor, error) {
	out := make([]TypeDescriptor, 0, len(components))
	for _, c := range components {
		t, err := MapType(c)
		if err != nil {
			return nil, errors.Wrapf(err, "component %q", c.Name)
		}
		out = append(out, t)
	}
	return out, nil
}

func allIdentity(types []TypeDescriptor, pick func(TypeDescriptor) Conversion) bool {
	return lo.EveryBy(types, func(t TypeDescriptor) bool {
		return pick(t).IsIdentity()
	})
}

// Build a conversion that copies every field of a struct, converting each one
func convertFields(from, to string, fields []string, types []TypeDescriptor, pick func(TypeDescriptor) Conversion) Conversion {
	return Transform(func(expr string) string {
		values := make([]string, len(fields))
		for i, f := range fields {
			values[i] = f + ": " + pick(types[i]).Apply("v."+f)
		}
		return fmt.Sprintf("func(v %s) %s { return %s{%s} }(%s)", from, to, to, strings.Join(values, ", "), expr)
	})
}

func anonymousStruct(fields []string, types []string) string {
	parts := make([]string, len(fields))
	for i := range fields {
		parts[i] = fields[i] + " " + types[i]
	}
	return "struct{" + strings.Join(parts, "; ") + "}"
}

// Field names of a tuple, resolved the same way go-ethereum names the fields of the structs it unpacks into
func tupleFieldNames(components []RawTypeNode) []string {
	used := make(map[string]bool, len(components))
	out := make([]string, len(components))
	for i, c := range components {
		name := abi.ToCamelCase(c.Name)
		if name == "" {
			name = fmt.Sprintf("Arg%d", i)
		}
		name = abi.ResolveNameConflict(name, func(s string) bool { return used[s] })
		used[name] = true
		out[i] = name
	}
	return out
}

// structName resolves the Go type name of a struct from its internalType annotation,
// eg "struct Lib.Order[]" is LibOrder.
func structName(internalType string) (string, bool) {
	if !strings.HasPrefix(internalType, structPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(internalType, structPrefix)
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	name = strings.ReplaceAll(name, ".", "")
	if name == "" {
		return "", false
	}
	return abi.ToCamelCase(name), true
}

func trimArraySuffix(internalType string) string {
	if !strings.HasSuffix(internalType, "]") {
		return internalType
	}
	if i := strings.LastIndex(internalType, "["); i >= 0 {
		return internalType[:i]
	}
	return internalType
}
