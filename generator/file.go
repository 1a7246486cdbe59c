package generator

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// In-memory representation of a single ABI type node
type RawTypeNode struct {
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	InternalType string        `json:"internalType,omitempty"`
	Components   []RawTypeNode `json:"components,omitempty"`
	Indexed      bool          `json:"indexed,omitempty"`
}

// In-memory representation of a single ABI entry
type RawMember struct {
	Type            string        `json:"type"`
	Name            string        `json:"name"`
	Inputs          []RawTypeNode `json:"inputs"`
	Outputs         []RawTypeNode `json:"outputs"`
	StateMutability string        `json:"stateMutability,omitempty"`
	Anonymous       bool          `json:"anonymous,omitempty"`
}

// A library the bytecode must be linked against before deployment
type LinkReference struct {
	SourceFile string
	Library    string
}

// In-memory representation of a single compiled contract
type Artifact struct {
	Name string

	// Compact ABI JSON, embedded verbatim into the generated metadata
	ABI      string
	Members  []RawMember
	Parsed   *abi.ABI
	Bytecode string // 0x-prefixed, empty when the contract is abstract

	// In the order the compiler listed them
	LinkReferences []LinkReference
}

// In-memory representation of a single artifact document, contracts in document order
type Document struct {
	Contracts []*Artifact
}

// ParamDescriptor is one named, typed parameter, field or tuple component.
type ParamDescriptor struct {
	Name    string
	Type    TypeDescriptor
	Indexed bool
	Raw     RawTypeNode
}

// LinkParamDescriptor is a deploy argument that supplies the address of a linked library.
// Its user type is always lib.HasAddress.
type LinkParamDescriptor struct {
	Name        string
	SourceFile  string
	Library     string
	Placeholder string // 34 hex characters
}

// Marker is the placeholder as it appears in unlinked bytecode.
func (l LinkParamDescriptor) Marker() string {
	return "__$" + l.Placeholder + "$__"
}

type FunctionDescriptor struct {
	// Key in the parsed ABI's method table. Overloads are suffixed 0, 1, ...
	Key string

	GoName    string
	Signature string
	Read      bool
	Write     bool
	Args      []ParamDescriptor
	Return    TypeDescriptor
	Outputs   int
}

type EventDescriptor struct {
	Key       string
	GoName    string
	Signature string
	Topic     string
	Args      []ParamDescriptor

	// Anonymous events are logged without their topic, so they can only be decoded, not filtered for
	Anonymous bool
}

type ErrorDescriptor struct {
	GoName    string
	Signature string
	Args      []ParamDescriptor
}

// DeployArg is one parameter of the generated deploy functions, either a library link or a constructor argument.
type DeployArg struct {
	Name string
	Type string
	Link *LinkParamDescriptor
	Arg  *ParamDescriptor
}

type ConstructorDescriptor struct {
	Links []LinkParamDescriptor
	Args  []ParamDescriptor
}

// DeployArgs lists link parameters in discovery order followed by the constructor's own arguments.
func (c *ConstructorDescriptor) DeployArgs() []DeployArg {
	out := make([]DeployArg, 0, len(c.Links)+len(c.Args))
	for i := range c.Links {
		out = append(out, DeployArg{Name: c.Links[i].Name, Type: hasAddressType, Link: &c.Links[i]})
	}
	for i := range c.Args {
		out = append(out, DeployArg{Name: c.Args[i].Name, Type: c.Args[i].Type.UserType, Arg: &c.Args[i]})
	}
	return out
}

type ContractDescriptor struct {
	Name        string
	ABI         string
	Bytecode    string
	Constructor ConstructorDescriptor
	Functions   []FunctionDescriptor
	Events      []EventDescriptor
	Errors      []ErrorDescriptor
}

// Deployable reports whether deploy entry points should be generated.
func (c *ContractDescriptor) Deployable() bool {
	return c.Bytecode != ""
}

// Unmarshal a raw ABI into its members, used when the go-ethereum parser is not needed
func parseMembers(data []byte) ([]RawMember, error) {
	var out []RawMember
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
