package generator

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const placeholderLength = 34

func transformInput(node RawTypeNode, n int) (ParamDescriptor, error) {
	t, err := MapType(node)
	if err != nil {
		return ParamDescriptor{}, err
	}
	return ParamDescriptor{
		Name:    paramName(node.Name, n),
		Type:    t,
		Indexed: node.Indexed,
		Raw:     node,
	}, nil
}

func transformInputs(nodes []RawTypeNode) ([]ParamDescriptor, error) {
	out := make([]ParamDescriptor, 0, len(nodes))
	for i, node := range nodes {
		p, err := transformInput(node, i)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %d", i)
		}
		out = append(out, p)
	}
	return out, nil
}

// TransformFunction derives the descriptor of a function. key is its name in the parsed ABI's method table.
func TransformFunction(m RawMember, key string, method abi.Method) (FunctionDescriptor, error) {
	args, err := transformInputs(m.Inputs)
	if err != nil {
		return FunctionDescriptor{}, errors.Wrapf(err, "function %s", m.Name)
	}
	ret, err := MapOutputs(m.Outputs)
	if err != nil {
		return FunctionDescriptor{}, errors.Wrapf(err, "function %s outputs", m.Name)
	}

	out := FunctionDescriptor{
		Key:       key,
		GoName:    abi.ToCamelCase(key),
		Signature: method.Sig,
		Args:      args,
		Return:    ret,
		Outputs:   len(m.Outputs),
	}
	switch m.StateMutability {
	case "pure", "view":
		out.Read = true
	case "payable", "nonpayable":
		out.Write = true
	default:
		log.WithField("function", method.Sig).Warnf("unrecognized state mutability %q", m.StateMutability)
	}
	return out, nil
}

// TransformEvent derives the descriptor of an event. The signature and topic are go-ethereum's,
// so they match what the EVM records.
func TransformEvent(m RawMember, key string, event abi.Event) (EventDescriptor, error) {
	args, err := transformInputs(m.Inputs)
	if err != nil {
		return EventDescriptor{}, errors.Wrapf(err, "event %s", m.Name)
	}
	return EventDescriptor{
		Key:       key,
		GoName:    abi.ToCamelCase(key),
		Signature: event.Sig,
		Topic:     crypto.Keccak256Hash([]byte(event.Sig)).Hex(),
		Args:      args,
		Anonymous: m.Anonymous,
	}, nil
}

// TransformError derives the descriptor of a custom error. Its signature is built from the
// declared types as written.
func TransformError(m RawMember) (ErrorDescriptor, error) {
	args, err := transformInputs(m.Inputs)
	if err != nil {
		return ErrorDescriptor{}, errors.Wrapf(err, "error %s", m.Name)
	}
	return ErrorDescriptor{
		GoName:    abi.ToCamelCase(m.Name),
		Signature: m.Name + "(" + strings.Join(lo.Map(m.Inputs, func(n RawTypeNode, _ int) string { return rawType(n) }), ",") + ")",
		Args:      args,
	}, nil
}

// A declared type, with tuples spelled out as their components
func rawType(node RawTypeNode) string {
	if !strings.HasPrefix(node.Type, "tuple") {
		return node.Type
	}
	suffix := strings.TrimPrefix(node.Type, "tuple")
	return "(" + strings.Join(lo.Map(node.Components, func(n RawTypeNode, _ int) string { return rawType(n) }), ",") + ")" + suffix
}

// LinkPlaceholder is the marker solc leaves in bytecode for an unlinked library,
// without its surrounding __$ and $__.
func LinkPlaceholder(sourceFile, library string) string {
	hash := crypto.Keccak256([]byte(sourceFile + ":" + library))
	return hexutil.Encode(hash)[2 : 2+placeholderLength]
}

// TransformConstructor derives the deploy arguments: one address per linked library, then the
// constructor's own parameters. m is nil when the ABI declares no constructor.
func TransformConstructor(m *RawMember, links []LinkReference) (ConstructorDescriptor, error) {
	out := ConstructorDescriptor{}
	for _, l := range links {
		out.Links = append(out.Links, LinkParamDescriptor{
			Name:        lowerFirst(l.Library),
			SourceFile:  l.SourceFile,
			Library:     l.Library,
			Placeholder: LinkPlaceholder(l.SourceFile, l.Library),
		})
	}

	if m == nil {
		return out, nil
	}
	args, err := transformInputs(m.Inputs)
	if err != nil {
		return out, errors.Wrap(err, "constructor")
	}
	out.Args = args
	return out, nil
}

// TransformContract derives every member descriptor of one artifact.
func TransformContract(a *Artifact) (*ContractDescriptor, error) {
	out := &ContractDescriptor{
		Name:     abi.ToCamelCase(a.Name),
		ABI:      a.ABI,
		Bytecode: a.Bytecode,
	}

	// Keys are assigned the way go-ethereum's ABI parser assigns them
	methods := make(map[string]bool)
	events := make(map[string]bool)
	goNames := make(map[string]bool)
	var constructor *RawMember

	for i := range a.Members {
		m := a.Members[i]
		switch m.Type {
		case "constructor":
			if constructor == nil {
				constructor = &a.Members[i]
			}

		case "function":
			key := abi.ResolveNameConflict(m.Name, func(s string) bool { return methods[s] })
			methods[key] = true
			method, ok := a.Parsed.Methods[key]
			if !ok || method.RawName != m.Name {
				return nil, errors.Errorf("%s: function %s does not match the parsed ABI", a.Name, key)
			}

			f, err := TransformFunction(m, key, method)
			if err != nil {
				return nil, errors.Wrap(err, a.Name)
			}
			f.GoName = abi.ResolveNameConflict(f.GoName, func(s string) bool { return goNames[s] || reservedMembers[s] })
			goNames[f.GoName] = true
			out.Functions = append(out.Functions, f)

		case "event":
			key := abi.ResolveNameConflict(m.Name, func(s string) bool { return events[s] })
			events[key] = true
			event, ok := a.Parsed.Events[key]
			if !ok || event.RawName != m.Name {
				return nil, errors.Errorf("%s: event %s does not match the parsed ABI", a.Name, key)
			}
			e, err := TransformEvent(m, key, event)
			if err != nil {
				return nil, errors.Wrap(err, a.Name)
			}
			out.Events = append(out.Events, e)

		case "error":
			e, err := TransformError(m)
			if err != nil {
				return nil, errors.Wrap(err, a.Name)
			}
			out.Errors = append(out.Errors, e)
		}
	}

	c, err := TransformConstructor(constructor, a.LinkReferences)
	if err != nil {
		return nil, errors.Wrap(err, a.Name)
	}
	out.Constructor = c

	log.WithFields(logrus.Fields{
		"contract":  out.Name,
		"functions": len(out.Functions),
		"events":    len(out.Events),
		"errors":    len(out.Errors),
	}).Debug("transformed contract")
	return out, nil
}
