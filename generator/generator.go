package generator

import (
	"github.com/pkg/errors"
)

type Options struct {
	// Package name of the generated file
	Package string

	// Names the contract when the document is a single artifact
	ContractName string

	// Recorded in the generated header
	Source string
}

// Generate turns an artifact document into the source of a Go file binding every contract in it.
// Nothing is returned unless the whole document could be generated.
func Generate(data []byte, opts Options) ([]byte, error) {
	doc, err := ParseDocument(data, opts.ContractName)
	if err != nil {
		return nil, errors.Wrap(err, "parsing artifacts")
	}

	structs := NewStructTable()
	contracts := make([]*ContractDescriptor, 0, len(doc.Contracts))
	for _, a := range doc.Contracts {
		if err := CollectStructs(a.Members, structs); err != nil {
			return nil, errors.Wrapf(err, "%s: collecting structs", a.Name)
		}

		c, err := TransformContract(a)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}

	out, err := Emit(structs, contracts, EmitOptions{
		Package: opts.Package,
		Source:  opts.Source,
	})
	if err != nil {
		return nil, errors.Wrap(err, "emitting bindings")
	}
	return out, nil
}
