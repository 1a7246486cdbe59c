package generator

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// ParseDocument reads a compiled artifact document.
//
// The document is either a mapping of contract names to artifacts, or a single artifact, in which case
// it is named after its contractName field or fallbackName. Contracts keep the order they appear in.
func ParseDocument(data []byte, fallbackName string) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}

	out := new(Document)
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("artifact document must be a JSON object")
	}

	// A single artifact
	if root.Get("abi").Exists() {
		name := root.Get("contractName").String()
		if name == "" {
			name = fallbackName
		}
		a, err := parseArtifact(name, root)
		if err != nil {
			return nil, err
		}
		out.Contracts = append(out.Contracts, a)
		return out, nil
	}

	// A mapping of name to artifact
	names, values, err := orderedObject(data)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		a, err := parseArtifact(name, gjson.ParseBytes(values[name]))
		if err != nil {
			return nil, err
		}
		out.Contracts = append(out.Contracts, a)
	}
	return out, nil
}

func parseArtifact(name string, artifact gjson.Result) (*Artifact, error) {
	out := new(Artifact)
	out.Name = name

	// Get the ABI
	{
		raw := artifact.Get("abi")
		if !raw.IsArray() {
			return nil, errors.Errorf("%s: missing abi", name)
		}

		compact := new(bytes.Buffer)
		if err := json.Compact(compact, []byte(raw.Raw)); err != nil {
			return nil, errors.Wrapf(err, "%s: abi", name)
		}
		out.ABI = compact.String()

		parsed, err := abi.JSON(strings.NewReader(raw.Raw))
		if err != nil {
			return nil, errors.Wrapf(err, "%s: abi", name)
		}
		out.Parsed = &parsed

		out.Members, err = parseMembers([]byte(raw.Raw))
		if err != nil {
			return nil, errors.Wrapf(err, "%s: abi", name)
		}
	}

	// Find the bytecode, which solc, foundry and hardhat all store differently
	var object string
	var links gjson.Result
	{
		bytecode := artifact.Get("bytecode")
		switch {
		case artifact.Get("evm.bytecode").Exists():
			bytecode = artifact.Get("evm.bytecode")
			object = bytecode.Get("object").String()
			links = bytecode.Get("linkReferences")
		case bytecode.Type == gjson.String:
			object = bytecode.String()
			links = artifact.Get("linkReferences")
		case bytecode.IsObject():
			object = bytecode.Get("object").String()
			links = bytecode.Get("linkReferences")
		}
	}

	object = strings.TrimPrefix(object, "0x")
	if object != "" {
		out.Bytecode = "0x" + object
	}

	if links.IsObject() {
		refs, err := parseLinkReferences([]byte(links.Raw))
		if err != nil {
			return nil, errors.Wrapf(err, "%s: linkReferences", name)
		}
		out.LinkReferences = refs
	}

	return out, nil
}

// linkReferences maps source files to the libraries they define
func parseLinkReferences(data []byte) ([]LinkReference, error) {
	files, values, err := orderedObject(data)
	if err != nil {
		return nil, err
	}

	var out []LinkReference
	for _, file := range files {
		libraries, _, err := orderedObject(values[file])
		if err != nil {
			return nil, errors.Wrap(err, file)
		}
		for _, library := range libraries {
			out = append(out, LinkReference{SourceFile: file, Library: library})
		}
	}
	return out, nil
}

// Decode an object, keeping the order of its keys
func orderedObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	o := orderedmap.New()
	if err := json.Unmarshal(data, o); err != nil {
		return nil, nil, err
	}

	values := make(map[string]json.RawMessage, len(o.Keys()))
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, nil, err
	}
	return o.Keys(), values, nil
}
