package generator

import (
	"github.com/pkg/errors"
)

// StructTable maps struct names to their fields, in the order the structs were first seen.
// The first definition of a name wins.
type StructTable struct {
	names  []string
	fields map[string][]ParamDescriptor
}

func NewStructTable() *StructTable {
	return &StructTable{
		fields: make(map[string][]ParamDescriptor),
	}
}

// Add registers a struct, returning false if the name was already taken.
func (t *StructTable) Add(name string, fields []ParamDescriptor) bool {
	if t.Has(name) {
		return false
	}
	t.names = append(t.names, name)
	t.fields[name] = fields
	return true
}

func (t *StructTable) Has(name string) bool {
	_, ok := t.fields[name]
	return ok
}

// Names lists the registered structs. Nested structs precede the structs that contain them.
func (t *StructTable) Names() []string {
	return t.names
}

func (t *StructTable) Fields(name string) []ParamDescriptor {
	return t.fields[name]
}

func (t *StructTable) Len() int {
	return len(t.names)
}

// CollectStructs registers every struct reachable from the inputs and outputs of members,
// components before the struct that holds them.
func CollectStructs(members []RawMember, table *StructTable) error {
	for _, m := range members {
		switch m.Type {
		case "constructor", "function", "event", "error":
		default:
			continue
		}

		for _, node := range m.Inputs {
			if err := collectNode(node, table); err != nil {
				return errors.Wrapf(err, "%s %s", m.Type, m.Name)
			}
		}
		for _, node := range m.Outputs {
			if err := collectNode(node, table); err != nil {
				return errors.Wrapf(err, "%s %s", m.Type, m.Name)
			}
		}
	}
	return nil
}

func collectNode(node RawTypeNode, table *StructTable) error {
	for _, c := range node.Components {
		if err := collectNode(c, table); err != nil {
			return err
		}
	}

	name, ok := structName(node.InternalType)
	if !ok || table.Has(name) {
		return nil
	}

	fields, err := transformInputs(node.Components)
	if err != nil {
		return errors.Wrapf(err, "struct %s", name)
	}
	table.Add(name, fields)
	log.WithField("struct", name).Debug("registered struct")
	return nil
}
