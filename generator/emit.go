package generator

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/compiler/protogen"
	"google.golang.org/protobuf/types/pluginpb"
)

// RuntimeImportPath is the package generated bindings build on.
const RuntimeImportPath = "github.com/jshufro/abi2go/lib"

// Packages referenced by the type expressions the mapper produces. Each one is pinned by the
// generated file so its import is never unused.
var (
	bigPackage     = protogen.GoImportPath("math/big")
	commonPackage  = protogen.GoImportPath("github.com/ethereum/go-ethereum/common")
	runtimePackage = protogen.GoImportPath(RuntimeImportPath)
	fmtPackage     = protogen.GoImportPath("fmt")
	contextPackage = protogen.GoImportPath("context")
	typesPackage   = protogen.GoImportPath("github.com/ethereum/go-ethereum/core/types")
)

type EmitOptions struct {
	Package  string
	Filename string
	Source   string // name of the input document, for the header
}

type emitter struct {
	g       *protogen.GeneratedFile
	symbols *symbols
}

// Emit renders the struct table and contracts into a single formatted Go file.
func Emit(structs *StructTable, contracts []*ContractDescriptor, opts EmitOptions) ([]byte, error) {
	if opts.Package == "" {
		return nil, errors.New("package name is required")
	}
	filename := opts.Filename
	if filename == "" {
		filename = opts.Package + ".go"
	}

	plugin, err := protogen.Options{}.New(&pluginpb.CodeGeneratorRequest{})
	if err != nil {
		return nil, err
	}
	e := &emitter{
		g:       plugin.NewGeneratedFile(filename, protogen.GoImportPath(opts.Package)),
		symbols: newSymbols(),
	}

	e.header(opts)

	for _, name := range structs.Names() {
		e.symbols.declare(name, "struct "+name)
		e.structDecl(name, structs.Fields(name))
	}

	for _, c := range contracts {
		if err := e.contract(c); err != nil {
			return nil, errors.Wrap(err, c.Name)
		}
	}

	return e.g.Content()
}

func (e *emitter) P(v ...interface{}) {
	e.g.P(v...)
}

func (e *emitter) header(opts EmitOptions) {
	e.P("// Code generated by abi2go. DO NOT EDIT.")
	if opts.Source != "" {
		e.P("// source: ", opts.Source)
	}
	e.P()
	e.P("package ", opts.Package)
	e.P()
	e.P("// Reference imports to suppress errors if they are not otherwise used.")
	e.P("var (")
	e.P("_ = ", e.g.QualifiedGoIdent(bigPackage.Ident("NewInt")))
	e.P("_ = ", e.g.QualifiedGoIdent(commonPackage.Ident("Big1")))
	e.P("_ = ", e.g.QualifiedGoIdent(runtimePackage.Ident("Hexstring")))
	e.P("_ = ", e.g.QualifiedGoIdent(fmtPackage.Ident("Sprintf")))
	e.P("_ = ", e.g.QualifiedGoIdent(contextPackage.Ident("Background")))
	e.P(")")
	e.P()
}

func (e *emitter) structDecl(name string, fields []ParamDescriptor) {
	names := structFieldNames(fields)
	params := goParamNames(fields)

	e.P("// ", name, " is an auto generated low-level Go binding around a user-defined struct.")
	e.P("type ", name, " struct {")
	for i, f := range fields {
		e.P(names[i], " ", f.Type.InternalType)
	}
	e.P("}")
	e.P()

	e.P("// New", name, " builds a ", name, " from user-facing values.")
	e.P("func New", name, "(", paramList(params, userTypes(fields)), ") ", name, " {")
	e.P("return ", name, "{")
	for i, f := range fields {
		e.P(names[i], ": ", f.Type.UserToInternal.Apply(params[i]), ",")
	}
	e.P("}")
	e.P("}")
	e.P()
}

// Struct fields must be named exactly like the mapper names tuple components
func structFieldNames(fields []ParamDescriptor) []string {
	raw := make([]RawTypeNode, len(fields))
	for i, f := range fields {
		raw[i] = f.Raw
	}
	return tupleFieldNames(raw)
}

func userTypes(params []ParamDescriptor) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Type.UserType
	}
	return out
}

func paramList(names []string, types []string, extra ...string) string {
	parts := make([]string, 0, len(names)+len(extra))
	for i := range names {
		parts = append(parts, names[i]+" "+types[i])
	}
	parts = append(parts, extra...)
	return strings.Join(parts, ", ")
}

// The expressions handed to the packer for a list of user supplied parameters
func packedArgs(params []ParamDescriptor, names []string) string {
	var b strings.Builder
	for i, p := range params {
		b.WriteString(", ")
		b.WriteString(p.Type.UserToInternal.Then(p.Type.InternalToAPI).Apply(names[i]))
	}
	return b.String()
}

// Format verbs interpolating every field into an error message
func messageFormat(name string, n int) string {
	verbs := make([]string, n)
	for i := range verbs {
		verbs[i] = "%v"
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(verbs, ", "))
}
