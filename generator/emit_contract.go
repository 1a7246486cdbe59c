package generator

import (
	"strconv"
)

func (e *emitter) contract(c *ContractDescriptor) error {
	name, _ := e.symbols.declare(c.Name, "contract "+c.Name)
	recv := "_" + name

	e.P("// ", name, "MetaData contains all meta data concerning the ", name, " contract.")
	e.P("var ", name, "MetaData = &lib.MetaData{")
	e.P("ABI: ", strconv.Quote(c.ABI), ",")
	if c.Deployable() {
		e.P("Bin: ", strconv.Quote(c.Bytecode), ",")
	}
	e.P("}")
	e.P()

	// Binding type and its call variants
	e.P("// ", name, " is an auto generated Go binding around a deployed ", name, " contract.")
	e.P("type ", name, " struct {")
	e.P("contract *lib.Contract")
	e.P()
	e.P("CallStatic ", name, "CallStatic // Runs functions without sending a transaction")
	e.P("SendTransaction ", name, "SendTransaction // Sends transactions without waiting for them")
	e.P("PopulateTransaction ", name, "PopulateTransaction // Builds unsigned transactions")
	e.P("EstimateGas ", name, "EstimateGas // Estimates the gas transactions would use")
	e.P("Encode ", name, "Encoder // Encodes call data")
	e.P("}")
	e.P()
	for _, variant := range []string{"CallStatic", "SendTransaction", "PopulateTransaction", "EstimateGas"} {
		e.P("type ", name, variant, " struct {")
		e.P("contract *lib.Contract")
		e.P("}")
		e.P()
	}
	e.P("// ", name, "Encoder encodes call data for ", name, " functions. It needs no contract or backend.")
	e.P("type ", name, "Encoder struct{}")
	e.P()

	e.P("// New", name, " creates a binding to the ", name, " contract at address.")
	e.P("func New", name, "(address lib.HasAddress, backend lib.Backend) (*", name, ", error) {")
	e.P("contract, err := lib.NewContract(address.Address(), ", name, "MetaData, backend)")
	e.P("if err != nil {")
	e.P("return nil, err")
	e.P("}")
	e.P("return bind", name, "(contract), nil")
	e.P("}")
	e.P()

	e.P("func bind", name, "(contract *lib.Contract) *", name, " {")
	e.P("return &", name, "{")
	e.P("contract: contract,")
	for _, variant := range []string{"CallStatic", "SendTransaction", "PopulateTransaction", "EstimateGas"} {
		e.P(variant, ": ", name, variant, "{contract},")
	}
	e.P("}")
	e.P("}")
	e.P()

	e.P("// Address returns the address of the contract.")
	e.P("func (", recv, " *", name, ") Address() common.Address {")
	e.P("return ", recv, ".contract.Address()")
	e.P("}")
	e.P()
	e.P("func (", recv, " *", name, ") Contract() *lib.Contract {")
	e.P("return ", recv, ".contract")
	e.P("}")
	e.P()

	if c.Deployable() {
		e.deploy(name, c)
	}

	for i := range c.Functions {
		e.function(name, &c.Functions[i])
	}

	for i := range c.Events {
		if err := e.event(name, &c.Events[i]); err != nil {
			return err
		}
	}

	for i := range c.Errors {
		e.errorDecl(&c.Errors[i])
	}
	return nil
}

func (e *emitter) deploy(name string, c *ContractDescriptor) {
	args := c.Constructor.DeployArgs()
	names := make([]string, len(args))
	types := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name
		types[i] = a.Type
	}
	names = goIdentifiers(names)
	params := "backend lib.Backend"
	if len(args) > 0 {
		params += ", " + paramList(names, types)
	}
	params += ", opts *lib.CallOptions"

	// Links, then constructor arguments
	links := "nil"
	if len(c.Constructor.Links) > 0 {
		links = "map[string]common.Address{"
		for i, a := range args {
			if a.Link == nil {
				continue
			}
			links += strconv.Quote(a.Link.Placeholder) + ": " + names[i] + ".Address(), "
		}
		links += "}"
	}
	ctorArgs := packedArgs(c.Constructor.Args, names[len(c.Constructor.Links):])

	e.P("// Deploy", name, " deploys a new ", name, " contract and waits until it is mined.")
	e.P("func Deploy", name, "(", params, ") (*", name, ", error) {")
	e.P("contract, err := lib.Deploy(backend, ", name, "MetaData, ", links, ", opts", ctorArgs, ")")
	e.P("if err != nil {")
	e.P("return nil, err")
	e.P("}")
	e.P("return bind", name, "(contract), nil")
	e.P("}")
	e.P()

	e.P("// SendDeploy", name, " sends the transaction deploying a new ", name, " contract.")
	e.P("func SendDeploy", name, "(", params, ") (common.Hash, error) {")
	e.P("return lib.DeploySendTransaction(backend, ", name, "MetaData, ", links, ", opts", ctorArgs, ")")
	e.P("}")
	e.P()

	e.P("// Deploy", name, "Static simulates deploying ", name, " and returns the code it would install.")
	e.P("func Deploy", name, "Static(", params, ") ([]byte, error) {")
	e.P("return lib.DeployStatic(backend, ", name, "MetaData, ", links, ", opts", ctorArgs, ")")
	e.P("}")
	e.P()

	e.P("func PopulateDeploy", name, "(", params, ") (*lib.UnsignedTransaction, error) {")
	e.P("return lib.DeployPopulateTransaction(", name, "MetaData, ", links, ", opts", ctorArgs, ")")
	e.P("}")
	e.P()
}

func (e *emitter) function(contract string, f *FunctionDescriptor) {
	recv := "_" + contract
	names := goParamNames(f.Args)
	params := paramList(names, userTypes(f.Args), "opts *lib.CallOptions")
	callArgs := joinNames(names)
	args := packedArgs(f.Args, names)
	method := strconv.Quote(f.Key)
	void := f.Return.IsVoid()

	// Direct
	if f.Read {
		e.P("// ", f.GoName, " calls the read-only ", f.Signature, " function.")
	} else {
		e.P("// ", f.GoName, " sends a ", f.Signature, " transaction and waits until it is mined.")
	}
	switch {
	case f.Read && void:
		e.P("func (", recv, " *", contract, ") ", f.GoName, "(", params, ") error {")
		e.P("return ", recv, ".CallStatic.", f.GoName, "(", callArgs, "opts)")
		e.P("}")
	case f.Read:
		e.P("func (", recv, " *", contract, ") ", f.GoName, "(", params, ") (", f.Return.InternalType, ", error) {")
		e.P("return ", recv, ".CallStatic.", f.GoName, "(", callArgs, "opts)")
		e.P("}")
	default:
		e.P("func (", recv, " *", contract, ") ", f.GoName, "(", params, ") (*lib.Transaction, error) {")
		e.P("return ", recv, ".contract.Call(opts, ", method, args, ")")
		e.P("}")
	}
	e.P()

	// Dry run
	if void {
		e.P("func (", recv, " ", contract, "CallStatic) ", f.GoName, "(", params, ") error {")
		e.P("_, err := ", recv, ".contract.CallStatic(opts, ", method, args, ")")
		e.P("return err")
		e.P("}")
	} else {
		out := "lib.Tuple[" + f.Return.APIType + "](out)"
		if f.Outputs == 1 {
			out = "lib.Output[" + f.Return.APIType + "](out, 0)"
		}
		e.P("func (", recv, " ", contract, "CallStatic) ", f.GoName, "(", params, ") (result ", f.Return.InternalType, ", err error) {")
		e.P("out, err := ", recv, ".contract.CallStatic(opts, ", method, args, ")")
		e.P("if err != nil {")
		e.P("return result, err")
		e.P("}")
		e.P("return ", f.Return.APIToInternal.Apply(out), ", nil")
		e.P("}")
	}
	e.P()

	if f.Write {
		e.P("func (", recv, " ", contract, "SendTransaction) ", f.GoName, "(", params, ") (common.Hash, error) {")
		e.P("return ", recv, ".contract.SendTransaction(opts, ", method, args, ")")
		e.P("}")
		e.P()
	}

	e.P("func (", recv, " ", contract, "PopulateTransaction) ", f.GoName, "(", params, ") (*lib.UnsignedTransaction, error) {")
	e.P("return ", recv, ".contract.PopulateTransaction(opts, ", method, args, ")")
	e.P("}")
	e.P()

	e.P("func (", recv, " ", contract, "EstimateGas) ", f.GoName, "(", params, ") (uint64, error) {")
	e.P("return ", recv, ".contract.EstimateGas(opts, ", method, args, ")")
	e.P("}")
	e.P()

	e.P("// ", f.GoName, " encodes the call data of ", f.Signature, ".")
	e.P("func (", contract, "Encoder) ", f.GoName, "(", paramList(names, userTypes(f.Args)), ") ([]byte, error) {")
	e.P("return lib.Encode(", contract, "MetaData, ", method, args, ")")
	e.P("}")
	e.P()
}

// Arguments forwarded from one generated method to another, with a trailing separator
func joinNames(names []string) string {
	out := ""
	for _, n := range names {
		out += n + ", "
	}
	return out
}
