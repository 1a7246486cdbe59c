package generator

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Indexed values of these types are logged as their hash. Only anonymous events can index them,
// the others would need a topic encoding to be filtered on.
func hashedTopic(node RawTypeNode) bool {
	return node.Type == "string" || node.Type == "bytes" || strings.HasSuffix(node.Type, "]") || strings.HasPrefix(node.Type, "tuple")
}

func (e *emitter) event(contract string, ev *EventDescriptor) error {
	kind := "event "
	if ev.Anonymous {
		kind = "anonymous event "
	}
	name, ok := e.symbols.declare(ev.GoName, kind+ev.Signature)
	if !ok {
		// Already declared by an earlier contract
		return nil
	}
	getters := paramFieldNames(ev.Args, reservedEventGetters)

	// Anonymous logs have no topic to filter on, everything else needs a topic encoder per indexed
	// field. An unsupported indexed type fails the whole document.
	var indexed []ParamDescriptor
	if !ev.Anonymous {
		indexed = lo.Filter(ev.Args, func(a ParamDescriptor, _ int) bool { return a.Indexed })
	}
	filterFields := paramFieldNames(indexed, reservedFilterFields)
	encoders := make([]string, len(indexed))
	for i, a := range indexed {
		topic, err := a.Type.InternalToTopic.Apply(a.Type.UserToInternal.Apply("v"))
		if err != nil {
			return errors.Wrapf(err, "event %s: indexed field %s", ev.Signature, a.Name)
		}
		encoders[i] = "func(v " + a.Type.UserType + ") (common.Hash, error) { return " + topic + " }"
	}

	e.P("// ", name, "Sig is the canonical signature of the ", name, " event.")
	e.P("const ", name, "Sig = ", strconv.Quote(ev.Signature))
	e.P()
	if !ev.Anonymous {
		e.P("// ", name, "Topic is the first topic of every ", name, " log.")
		e.P("var ", name, "Topic = common.HexToHash(", strconv.Quote(ev.Topic), ")")
		e.P()

		e.P("// ", name, "Filter selects ", name, " logs. Indexed fields left empty match any value.")
		e.P("type ", name, "Filter struct {")
		e.P("lib.FilterOptions")
		for i, a := range indexed {
			e.P(filterFields[i], " []", a.Type.UserType)
		}
		e.P("}")
		e.P()
	}

	e.P("// ", name, " is a decoded ", ev.Signature, " log.")
	e.P("type ", name, " struct {")
	e.P("lib.ContractEvent")
	e.P("}")
	e.P()
	for i, a := range ev.Args {
		if a.Indexed && hashedTopic(a.Raw) {
			e.P("// ", getters[i], " is the hash of the indexed value, the value itself is not logged.")
			e.P("func (e *", name, ") ", getters[i], "() common.Hash {")
			e.P("return lib.Output[common.Hash](e.Values(), ", i, ")")
			e.P("}")
			e.P()
			continue
		}
		e.P("func (e *", name, ") ", getters[i], "() ", a.Type.InternalType, " {")
		e.P("return ", a.Type.APIToInternal.Apply("lib.Output["+a.Type.APIType+"](e.Values(), "+strconv.Itoa(i)+")"))
		e.P("}")
		e.P()
	}

	e.P("// Is", name, " reports whether ev is a ", ev.Signature, " log, whichever binding decoded it.")
	e.P("func Is", name, "(ev lib.Event) bool {")
	e.P("return ev != nil && ev.Signature() == ", name, "Sig")
	e.P("}")
	e.P()

	if ev.Anonymous {
		e.P("// Decode", name, " decodes l as an anonymous ", ev.Signature, " log. Nothing in the log says what it is,")
		e.P("// so check where it came from first.")
		e.P("func Decode", name, "(l ", e.g.QualifiedGoIdent(typesPackage.Ident("Log")), ") (*", name, ", error) {")
		e.P("ev, err := lib.DecodeAnonymousLog(", contract, "MetaData, ", strconv.Quote(ev.Key), ", l)")
		e.P("if err != nil {")
		e.P("return nil, err")
		e.P("}")
		e.P("return &", name, "{ContractEvent: ev}, nil")
		e.P("}")
		e.P()
		return nil
	}

	e.P("// Get", name, "Events fetches the ", name, " logs matching filter.")
	e.P("func Get", name, "Events(ctx context.Context, backend lib.LogBackend, filter ", name, "Filter) ([]*", name, ", error) {")
	e.P("topics := [][]common.Hash{{", name, "Topic}}")
	for i := range indexed {
		e.P("topic", i, ", err := lib.Topics(filter.", filterFields[i], ", ", encoders[i], ")")
		e.P("if err != nil {")
		e.P("return nil, err")
		e.P("}")
		e.P("topics = append(topics, topic", i, ")")
	}
	e.P("logs, err := lib.GetEvents(ctx, backend, ", contract, "MetaData, ", strconv.Quote(ev.Key), ", filter.FilterOptions, topics)")
	e.P("if err != nil {")
	e.P("return nil, err")
	e.P("}")
	e.P("events := make([]*", name, ", len(logs))")
	e.P("for i := range logs {")
	e.P("events[i] = &", name, "{ContractEvent: logs[i]}")
	e.P("}")
	e.P("return events, nil")
	e.P("}")
	e.P()

	e.P("func init() {")
	e.P("lib.RegisterEvent(", contract, "MetaData, ", strconv.Quote(ev.Key), ", func(ev lib.ContractEvent) lib.Event {")
	e.P("return &", name, "{ContractEvent: ev}")
	e.P("})")
	e.P("}")
	e.P()
	return nil
}

func (e *emitter) errorDecl(er *ErrorDescriptor) {
	name, ok := e.symbols.declare(er.GoName, "error "+er.Signature)
	if !ok {
		return
	}
	fields := paramFieldNames(er.Args, reservedErrorFields)
	params := goParamNames(er.Args)

	e.P("// ", name, "Sig is the signature of the ", name, " error.")
	e.P("const ", name, "Sig = ", strconv.Quote(er.Signature))
	e.P()

	e.P("// ", name, " is the ", er.Signature, " custom error.")
	e.P("type ", name, " struct {")
	for i, a := range er.Args {
		e.P(fields[i], " ", a.Type.InternalType)
	}
	e.P("}")
	e.P()

	e.P("func New", name, "(", paramList(params, userTypes(er.Args)), ") *", name, " {")
	e.P("return &", name, "{")
	for i, a := range er.Args {
		e.P(fields[i], ": ", a.Type.UserToInternal.Apply(params[i]), ",")
	}
	e.P("}")
	e.P("}")
	e.P()

	e.P("func (e *", name, ") Error() string {")
	if len(er.Args) == 0 {
		e.P("return ", strconv.Quote(messageFormat(name, 0)))
	} else {
		values := make([]string, len(fields))
		for i, f := range fields {
			values[i] = "e." + f
		}
		e.P("return fmt.Sprintf(", strconv.Quote(messageFormat(name, len(fields))), ", ", strings.Join(values, ", "), ")")
	}
	e.P("}")
	e.P()

	e.P("func (e *", name, ") Sig() string {")
	e.P("return ", name, "Sig")
	e.P("}")
	e.P()

	e.P("// Is", name, " reports whether err is a ", name, " revert.")
	e.P("func Is", name, "(err error) bool {")
	e.P("sig, ok := lib.ErrorSig(err)")
	e.P("return ok && sig == ", name, "Sig")
	e.P("}")
	e.P()

	e.P("func init() {")
	e.P("lib.RegisterError(", name, "Sig, func(values []interface{}) error {")
	e.P("return &", name, "{")
	for i, a := range er.Args {
		e.P(fields[i], ": ", a.Type.APIToInternal.Apply("lib.Output["+a.Type.APIType+"](values, "+strconv.Itoa(i)+")"), ",")
	}
	e.P("}")
	e.P("}, func(err error) ([]interface{}, bool) {")
	if len(er.Args) == 0 {
		e.P("_, ok := err.(*", name, ")")
		e.P("return nil, ok")
	} else {
		values := make([]string, len(fields))
		for i, a := range er.Args {
			values[i] = a.Type.InternalToAPI.Apply("e." + fields[i])
		}
		e.P("e, ok := err.(*", name, ")")
		e.P("if !ok {")
		e.P("return nil, false")
		e.P("}")
		e.P("return []interface{}{", strings.Join(values, ", "), "}, true")
	}
	e.P("})")
	e.P("}")
	e.P()
}
