package lib

import (
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// Output converts the i-th unpacked value to T, panicking if it cannot be.
func Output[T any](values []interface{}, i int) T {
	return *abi.ConvertType(values[i], new(T)).(*T)
}

// Tuple assigns unpacked values to the fields of struct T, in order.
func Tuple[T any](values []interface{}) T {
	var out T
	v := reflect.ValueOf(&out).Elem()
	for i := 0; i < v.NumField() && i < len(values); i++ {
		field := v.Field(i)
		converted := abi.ConvertType(values[i], reflect.New(field.Type()).Interface())
		field.Set(reflect.ValueOf(converted).Elem())
	}
	return out
}

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// pack encodes the arguments of method, or of the constructor when method is empty.
func pack(parsed *abi.ABI, method string, args ...interface{}) ([]byte, error) {
	inputs := parsed.Constructor.Inputs
	if method != "" {
		m, ok := parsed.Methods[method]
		if !ok {
			return nil, errors.Errorf("no method %s", method)
		}
		inputs = m.Inputs
	}
	values, err := wire(inputs, args)
	if err != nil {
		return nil, err
	}
	return parsed.Pack(method, values...)
}

// wire converts the values bindings hold into the exact Go types args pack from.
// Integers are checked against their declared width, go-ethereum's packer wraps them silently.
func wire(args abi.Arguments, values []interface{}) ([]interface{}, error) {
	if len(values) != len(args) {
		return nil, errors.Errorf("expected %d arguments, got %d", len(args), len(values))
	}
	out := make([]interface{}, len(values))
	for i, v := range values {
		w, err := wireValue(args[i].Type, reflect.ValueOf(v))
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
		out[i] = w.Interface()
	}
	return out, nil
}

func wireValue(t abi.Type, v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() {
		return v, errors.Errorf("missing %s value", t.String())
	}
	target := t.GetType()

	switch t.T {
	case abi.UintTy, abi.IntTy:
		if v.Type() != bigIntType {
			return v, nil
		}
		n, _ := v.Interface().(*big.Int)
		if err := checkInt(t, n); err != nil {
			return v, err
		}
		switch {
		case target == bigIntType:
			return v, nil
		case t.T == abi.UintTy:
			return reflect.ValueOf(n.Uint64()).Convert(target), nil
		default:
			return reflect.ValueOf(n.Int64()).Convert(target), nil
		}

	case abi.SliceTy, abi.ArrayTy:
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return v, nil
		}
		var out reflect.Value
		if t.T == abi.SliceTy {
			out = reflect.MakeSlice(target, v.Len(), v.Len())
		} else {
			if v.Len() != t.Size {
				return v, errors.Errorf("expected %d elements for %s, got %d", t.Size, t.String(), v.Len())
			}
			out = reflect.New(target).Elem()
		}
		for i := 0; i < v.Len(); i++ {
			elem, err := wireValue(*t.Elem, v.Index(i))
			if err != nil {
				return v, errors.Wrapf(err, "element %d", i)
			}
			if err := assign(out.Index(i), elem); err != nil {
				return v, err
			}
		}
		return out, nil

	case abi.TupleTy:
		if v.Kind() == reflect.Ptr && !v.IsNil() {
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct || v.NumField() != len(t.TupleElems) {
			return v, errors.Errorf("cannot use %s as %s", v.Type(), t.String())
		}
		// Fields are matched by position, bindings name them like go-ethereum does
		out := reflect.New(target).Elem()
		for i, elem := range t.TupleElems {
			field, err := wireValue(*elem, v.Field(i))
			if err != nil {
				return v, errors.Wrapf(err, "field %s", t.TupleRawNames[i])
			}
			if err := assign(out.Field(i), field); err != nil {
				return v, err
			}
		}
		return out, nil
	}
	return v, nil
}

// checkInt rejects integers the declared type cannot hold.
func checkInt(t abi.Type, n *big.Int) error {
	if n == nil {
		return errors.Errorf("nil %s", t.String())
	}
	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return errors.Wrapf(ErrOutOfRange, "%s does not fit %s", n, t.String())
		}
		return nil
	}
	max := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
	min := new(big.Int).Neg(max)
	if n.Cmp(min) < 0 || n.Cmp(max) >= 0 {
		return errors.Wrapf(ErrOutOfRange, "%s does not fit %s", n, t.String())
	}
	return nil
}

func assign(dst, src reflect.Value) error {
	switch {
	case src.Type().AssignableTo(dst.Type()):
		dst.Set(src)
	case src.Type().ConvertibleTo(dst.Type()):
		dst.Set(src.Convert(dst.Type()))
	default:
		return errors.Errorf("cannot use %s as %s", src.Type(), dst.Type())
	}
	return nil
}
