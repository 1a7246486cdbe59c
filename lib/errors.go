package lib

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

var (
	ErrNoReason          = errors.New("execution reverted without a reason")
	ErrOutOfGas          = errors.New("out of gas")
	ErrNoSigner          = errors.New("no signer for the transaction")
	ErrUnknownEvent      = errors.New("unknown event")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrNotDeployable     = errors.New("contract has no bytecode")
	ErrOutOfRange        = errors.New("integer out of range")
)

const (
	revertSig = "Error(string)"
	panicSig  = "Panic(uint256)"
)

// ContractError is a revert decoded into a registered error type.
type ContractError interface {
	error
	Sig() string
}

// DefaultError is a revert with a reason string but no custom error type.
type DefaultError struct {
	Reason string
}

func (e *DefaultError) Error() string {
	return "execution reverted: " + e.Reason
}

func (e *DefaultError) Sig() string {
	return revertSig
}

// PanicError is a failed assertion, arithmetic fault or similar, see the Solidity docs for codes.
type PanicError struct {
	Code *big.Int
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("execution panicked with code %s", Hexstring(e.Code))
}

func (e *PanicError) Sig() string {
	return panicSig
}

// UnknownError is a revert whose data matches no registered error.
type UnknownError struct {
	Data []byte
}

func (e *UnknownError) Error() string {
	return "execution reverted with unrecognized data " + hexutil.Encode(e.Data)
}

// TransportError is a failure to reach or talk to the node.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type errorRegistration struct {
	sig      string
	selector [4]byte
	args     abi.Arguments
	decode   func(values []interface{}) error
	encode   func(err error) ([]interface{}, bool)
}

var errorRegistry = struct {
	sync.RWMutex
	bySelector map[[4]byte]*errorRegistration
	bySig      map[string]*errorRegistration
}{
	bySelector: make(map[[4]byte]*errorRegistration),
	bySig:      make(map[string]*errorRegistration),
}

func init() {
	RegisterError(revertSig, func(values []interface{}) error {
		return &DefaultError{Reason: Output[string](values, 0)}
	}, func(err error) ([]interface{}, bool) {
		e, ok := err.(*DefaultError)
		if !ok {
			return nil, false
		}
		return []interface{}{e.Reason}, true
	})
	RegisterError(panicSig, func(values []interface{}) error {
		return &PanicError{Code: Output[*big.Int](values, 0)}
	}, func(err error) ([]interface{}, bool) {
		e, ok := err.(*PanicError)
		if !ok {
			return nil, false
		}
		return []interface{}{e.Code}, true
	})
}

// RegisterError makes reverts carrying sig decode through decode, and EncodeError encode through encode.
// The first registration of a signature wins. It panics if sig cannot be parsed.
func RegisterError(sig string, decode func(values []interface{}) error, encode func(err error) ([]interface{}, bool)) {
	selector, err := abi.ParseSelector(sig)
	if err != nil {
		panic(fmt.Sprintf("abi2go: invalid error signature %q: %v", sig, err))
	}

	args := make(abi.Arguments, 0, len(selector.Inputs))
	for _, input := range selector.Inputs {
		t, err := abi.NewType(input.Type, input.InternalType, input.Components)
		if err != nil {
			panic(fmt.Sprintf("abi2go: invalid error signature %q: %v", sig, err))
		}
		args = append(args, abi.Argument{Name: input.Name, Type: t})
	}

	reg := &errorRegistration{
		sig:    sig,
		args:   args,
		decode: decode,
		encode: encode,
	}
	copy(reg.selector[:], crypto.Keccak256([]byte(sig))[:4])

	errorRegistry.Lock()
	defer errorRegistry.Unlock()
	if _, ok := errorRegistry.bySig[sig]; ok {
		return
	}
	errorRegistry.bySig[sig] = reg
	errorRegistry.bySelector[reg.selector] = reg
}

// DecodeErrorData turns the data of a revert into the error it encodes.
func DecodeErrorData(data []byte) error {
	if len(data) == 0 {
		return ErrNoReason
	}
	if len(data) < 4 {
		return &UnknownError{Data: data}
	}

	var selector [4]byte
	copy(selector[:], data[:4])
	errorRegistry.RLock()
	reg, ok := errorRegistry.bySelector[selector]
	errorRegistry.RUnlock()
	if !ok {
		return &UnknownError{Data: data}
	}

	values, err := reg.args.Unpack(data[4:])
	if err != nil {
		log.WithError(err).WithField("sig", reg.sig).Warn("could not unpack revert data")
		return &UnknownError{Data: data}
	}
	return reg.decode(values)
}

// EncodeError is the inverse of DecodeErrorData for registered errors.
func EncodeError(err error) ([]byte, error) {
	var ce ContractError
	if !errors.As(err, &ce) {
		return nil, errors.Errorf("%v is not a contract error", err)
	}

	errorRegistry.RLock()
	reg, ok := errorRegistry.bySig[ce.Sig()]
	errorRegistry.RUnlock()
	if !ok {
		return nil, errors.Errorf("error %s is not registered", ce.Sig())
	}

	values, ok := reg.encode(ce)
	if !ok {
		return nil, errors.Errorf("error %s was registered by a different type", ce.Sig())
	}
	wired, err := wire(reg.args, values)
	if err != nil {
		return nil, errors.Wrapf(err, "packing %s", ce.Sig())
	}
	packed, err := reg.args.Pack(wired...)
	if err != nil {
		return nil, errors.Wrapf(err, "packing %s", ce.Sig())
	}
	return append(reg.selector[:], packed...), nil
}

// ErrorSig returns the signature of the contract error in err's chain.
func ErrorSig(err error) (string, bool) {
	var ce ContractError
	if !errors.As(err, &ce) {
		return "", false
	}
	return ce.Sig(), true
}

// DecodeError classifies an error returned by a backend. Reverts with data become registered errors,
// DefaultError, PanicError or UnknownError, reverts without data ErrNoReason, exhausted gas
// ErrOutOfGas and anything else a TransportError.
func DecodeError(err error) error {
	if err == nil {
		return nil
	}

	var ce ContractError
	var te *TransportError
	if errors.As(err, &ce) || errors.As(err, &te) {
		return err
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := revertData(dataErr.ErrorData()); ok {
			return DecodeErrorData(data)
		}
	}

	msg := err.Error()
	switch {
	case errors.Is(err, vm.ErrOutOfGas), strings.Contains(msg, "out of gas"), strings.Contains(msg, "gas required exceeds allowance"):
		return errors.Wrap(ErrOutOfGas, msg)
	case errors.Is(err, vm.ErrExecutionReverted), strings.Contains(msg, "execution reverted"):
		return errors.Wrap(ErrNoReason, msg)
	}
	return &TransportError{Err: err}
}

func revertData(v interface{}) ([]byte, bool) {
	switch data := v.(type) {
	case string:
		b, err := hexutil.Decode(data)
		if err != nil {
			return nil, false
		}
		return b, true
	case []byte:
		return data, true
	case hexutil.Bytes:
		return data, true
	}
	return nil, false
}
