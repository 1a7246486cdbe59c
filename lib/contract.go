package lib

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "lib")

// MetaData is the ABI and bytecode of a contract, parsed on first use.
type MetaData = bind.MetaData

// Backend is everything a binding needs from a node.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Transactor is implemented by backends that carry a default signer.
type Transactor interface {
	Transactor() *bind.TransactOpts
}

type signingBackend struct {
	Backend
	opts *bind.TransactOpts
}

func (b *signingBackend) Transactor() *bind.TransactOpts {
	return b.opts
}

// NewSigningBackend attaches a default sender and signer to backend.
func NewSigningBackend(backend Backend, opts *bind.TransactOpts) Backend {
	return &signingBackend{Backend: backend, opts: opts}
}

// CallOptions tune a single call. A nil *CallOptions uses the defaults.
type CallOptions struct {
	Context context.Context

	// Overrides the backend's default sender
	From *common.Address

	// Overrides the backend's default signer
	Signer bind.SignerFn

	// Zero estimates the gas limit
	GasLimit uint64

	Value *big.Int

	// Block to run static calls against, nil for the latest
	BlockNumber *big.Int
}

func (o *CallOptions) context() context.Context {
	if o == nil || o.Context == nil {
		return context.Background()
	}
	return o.Context
}

func (o *CallOptions) blockNumber() *big.Int {
	if o == nil {
		return nil
	}
	return o.BlockNumber
}

// The sender of calls made with opts: the override, else the backend's default, else the zero address
func sender(backend Backend, opts *CallOptions) common.Address {
	if opts != nil && opts.From != nil {
		return *opts.From
	}
	if t, ok := backend.(Transactor); ok && t.Transactor() != nil {
		return t.Transactor().From
	}
	return common.Address{}
}

func transactOpts(backend Backend, opts *CallOptions) (*bind.TransactOpts, error) {
	out := &bind.TransactOpts{Context: opts.context()}
	if t, ok := backend.(Transactor); ok && t.Transactor() != nil {
		base := t.Transactor()
		out.From = base.From
		out.Signer = base.Signer
		out.GasPrice = base.GasPrice
		out.GasFeeCap = base.GasFeeCap
		out.GasTipCap = base.GasTipCap
		out.GasLimit = base.GasLimit
	}
	if opts != nil {
		if opts.From != nil {
			out.From = *opts.From
		}
		if opts.Signer != nil {
			out.Signer = opts.Signer
		}
		if opts.GasLimit != 0 {
			out.GasLimit = opts.GasLimit
		}
		out.Value = opts.Value
	}
	if out.Signer == nil {
		return nil, ErrNoSigner
	}
	return out, nil
}

// Fill in the gas limit ourselves, go-ethereum drops the revert data of a failed estimate
func estimate(backend Backend, t *bind.TransactOpts, to *common.Address, data []byte) error {
	if t.GasLimit != 0 {
		return nil
	}
	gas, err := backend.EstimateGas(t.Context, ethereum.CallMsg{
		From:  t.From,
		To:    to,
		Value: t.Value,
		Data:  data,
	})
	if err != nil {
		return DecodeError(err)
	}
	t.GasLimit = gas
	return nil
}

// UnsignedTransaction is a transaction that has been built but not signed or sent.
type UnsignedTransaction struct {
	// Set only when the sender was overridden
	From *common.Address

	// Nil for deployments
	To       *common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64
}

func populate(to *common.Address, data []byte, opts *CallOptions) *UnsignedTransaction {
	out := &UnsignedTransaction{To: to, Data: data}
	if opts != nil {
		out.From = opts.From
		out.Value = opts.Value
		out.GasLimit = opts.GasLimit
	}
	return out
}

// Transaction is a mined transaction and the registered events it emitted.
type Transaction struct {
	Hash    common.Hash
	Receipt *types.Receipt
	Events  []Event
}

// Contract is the binding-independent half of a generated contract binding.
type Contract struct {
	address common.Address
	abi     *abi.ABI
	backend Backend
	bound   *bind.BoundContract
}

func NewContract(address common.Address, md *MetaData, backend Backend) (*Contract, error) {
	parsed, err := md.GetAbi()
	if err != nil {
		return nil, errors.Wrap(err, "parsing abi")
	}
	return &Contract{
		address: address,
		abi:     parsed,
		backend: backend,
		bound:   bind.NewBoundContract(address, *parsed, backend, backend, backend),
	}, nil
}

func (c *Contract) Address() common.Address {
	return c.address
}

func (c *Contract) ABI() *abi.ABI {
	return c.abi
}

func (c *Contract) Backend() Backend {
	return c.backend
}

func (c *Contract) pack(method string, args ...interface{}) ([]byte, error) {
	data, err := pack(c.abi, method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "packing %s", method)
	}
	return data, nil
}

func (c *Contract) callMsg(opts *CallOptions, data []byte) ethereum.CallMsg {
	msg := ethereum.CallMsg{
		From: sender(c.backend, opts),
		To:   &c.address,
		Data: data,
	}
	if opts != nil {
		msg.Gas = opts.GasLimit
		msg.Value = opts.Value
	}
	return msg
}

// CallStatic runs method without sending a transaction and returns its unpacked outputs.
func (c *Contract) CallStatic(opts *CallOptions, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.pack(method, args...)
	if err != nil {
		return nil, err
	}

	ctx := opts.context()
	output, err := c.backend.CallContract(ctx, c.callMsg(opts, data), opts.blockNumber())
	if err != nil {
		return nil, DecodeError(err)
	}

	if len(output) == 0 && len(c.abi.Methods[method].Outputs) > 0 {
		// Tell a missing contract apart from a malformed answer
		code, err := c.backend.CodeAt(ctx, c.address, opts.blockNumber())
		if err != nil {
			return nil, &TransportError{Err: err}
		}
		if len(code) == 0 {
			return nil, bind.ErrNoCode
		}
	}

	values, err := c.abi.Unpack(method, output)
	if err != nil {
		return nil, errors.Wrapf(err, "unpacking %s", method)
	}
	return values, nil
}

func (c *Contract) transact(opts *CallOptions, method string, args ...interface{}) (*types.Transaction, *bind.TransactOpts, error) {
	data, err := c.pack(method, args...)
	if err != nil {
		return nil, nil, err
	}
	t, err := transactOpts(c.backend, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := estimate(c.backend, t, &c.address, data); err != nil {
		return nil, nil, err
	}
	tx, err := c.bound.RawTransact(t, data)
	if err != nil {
		return nil, nil, DecodeError(err)
	}
	log.WithFields(logrus.Fields{
		"contract": c.address.Hex(),
		"method":   method,
		"tx":       tx.Hash().Hex(),
	}).Debug("sent transaction")
	return tx, t, nil
}

// SendTransaction sends a transaction calling method and returns without waiting for it.
func (c *Contract) SendTransaction(opts *CallOptions, method string, args ...interface{}) (common.Hash, error) {
	tx, _, err := c.transact(opts, method, args...)
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

// Call sends a transaction calling method and waits until it is mined. If it failed, the call is
// replayed to find out why.
func (c *Contract) Call(opts *CallOptions, method string, args ...interface{}) (*Transaction, error) {
	tx, t, err := c.transact(opts, method, args...)
	if err != nil {
		return nil, err
	}
	return wait(t.Context, c.backend, tx, t.From)
}

func (c *Contract) PopulateTransaction(opts *CallOptions, method string, args ...interface{}) (*UnsignedTransaction, error) {
	data, err := c.pack(method, args...)
	if err != nil {
		return nil, err
	}
	to := c.address
	return populate(&to, data, opts), nil
}

func (c *Contract) EstimateGas(opts *CallOptions, method string, args ...interface{}) (uint64, error) {
	data, err := c.pack(method, args...)
	if err != nil {
		return 0, err
	}
	gas, err := c.backend.EstimateGas(opts.context(), c.callMsg(opts, data))
	if err != nil {
		return 0, DecodeError(err)
	}
	return gas, nil
}

// Encode packs the call data of method without needing a contract or backend.
func Encode(md *MetaData, method string, args ...interface{}) ([]byte, error) {
	parsed, err := md.GetAbi()
	if err != nil {
		return nil, errors.Wrap(err, "parsing abi")
	}
	data, err := pack(parsed, method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "packing %s", method)
	}
	return data, nil
}

func wait(ctx context.Context, backend Backend, tx *types.Transaction, from common.Address) (*Transaction, error) {
	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	out := &Transaction{Hash: tx.Hash(), Receipt: receipt}
	for _, l := range receipt.Logs {
		ev, err := DecodeLog(*l)
		if errors.Is(err, ErrUnknownEvent) {
			continue
		}
		if err != nil {
			return out, err
		}
		out.Events = append(out.Events, ev)
	}

	if receipt.Status == types.ReceiptStatusFailed {
		_, err := backend.CallContract(ctx, ethereum.CallMsg{
			From:  from,
			To:    tx.To(),
			Gas:   tx.Gas(),
			Value: tx.Value(),
			Data:  tx.Data(),
		}, receipt.BlockNumber)
		if err != nil {
			return out, DecodeError(err)
		}
		return out, ErrTransactionFailed
	}
	return out, nil
}
