package lib

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// ErrIntercepted answers static calls the Interceptor has no result for.
var ErrIntercepted = errors.New("call intercepted")

type CallKind int

const (
	StaticCall CallKind = iota
	GasEstimate
	SentTransaction
)

// Call is one request a binding made of an Interceptor.
type Call struct {
	Kind CallKind
	From common.Address

	// Nil for deployments
	Address *common.Address

	// Empty if no ABI passed to NewInterceptor knows the selector
	Method string

	Data        []byte
	Value       *big.Int
	Transaction *types.Transaction
}

type ABIMetaData interface {
	GetAbi() (*abi.ABI, error)
}

// An Interceptor is a Backend that never reaches a node. Bindings on top of it encode their
// calls as usual, and the Interceptor records them instead of executing them. Static calls and
// estimates are answered from canned results, transactions are "mined" immediately.
type Interceptor struct {
	abis []*abi.ABI

	// Serializes Intercept
	intercept sync.Mutex

	lock     sync.Mutex
	out      *[]*Call
	calls    []*Call
	results  map[[4]byte][]byte
	failures map[[4]byte]error
	logs     []*types.Log
	receipts map[common.Hash]*types.Receipt
	nonces   map[common.Address]uint64
	block    int64

	// Runtime code reported for every address
	Code []byte

	// Answer to every gas estimate
	Gas uint64
}

// NewInterceptor creates an Interceptor. Methods of the ABIs in md are named in recorded calls.
func NewInterceptor(md ...ABIMetaData) (*Interceptor, error) {
	out := &Interceptor{
		results:  make(map[[4]byte][]byte),
		failures: make(map[[4]byte]error),
		receipts: make(map[common.Hash]*types.Receipt),
		nonces:   make(map[common.Address]uint64),
		Code:     []byte{0x60, 0x80, 0x60, 0x40},
		Gas:      100000,
	}
	for _, m := range md {
		parsed, err := m.GetAbi()
		if err != nil {
			return nil, err
		}
		out.abis = append(out.abis, parsed)
	}
	return out, nil
}

func selectorOf(data []byte) (out [4]byte) {
	copy(out[:], data)
	return
}

// SetResult answers static calls whose data starts with selector.
func (i *Interceptor) SetResult(selector []byte, output []byte) {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.results[selectorOf(selector)] = output
}

// SetError fails static calls and estimates whose data starts with selector.
func (i *Interceptor) SetError(selector []byte, err error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.failures[selectorOf(selector)] = err
}

// AddLogs attaches logs to the receipt of the next transaction.
func (i *Interceptor) AddLogs(logs ...*types.Log) {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.logs = append(i.logs, logs...)
}

// Calls returns everything recorded so far.
func (i *Interceptor) Calls() []*Call {
	i.lock.Lock()
	defer i.lock.Unlock()
	return append([]*Call(nil), i.calls...)
}

// Intercept collects the calls cb makes into out.
func (i *Interceptor) Intercept(out *[]*Call, cb func() error) error {
	i.intercept.Lock()
	defer i.intercept.Unlock()

	i.lock.Lock()
	i.out = out
	i.lock.Unlock()

	defer func() {
		i.lock.Lock()
		i.out = nil
		i.lock.Unlock()
	}()
	return cb()
}

// Must hold the lock
func (i *Interceptor) record(call *Call) {
	if len(call.Data) >= 4 {
		for _, a := range i.abis {
			if method, err := a.MethodById(call.Data); err == nil {
				call.Method = method.Name
				break
			}
		}
	}
	i.calls = append(i.calls, call)
	if i.out != nil {
		*i.out = append(*i.out, call)
	}
}

func (i *Interceptor) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	i.record(&Call{Kind: StaticCall, From: call.From, Address: call.To, Data: call.Data, Value: call.Value})

	// Deployments return the code they install
	if call.To == nil {
		return i.Code, nil
	}

	selector := selectorOf(call.Data)
	if err, ok := i.failures[selector]; ok {
		return nil, err
	}
	if result, ok := i.results[selector]; ok {
		return result, nil
	}
	return nil, ErrIntercepted
}

func (i *Interceptor) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	i.record(&Call{Kind: GasEstimate, From: call.From, Address: call.To, Data: call.Data, Value: call.Value})
	if call.To != nil {
		if err, ok := i.failures[selectorOf(call.Data)]; ok {
			return 0, err
		}
	}
	return i.Gas, nil
}

func (i *Interceptor) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return err
	}

	i.lock.Lock()
	defer i.lock.Unlock()

	i.record(&Call{Kind: SentTransaction, From: from, Address: tx.To(), Data: tx.Data(), Value: tx.Value(), Transaction: tx})
	i.nonces[from] = tx.Nonce() + 1
	i.block++

	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      tx.Hash(),
		GasUsed:     tx.Gas(),
		BlockNumber: big.NewInt(i.block),
	}
	if tx.To() == nil {
		receipt.ContractAddress = crypto.CreateAddress(from, tx.Nonce())
	} else if _, ok := i.failures[selectorOf(tx.Data())]; ok {
		receipt.Status = types.ReceiptStatusFailed
	}
	for idx, l := range i.logs {
		l.TxHash = tx.Hash()
		l.Index = uint(idx)
		l.BlockNumber = uint64(i.block)
		receipt.Logs = append(receipt.Logs, l)
	}
	i.logs = nil
	i.receipts[tx.Hash()] = receipt
	return nil
}

func (i *Interceptor) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	receipt, ok := i.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (i *Interceptor) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return i.Code, nil
}

func (i *Interceptor) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return i.Code, nil
}

func (i *Interceptor) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.nonces[account], nil
}

func (i *Interceptor) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	// No base fee, so bindings send legacy transactions
	return &types.Header{Number: big.NewInt(i.block)}, nil
}

func (i *Interceptor) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (i *Interceptor) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

// FilterLogs returns the logs of every receipt that match q's addresses and topics. Block ranges are ignored.
func (i *Interceptor) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	var out []types.Log
	for _, call := range i.calls {
		if call.Transaction == nil {
			continue
		}
		for _, l := range i.receipts[call.Transaction.Hash()].Logs {
			if matches(l, q) {
				out = append(out, *l)
			}
		}
	}
	return out, nil
}

func (i *Interceptor) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("the interceptor does not support subscriptions")
}

func matches(l *types.Log, q ethereum.FilterQuery) bool {
	if len(q.Addresses) > 0 {
		found := false
		for _, a := range q.Addresses {
			found = found || a == l.Address
		}
		if !found {
			return false
		}
	}
	if len(q.Topics) > len(l.Topics) {
		return false
	}
	for pos, accepted := range q.Topics {
		if len(accepted) == 0 {
			continue
		}
		found := false
		for _, t := range accepted {
			found = found || t == l.Topics[pos]
		}
		if !found {
			return false
		}
	}
	return true
}
