package lib

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testChainID = big.NewInt(1337)

func newTransactor(t *testing.T) *bind.TransactOpts {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	opts, err := bind.NewKeyedTransactorWithChainID(key, testChainID)
	require.NoError(t, err)
	return opts
}

func newTestContract(t *testing.T) (*Contract, *Interceptor, *bind.TransactOpts) {
	i, err := NewInterceptor(testMetaData)
	require.NoError(t, err)
	auth := newTransactor(t)
	contract, err := NewContract(common.HexToAddress("0x1000"), testMetaData, NewSigningBackend(i, auth))
	require.NoError(t, err)
	return contract, i, auth
}

func selector(t *testing.T, method string) []byte {
	parsed, err := testMetaData.GetAbi()
	require.NoError(t, err)
	return parsed.Methods[method].ID
}

func TestEncode(t *testing.T) {
	data, err := Encode(testMetaData, "transfer", bob, big.NewInt(7))
	require.NoError(t, err)

	parsed, err := testMetaData.GetAbi()
	require.NoError(t, err)
	expected, err := parsed.Pack("transfer", bob, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, expected, data)

	_, err = Encode(testMetaData, "transfer", "not an address", big.NewInt(7))
	assert.Error(t, err)
}

func TestEncodeNarrowing(t *testing.T) {
	data, err := Encode(testMetaData, "setLimit", big.NewInt(1<<32-1))
	require.NoError(t, err)
	parsed, err := testMetaData.GetAbi()
	require.NoError(t, err)
	expected, err := parsed.Pack("setLimit", uint32(1<<32-1))
	require.NoError(t, err)
	assert.Equal(t, expected, data)

	_, err = Encode(testMetaData, "setLimit", big.NewInt(1<<32+5))
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = Encode(testMetaData, "setLimit", big.NewInt(-1))
	assert.ErrorIs(t, err, ErrOutOfRange)

	// uint256 is packed from *big.Int as is, but negative values would wrap
	_, err = Encode(testMetaData, "transfer", bob, big.NewInt(-7))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestCallStaticOutOfRange(t *testing.T) {
	contract, i, _ := newTestContract(t)

	_, err := contract.CallStatic(nil, "setLimit", big.NewInt(1<<32))
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Empty(t, i.Calls())
}

func TestCallNarrowing(t *testing.T) {
	contract, i, _ := newTestContract(t)

	_, err := contract.Call(nil, "setLimit", big.NewInt(7))
	require.NoError(t, err)
	calls := i.Calls()
	last := calls[len(calls)-1]
	require.Equal(t, SentTransaction, last.Kind)
	parsed, err := testMetaData.GetAbi()
	require.NoError(t, err)
	expected, err := parsed.Pack("setLimit", uint32(7))
	require.NoError(t, err)
	assert.Equal(t, expected, last.Data)

	_, err = contract.SendTransaction(nil, "setLimit", big.NewInt(1<<32))
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Len(t, i.Calls(), len(calls))
}

func TestCallStatic(t *testing.T) {
	contract, i, auth := newTestContract(t)

	parsed, err := testMetaData.GetAbi()
	require.NoError(t, err)
	output, err := parsed.Methods["balanceOf"].Outputs.Pack(big.NewInt(42))
	require.NoError(t, err)
	i.SetResult(selector(t, "balanceOf"), output)

	var calls []*Call
	err = i.Intercept(&calls, func() error {
		values, err := contract.CallStatic(nil, "balanceOf", alice)
		if err != nil {
			return err
		}
		assert.Equal(t, big.NewInt(42), Output[*big.Int](values, 0))

		_, err = contract.CallStatic(&CallOptions{From: &bob}, "balanceOf", alice)
		return err
	})
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Equal(t, "balanceOf", calls[0].Method)
	assert.Equal(t, StaticCall, calls[0].Kind)
	assert.Equal(t, auth.From, calls[0].From)
	assert.Equal(t, bob, calls[1].From)
}

func TestCallStaticIntercepted(t *testing.T) {
	contract, _, _ := newTestContract(t)

	_, err := contract.CallStatic(nil, "balanceOf", alice)
	assert.True(t, errors.Is(err, ErrIntercepted))
}

func TestCallStaticRevert(t *testing.T) {
	contract, i, _ := newTestContract(t)

	data, err := EncodeError(&insufficientBalance{Available: big.NewInt(1), Required: big.NewInt(2)})
	require.NoError(t, err)
	i.SetError(selector(t, "balanceOf"), &dataError{data: hexutil.Encode(data)})

	_, err = contract.CallStatic(nil, "balanceOf", alice)
	var ib *insufficientBalance
	require.True(t, errors.As(err, &ib))
	assert.Equal(t, big.NewInt(2), ib.Required)
}

func TestPopulateTransaction(t *testing.T) {
	contract, _, _ := newTestContract(t)

	tx, err := contract.PopulateTransaction(nil, "transfer", bob, big.NewInt(1))
	require.NoError(t, err)
	assert.Nil(t, tx.From)
	require.NotNil(t, tx.To)
	assert.Equal(t, contract.Address(), *tx.To)

	tx, err = contract.PopulateTransaction(&CallOptions{From: &alice, GasLimit: 50000}, "transfer", bob, big.NewInt(1))
	require.NoError(t, err)
	require.NotNil(t, tx.From)
	assert.Equal(t, alice, *tx.From)
	assert.Equal(t, uint64(50000), tx.GasLimit)
}

func TestEstimateGas(t *testing.T) {
	contract, i, _ := newTestContract(t)
	i.Gas = 31337

	gas, err := contract.EstimateGas(nil, "transfer", bob, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(31337), gas)
}

func TestCall(t *testing.T) {
	contract, i, auth := newTestContract(t)
	i.AddLogs(transferLog(t, auth.From, bob, 1))

	tx, err := contract.Call(nil, "transfer", bob, big.NewInt(1))
	require.NoError(t, err)
	require.Len(t, tx.Events, 1)
	assert.Equal(t, "Transfer(address,address,uint256)", tx.Events[0].Signature())
	assert.Equal(t, tx.Hash, tx.Receipt.TxHash)

	hash, err := contract.SendTransaction(nil, "transfer", bob, big.NewInt(1))
	require.NoError(t, err)
	assert.NotEqual(t, tx.Hash, hash)

	calls := i.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, SentTransaction, last.Kind)
	assert.Equal(t, auth.From, last.From)
	assert.Equal(t, uint64(1), last.Transaction.Nonce())
}

func TestCallWithoutSigner(t *testing.T) {
	i, err := NewInterceptor(testMetaData)
	require.NoError(t, err)
	contract, err := NewContract(common.HexToAddress("0x1000"), testMetaData, i)
	require.NoError(t, err)

	_, err = contract.Call(nil, "transfer", bob, big.NewInt(1))
	assert.Equal(t, ErrNoSigner, err)

	_, err = contract.Call(&CallOptions{From: &alice, Signer: newTransactor(t).Signer}, "transfer", bob, big.NewInt(1))
	assert.Error(t, err, "the signer does not match the sender")
}

func TestCallReverted(t *testing.T) {
	contract, i, _ := newTestContract(t)

	data, err := EncodeError(&DefaultError{Reason: "paused"})
	require.NoError(t, err)
	i.SetError(selector(t, "transfer"), &dataError{data: hexutil.Encode(data)})

	// The failed estimate gives the reason away
	_, err = contract.Call(nil, "transfer", bob, big.NewInt(1))
	assert.Equal(t, &DefaultError{Reason: "paused"}, err)

	// With a gas limit the transaction is mined and replayed
	tx, err := contract.Call(&CallOptions{GasLimit: 100000}, "transfer", bob, big.NewInt(1))
	assert.Equal(t, &DefaultError{Reason: "paused"}, err)
	require.NotNil(t, tx)
	assert.Equal(t, uint64(0), tx.Receipt.Status)
}

func TestLinkBytecode(t *testing.T) {
	placeholder := hexutil.Encode(crypto.Keccak256([]byte("contracts/Math.sol:Math")))[2:36]
	bin := "0x6080__$" + placeholder + "$__6040"

	_, err := LinkBytecode(bin, nil)
	assert.Error(t, err)

	library := common.HexToAddress("0x00000000000000000000000000000000000000aB")
	code, err := LinkBytecode(bin, map[string]common.Address{placeholder: library})
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{0x60, 0x80}, library.Bytes()...), 0x60, 0x40), code)
}

func TestDeploy(t *testing.T) {
	i, err := NewInterceptor(testMetaData)
	require.NoError(t, err)
	auth := newTransactor(t)
	backend := NewSigningBackend(i, auth)

	contract, err := Deploy(backend, testMetaData, nil, nil, big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, crypto.CreateAddress(auth.From, 0), contract.Address())

	code, err := DeployStatic(backend, testMetaData, nil, nil, big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, i.Code, code)

	tx, err := DeployPopulateTransaction(testMetaData, nil, nil, big.NewInt(1000))
	require.NoError(t, err)
	assert.Nil(t, tx.To)
	assert.Nil(t, tx.From)

	_, err = Deploy(backend, &MetaData{ABI: testABI}, nil, nil, big.NewInt(1000))
	assert.Equal(t, ErrNotDeployable, err)
}
