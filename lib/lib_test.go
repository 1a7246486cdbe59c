package lib

import (
	"fmt"
	"math/big"
)

const testABI = `[
	{"type":"constructor","inputs":[{"name":"supply","type":"uint256","internalType":"uint256"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"balanceOf","inputs":[{"name":"owner","type":"address","internalType":"address"}],"outputs":[{"name":"","type":"uint256","internalType":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address","internalType":"address"},{"name":"amount","type":"uint256","internalType":"uint256"}],"outputs":[{"name":"","type":"bool","internalType":"bool"}],"stateMutability":"nonpayable"},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true,"internalType":"address"},{"name":"to","type":"address","indexed":true,"internalType":"address"},{"name":"value","type":"uint256","indexed":false,"internalType":"uint256"}]},
	{"type":"function","name":"setLimit","inputs":[{"name":"limit","type":"uint32","internalType":"uint32"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"event","name":"Debug","anonymous":true,"inputs":[{"name":"tag","type":"string","indexed":true,"internalType":"string"},{"name":"code","type":"uint16","indexed":false,"internalType":"uint16"}]},
	{"type":"event","name":"Named","anonymous":false,"inputs":[{"name":"label","type":"string","indexed":true,"internalType":"string"},{"name":"flag","type":"bool","indexed":true,"internalType":"bool"}]},
	{"type":"error","name":"InsufficientBalance","inputs":[{"name":"available","type":"uint256","internalType":"uint256"},{"name":"required","type":"uint256","internalType":"uint256"}]}
]`

var testMetaData = &MetaData{
	ABI: testABI,
	Bin: "0x6080604052348015600f57600080fd5b50",
}

const insufficientBalanceSig = "InsufficientBalance(uint256,uint256)"

type insufficientBalance struct {
	Available *big.Int
	Required  *big.Int
}

func (e *insufficientBalance) Error() string {
	return fmt.Sprintf("InsufficientBalance(%v, %v)", e.Available, e.Required)
}

func (e *insufficientBalance) Sig() string {
	return insufficientBalanceSig
}

type transferEvent struct {
	ContractEvent
}

func init() {
	RegisterError(insufficientBalanceSig, func(values []interface{}) error {
		return &insufficientBalance{
			Available: Output[*big.Int](values, 0),
			Required:  Output[*big.Int](values, 1),
		}
	}, func(err error) ([]interface{}, bool) {
		e, ok := err.(*insufficientBalance)
		if !ok {
			return nil, false
		}
		return []interface{}{e.Available, e.Required}, true
	})

	RegisterEvent(testMetaData, "Transfer", func(ev ContractEvent) Event {
		return &transferEvent{ContractEvent: ev}
	})
}

// A backend error carrying revert data, like the ones go-ethereum's rpc client returns
type dataError struct {
	data interface{}
}

func (e *dataError) Error() string {
	return "execution reverted"
}

func (e *dataError) ErrorData() interface{} {
	return e.data
}
