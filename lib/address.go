package lib

import (
	"github.com/ethereum/go-ethereum/common"
)

// HasAddress is anything that can stand in for an address argument: literal addresses through
// Address, contract bindings, or any type of the caller's own.
type HasAddress interface {
	Address() common.Address
}

// Address adapts a literal address to HasAddress.
type Address common.Address

func (a Address) Address() common.Address {
	return common.Address(a)
}

// HexAddress parses a hex string into an Address.
func HexAddress(s string) Address {
	return Address(common.HexToAddress(s))
}
