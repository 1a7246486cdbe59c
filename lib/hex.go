package lib

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Hexstring formats n as 0x-prefixed hex without leading zeros.
func Hexstring(n *big.Int) string {
	if n == nil {
		return "0x0"
	}
	return "0x" + n.Text(16)
}

// HexstringPad left-pads the digits of a 0x-prefixed hex string with zeros to width characters.
func HexstringPad(s string, width int) string {
	digits := strings.TrimPrefix(s, "0x")
	if len(digits) >= width {
		return "0x" + digits
	}
	return "0x" + strings.Repeat("0", width-len(digits)) + digits
}

// UintTopic encodes an indexed unsigned integer. Negative values and values wider than a topic are rejected.
func UintTopic(n *big.Int) (common.Hash, error) {
	if n == nil || n.Sign() < 0 || n.BitLen() > 8*common.HashLength {
		return common.Hash{}, errors.Wrapf(ErrOutOfRange, "%v is not a valid uint topic", n)
	}
	return common.HexToHash(HexstringPad(Hexstring(n), 2*common.HashLength)), nil
}

// AddressTopic encodes an indexed address.
func AddressTopic(a common.Address) common.Hash {
	return common.HexToHash(HexstringPad(a.Hex(), 2*common.HashLength))
}

// Topics encodes the accepted values for one topic position. No values matches any topic.
func Topics[T any](values []T, encode func(T) (common.Hash, error)) ([]common.Hash, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]common.Hash, len(values))
	for i, v := range values {
		topic, err := encode(v)
		if err != nil {
			return nil, err
		}
		out[i] = topic
	}
	return out, nil
}
