package lib

import (
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// LinkBytecode substitutes library addresses for their placeholders. links is keyed by the 34 hex
// character placeholder, without the surrounding __$ and $__.
func LinkBytecode(bin string, links map[string]common.Address) ([]byte, error) {
	code := strings.TrimPrefix(bin, "0x")
	for placeholder, address := range links {
		code = strings.ReplaceAll(code, "__$"+placeholder+"$__", strings.ToLower(address.Hex()[2:]))
	}
	if i := strings.Index(code, "__$"); i >= 0 {
		end := i + 40
		if end > len(code) {
			end = len(code)
		}
		return nil, errors.Errorf("bytecode references an unlinked library %s", code[i:end])
	}

	out, err := hexutil.Decode("0x" + code)
	if err != nil {
		return nil, errors.Wrap(err, "decoding bytecode")
	}
	return out, nil
}

type deployment struct {
	data []byte // code followed by the packed constructor arguments
}

func prepareDeployment(md *MetaData, links map[string]common.Address, args ...interface{}) (*deployment, error) {
	if md.Bin == "" {
		return nil, ErrNotDeployable
	}
	parsed, err := md.GetAbi()
	if err != nil {
		return nil, errors.Wrap(err, "parsing abi")
	}
	code, err := LinkBytecode(md.Bin, links)
	if err != nil {
		return nil, err
	}
	input, err := pack(parsed, "", args...)
	if err != nil {
		return nil, errors.Wrap(err, "packing constructor arguments")
	}

	return &deployment{data: append(append([]byte(nil), code...), input...)}, nil
}

func sendDeployment(backend Backend, md *MetaData, links map[string]common.Address, opts *CallOptions, args ...interface{}) (*types.Transaction, error) {
	d, err := prepareDeployment(md, links, args...)
	if err != nil {
		return nil, err
	}
	t, err := transactOpts(backend, opts)
	if err != nil {
		return nil, err
	}
	if err := estimate(backend, t, nil, d.data); err != nil {
		return nil, err
	}

	// The constructor arguments are already packed onto the code
	_, tx, _, err := bind.DeployContract(t, abi.ABI{}, d.data, backend)
	if err != nil {
		return nil, DecodeError(err)
	}
	return tx, nil
}

// Deploy deploys a contract and waits until it is mined.
func Deploy(backend Backend, md *MetaData, links map[string]common.Address, opts *CallOptions, args ...interface{}) (*Contract, error) {
	tx, err := sendDeployment(backend, md, links, opts, args...)
	if err != nil {
		return nil, err
	}
	address, err := bind.WaitDeployed(opts.context(), backend, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "waiting for deployment %s", tx.Hash().Hex())
	}
	log.WithField("address", address.Hex()).Debug("deployed contract")
	return NewContract(address, md, backend)
}

// DeploySendTransaction sends a deployment and returns without waiting for it.
func DeploySendTransaction(backend Backend, md *MetaData, links map[string]common.Address, opts *CallOptions, args ...interface{}) (common.Hash, error) {
	tx, err := sendDeployment(backend, md, links, opts, args...)
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

// DeployStatic runs a deployment without sending it, returning the code it would install.
func DeployStatic(backend Backend, md *MetaData, links map[string]common.Address, opts *CallOptions, args ...interface{}) ([]byte, error) {
	d, err := prepareDeployment(md, links, args...)
	if err != nil {
		return nil, err
	}
	msg := ethereum.CallMsg{
		From: sender(backend, opts),
		Data: d.data,
	}
	if opts != nil {
		msg.Gas = opts.GasLimit
		msg.Value = opts.Value
	}
	out, err := backend.CallContract(opts.context(), msg, opts.blockNumber())
	if err != nil {
		return nil, DecodeError(err)
	}
	return out, nil
}

func DeployPopulateTransaction(md *MetaData, links map[string]common.Address, opts *CallOptions, args ...interface{}) (*UnsignedTransaction, error) {
	d, err := prepareDeployment(md, links, args...)
	if err != nil {
		return nil, err
	}
	return populate(nil, d.data, opts), nil
}
