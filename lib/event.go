package lib

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// Event is a decoded log. Generated event types implement it by embedding ContractEvent.
type Event interface {
	Signature() string
	EventName() string
	Raw() types.Log
}

// ContractEvent holds a decoded log. Values are in declaration order, indexed or not; indexed
// strings, bytes, arrays and tuples are only available as their topic hash.
type ContractEvent struct {
	log    types.Log
	name   string
	sig    string
	values []interface{}
}

func (e ContractEvent) Raw() types.Log {
	return e.log
}

// Signature returns the canonical signature, eg Transfer(address,address,uint256).
func (e ContractEvent) Signature() string {
	return e.sig
}

func (e ContractEvent) EventName() string {
	return e.name
}

func (e ContractEvent) Values() []interface{} {
	return e.values
}

type eventRegistration struct {
	event   abi.Event
	factory func(ContractEvent) Event
}

var eventRegistry = struct {
	sync.RWMutex
	byTopic map[common.Hash]*eventRegistration
}{
	byTopic: make(map[common.Hash]*eventRegistration),
}

// RegisterEvent makes DecodeLog build logs of md's event name with factory. The first registration
// of a signature wins. It panics if md has no such event.
func RegisterEvent(md *MetaData, name string, factory func(ContractEvent) Event) {
	event := mustEvent(md, name)

	eventRegistry.Lock()
	defer eventRegistry.Unlock()
	if _, ok := eventRegistry.byTopic[event.ID]; ok {
		return
	}
	eventRegistry.byTopic[event.ID] = &eventRegistration{event: event, factory: factory}
}

func mustEvent(md *MetaData, name string) abi.Event {
	parsed, err := md.GetAbi()
	if err != nil {
		panic("abi2go: " + err.Error())
	}
	event, ok := parsed.Events[name]
	if !ok {
		panic("abi2go: no event " + name)
	}
	return event
}

// DecodeLog decodes a log of any registered event. Logs of other events fail with ErrUnknownEvent.
func DecodeLog(l types.Log) (Event, error) {
	if len(l.Topics) == 0 {
		return nil, errors.Wrap(ErrUnknownEvent, "log has no topics")
	}

	eventRegistry.RLock()
	reg, ok := eventRegistry.byTopic[l.Topics[0]]
	eventRegistry.RUnlock()
	if !ok {
		return nil, errors.Wrap(ErrUnknownEvent, l.Topics[0].Hex())
	}

	ev, err := decodeEvent(reg.event, l)
	if err != nil {
		return nil, err
	}
	return reg.factory(ev), nil
}

// DecodeAnonymousLog decodes l as md's anonymous event name. Anonymous logs carry no signature
// topic, so the caller has to know what it is looking at.
func DecodeAnonymousLog(md *MetaData, name string, l types.Log) (ContractEvent, error) {
	parsed, err := md.GetAbi()
	if err != nil {
		return ContractEvent{}, errors.Wrap(err, "parsing abi")
	}
	event, ok := parsed.Events[name]
	if !ok || !event.Anonymous {
		return ContractEvent{}, errors.Errorf("no anonymous event %s", name)
	}
	return decodeEvent(event, l)
}

func decodeEvent(event abi.Event, l types.Log) (ContractEvent, error) {
	topic := 0
	if !event.Anonymous {
		if len(l.Topics) == 0 || l.Topics[0] != event.ID {
			return ContractEvent{}, errors.Errorf("log is not a %s event", event.Sig)
		}
		topic = 1
	}

	data, err := event.Inputs.Unpack(l.Data)
	if err != nil {
		return ContractEvent{}, errors.Wrapf(err, "unpacking %s", event.Sig)
	}

	values := make([]interface{}, len(event.Inputs))
	field := 0
	for i, arg := range event.Inputs {
		if !arg.Indexed {
			values[i] = data[field]
			field++
			continue
		}
		if topic >= len(l.Topics) {
			return ContractEvent{}, errors.Errorf("%s log is missing topics", event.Sig)
		}
		values[i], err = topicValue(arg, l.Topics[topic])
		if err != nil {
			return ContractEvent{}, errors.Wrapf(err, "decoding %s topic %d", event.Sig, topic)
		}
		topic++
	}

	return ContractEvent{
		log:    l,
		name:   event.RawName,
		sig:    event.Sig,
		values: values,
	}, nil
}

func topicValue(arg abi.Argument, topic common.Hash) (interface{}, error) {
	switch arg.Type.T {
	case abi.StringTy, abi.BytesTy, abi.SliceTy, abi.ArrayTy, abi.TupleTy:
		// Only the hash was logged
		return topic, nil
	}

	arg.Name = "value"
	out := make(map[string]interface{}, 1)
	if err := abi.ParseTopicsIntoMap(out, abi.Arguments{arg}, []common.Hash{topic}); err != nil {
		return nil, err
	}
	return out["value"], nil
}

// LogBackend is the part of a backend that fetches logs.
type LogBackend interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// FilterOptions restrict which logs are fetched, beyond their topics.
type FilterOptions struct {
	Address   *common.Address
	FromBlock *big.Int
	ToBlock   *big.Int
}

// GetLogs fetches the logs matching opts and topics. Cancelling ctx aborts the request.
func GetLogs(ctx context.Context, backend LogBackend, opts FilterOptions, topics [][]common.Hash) ([]types.Log, error) {
	q := ethereum.FilterQuery{
		FromBlock: opts.FromBlock,
		ToBlock:   opts.ToBlock,
		Topics:    topics,
	}
	if opts.Address != nil {
		q.Addresses = []common.Address{*opts.Address}
	}

	logs, err := backend.FilterLogs(ctx, q)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return logs, nil
}

// GetEvents fetches and decodes the logs of md's event name. Removed logs are skipped.
func GetEvents(ctx context.Context, backend LogBackend, md *MetaData, name string, opts FilterOptions, topics [][]common.Hash) ([]ContractEvent, error) {
	parsed, err := md.GetAbi()
	if err != nil {
		return nil, errors.Wrap(err, "parsing abi")
	}
	event, ok := parsed.Events[name]
	if !ok {
		return nil, errors.Errorf("no event %s", name)
	}

	logs, err := GetLogs(ctx, backend, opts, topics)
	if err != nil {
		return nil, err
	}

	out := make([]ContractEvent, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}
		ev, err := decodeEvent(event, l)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}
