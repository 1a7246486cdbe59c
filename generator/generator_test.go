package generator

import (
	"flag"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "rewrite the checked in bindings")

func generate(t *testing.T, name, pkg string) string {
	t.Helper()
	out, err := Generate(readTestdata(t, name), Options{
		Package:      pkg,
		ContractName: strings.TrimSuffix(name, ".json"),
		Source:       name,
	})
	require.NoError(t, err)

	file, err := parser.ParseFile(token.NewFileSet(), name, out, parser.ParseComments)
	require.NoError(t, err, string(out))
	assert.Equal(t, pkg, file.Name.Name)
	return string(out)
}

func TestGenerate(t *testing.T) {
	src := generate(t, "token.json", "token")

	assert.True(t, strings.HasPrefix(src, "// Code generated by abi2go. DO NOT EDIT.\n// source: token.json\n"))
	assert.Contains(t, src, `"github.com/jshufro/abi2go/lib"`)
	assert.Contains(t, src, `"github.com/ethereum/go-ethereum/common"`)

	assert.Contains(t, src, "var TokenMetaData = &lib.MetaData{")
	assert.Contains(t, src, "func NewToken(address lib.HasAddress, backend lib.Backend) (*Token, error) {")
	assert.Contains(t, src, "func DeployToken(backend lib.Backend, math lib.HasAddress, supply *big.Int, opts *lib.CallOptions) (*Token, error) {")
	assert.Contains(t, src, `"6ad30996409d058139477db06ae39abaac": math.Address()`)
	assert.Contains(t, src, "func PopulateDeployToken(")

	// Reads return values, writes wait for the transaction
	assert.Contains(t, src, "func (_Token *Token) BalanceOf(owner lib.HasAddress, opts *lib.CallOptions) (*big.Int, error) {")
	assert.Contains(t, src, `_Token.contract.CallStatic(opts, "balanceOf", owner.Address())`)
	assert.Contains(t, src, "func (_Token *Token) Transfer(to lib.HasAddress, amount *big.Int, opts *lib.CallOptions) (*lib.Transaction, error) {")
	assert.Contains(t, src, "func (_Token *Token) Transfer0(to lib.HasAddress, amount *big.Int, data []uint8, opts *lib.CallOptions) (*lib.Transaction, error) {")
	assert.Contains(t, src, `_Token.contract.Call(opts, "transfer0", to.Address(), amount, data)`)
	assert.Contains(t, src, "func (_Token *Token) Pause(opts *lib.CallOptions) (*lib.Transaction, error) {")
	assert.Contains(t, src, "func (_Token TokenCallStatic) Pause(opts *lib.CallOptions) error {")
	assert.Contains(t, src, "func (TokenEncoder) Transfer(to lib.HasAddress, amount *big.Int) ([]byte, error) {")

	// Only functions that write get a SendTransaction variant
	assert.Contains(t, src, "func (_Token TokenSendTransaction) Transfer(")
	assert.NotContains(t, src, "func (_Token TokenSendTransaction) BalanceOf(")
	assert.NotContains(t, src, "func (_Pausable PausableSendTransaction) Paused(")

	// Narrow integers are widened on the way out
	assert.Contains(t, src, "func (_Token *Token) Decimals(opts *lib.CallOptions) (uint8, error) {")
	assert.Contains(t, src, "new(big.Int).SetUint64(uint64(lib.Output[uint64](e.Values(), 0)))")

	// Structs are declared once, nested ones first
	assert.Equal(t, 1, strings.Count(src, "type LibMeta struct {"))
	assert.Equal(t, 1, strings.Count(src, "type TokenOrder struct {"))
	assert.Less(t, strings.Index(src, "type LibMeta struct {"), strings.Index(src, "type TokenOrder struct {"))
	assert.Less(t, strings.Index(src, "type TokenOrder struct {"), strings.Index(src, "var TokenMetaData"))
	assert.Contains(t, src, "func NewTokenOrder(maker lib.HasAddress, amount *big.Int, meta LibMeta) TokenOrder {")

	// Events and errors shared by both contracts are declared once
	assert.Equal(t, 1, strings.Count(src, "type Transfer struct {"))
	assert.Equal(t, 1, strings.Count(src, "type Paused struct"))
	assert.Contains(t, src, `const TransferSig = "Transfer(address,address,uint256)"`)
	assert.Contains(t, src, `common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")`)
	assert.Contains(t, src, "func GetTransferEvents(ctx context.Context, backend lib.LogBackend, filter TransferFilter) ([]*Transfer, error) {")
	assert.Contains(t, src, "func (e *Transfer) From() common.Address {")
	assert.Contains(t, src, "func (e *Filled) Note() string {")
	assert.Contains(t, src, "topic0, err := lib.Topics(filter.From, func(v lib.HasAddress) (common.Hash, error) { return lib.AddressTopic(v.Address()), nil })")
	assert.Contains(t, src, "topic0, err := lib.Topics(filter.Id, func(v *big.Int) (common.Hash, error) { return lib.UintTopic(v) })")

	// Anonymous events can be decoded, but not filtered for
	assert.Contains(t, src, "type Debug struct {")
	assert.Contains(t, src, "func (e *Debug) Data() []uint8 {")
	assert.Contains(t, src, "func DecodeDebug(l types.Log) (*Debug, error) {")
	assert.Contains(t, src, `lib.DecodeAnonymousLog(TokenMetaData, "Debug", l)`)
	assert.Contains(t, src, `"github.com/ethereum/go-ethereum/core/types"`)
	assert.NotContains(t, src, "DebugTopic")
	assert.NotContains(t, src, "GetDebugEvents")

	assert.Contains(t, src, `const BadOrderSig = "BadOrder((address,uint64,(bytes32)))"`)
	assert.Contains(t, src, "func NewInsufficientBalance(available *big.Int, required *big.Int) *InsufficientBalance {")
	assert.Contains(t, src, `return fmt.Sprintf("InsufficientBalance(%v, %v)", e.Available, e.Required)`)
	assert.Contains(t, src, `return "Paused()"`)

	// The interface has no bytecode
	assert.Contains(t, src, "func NewPausable(")
	assert.NotContains(t, src, "func DeployPausable(")
}

func TestGenerateDeterministic(t *testing.T) {
	data := readTestdata(t, "token.json")
	opts := Options{Package: "token", Source: "token.json"}

	first, err := Generate(data, opts)
	require.NoError(t, err)
	second, err := Generate(data, opts)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

// The bindings under test/market are compiled and exercised by go test, so they have to stay
// what the generator produces for market.json.
func TestGenerateCheckedInBindings(t *testing.T) {
	out, err := Generate(readTestdata(t, "market.json"), Options{Package: "market", Source: "market.json"})
	require.NoError(t, err)

	path := filepath.Join("..", "test", "market", "market.go")
	if *update {
		require.NoError(t, os.WriteFile(path, out, 0644))
	}
	checkedIn, err := os.ReadFile(path)
	require.NoError(t, err)

	expected, err := format.Source(out)
	require.NoError(t, err)
	actual, err := format.Source(checkedIn)
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(actual), "%s is stale, run go test ./generator -update", path)
}

func TestGenerateSingleArtifacts(t *testing.T) {
	src := generate(t, "hardhat.json", "registry")
	assert.Contains(t, src, "func DeployRegistry(backend lib.Backend, strings lib.HasAddress, math lib.HasAddress, owner lib.HasAddress, opts *lib.CallOptions) (*Registry, error) {")
	assert.Contains(t, src, "func (_Registry *Registry) Lookup(arg0 string, opts *lib.CallOptions) (common.Address, error) {")

	src = generate(t, "foundry.json", "ping")
	assert.Contains(t, src, "var FoundryMetaData = &lib.MetaData{")
	assert.Contains(t, src, "func DeployFoundry(backend lib.Backend, opts *lib.CallOptions) (*Foundry, error) {")
	assert.Contains(t, src, "lib.Deploy(backend, FoundryMetaData, nil, opts)")
}

func TestGenerateIndexedWithoutTopic(t *testing.T) {
	_, err := Generate(readTestdata(t, "indexed_bool.json"), Options{Package: "switch_"})
	assert.True(t, errors.Is(err, ErrNoTopicEncoding))
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(readTestdata(t, "token.json"), Options{})
	assert.Error(t, err)

	_, err = Generate([]byte("{"), Options{Package: "broken"})
	assert.Error(t, err)
}
