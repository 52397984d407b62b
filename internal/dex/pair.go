// Package dex reads constant-product pair contracts: immutable pair
// metadata, live reserve snapshots, and Swap event decoding.
package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapEngine/internal/chain"
	"swapEngine/internal/model"
)

// PairMeta captures the immutable facts about one pair contract.
type PairMeta struct {
	Token0    common.Address
	Token1    common.Address
	Symbol0   string
	Symbol1   string
	Decimals0 uint8
	Decimals1 uint8
}

// TokenMetaCache caches token metadata by address.
type TokenMetaCache struct {
	mu   sync.RWMutex
	data map[common.Address]model.TokenMeta
}

func NewTokenMetaCache() *TokenMetaCache {
	return &TokenMetaCache{data: make(map[common.Address]model.TokenMeta)}
}

func (c *TokenMetaCache) Get(address common.Address) (model.TokenMeta, bool) {
	c.mu.RLock()
	meta, ok := c.data[address]
	c.mu.RUnlock()
	return meta, ok
}

func (c *TokenMetaCache) Set(address common.Address, meta model.TokenMeta) {
	c.mu.Lock()
	c.data[address] = meta
	c.mu.Unlock()
}

// FetchPairMeta loads pair token addresses and their ERC20 metadata.
func FetchPairMeta(ctx context.Context, chainClient *chain.Client, pair common.Address, tokenCache *TokenMetaCache, logger *zap.Logger) (PairMeta, error) {
	if chainClient == nil {
		return PairMeta{}, fmt.Errorf("chain client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	parsed, err := PairABI()
	if err != nil {
		return PairMeta{}, fmt.Errorf("parse pair abi: %w", err)
	}

	values, err := callPairMethod(ctx, chainClient, pair, parsed, "token0", nil)
	if err != nil {
		return PairMeta{}, err
	}
	token0, err := asAddress(values[0])
	if err != nil {
		return PairMeta{}, fmt.Errorf("token0: %w", err)
	}

	values, err = callPairMethod(ctx, chainClient, pair, parsed, "token1", nil)
	if err != nil {
		return PairMeta{}, err
	}
	token1, err := asAddress(values[0])
	if err != nil {
		return PairMeta{}, fmt.Errorf("token1: %w", err)
	}

	meta0, err := tokenMeta(ctx, chainClient, token0, tokenCache, logger)
	if err != nil {
		return PairMeta{}, fmt.Errorf("token0 metadata: %w", err)
	}
	meta1, err := tokenMeta(ctx, chainClient, token1, tokenCache, logger)
	if err != nil {
		return PairMeta{}, fmt.Errorf("token1 metadata: %w", err)
	}

	return PairMeta{
		Token0:    token0,
		Token1:    token1,
		Symbol0:   meta0.Symbol,
		Symbol1:   meta1.Symbol,
		Decimals0: meta0.Decimals,
		Decimals1: meta1.Decimals,
	}, nil
}

// FetchPoolState reads the live reserves and LP supply of a pair at an
// optional block height and assembles the pool snapshot the engine core
// quotes against.
func FetchPoolState(ctx context.Context, chainClient *chain.Client, pair common.Address, meta PairMeta, feeRateBps int, blockNumber *big.Int) (model.Pool, error) {
	if chainClient == nil {
		return model.Pool{}, fmt.Errorf("chain client is nil")
	}

	parsed, err := PairABI()
	if err != nil {
		return model.Pool{}, fmt.Errorf("parse pair abi: %w", err)
	}

	values, err := callPairMethod(ctx, chainClient, pair, parsed, "getReserves", blockNumber)
	if err != nil {
		return model.Pool{}, err
	}
	if len(values) < 2 {
		return model.Pool{}, fmt.Errorf("getReserves returned %d values", len(values))
	}
	reserve0, err := asBigInt(values[0])
	if err != nil {
		return model.Pool{}, fmt.Errorf("reserve0: %w", err)
	}
	reserve1, err := asBigInt(values[1])
	if err != nil {
		return model.Pool{}, fmt.Errorf("reserve1: %w", err)
	}

	values, err = callPairMethod(ctx, chainClient, pair, parsed, "totalSupply", blockNumber)
	if err != nil {
		return model.Pool{}, err
	}
	lpSupply, err := asBigInt(values[0])
	if err != nil {
		return model.Pool{}, fmt.Errorf("total supply: %w", err)
	}

	if feeRateBps == 0 {
		feeRateBps = model.DefaultFeeRateBps
	}

	return model.Pool{
		Address:    pair.Hex(),
		Symbol0:    meta.Symbol0,
		Symbol1:    meta.Symbol1,
		Reserve0:   reserve0,
		Reserve1:   reserve1,
		Precision0: int(meta.Decimals0),
		Precision1: int(meta.Decimals1),
		LPSupply:   lpSupply,
		FeeRateBps: feeRateBps,
	}, nil
}

func tokenMeta(ctx context.Context, chainClient *chain.Client, token common.Address, cache *TokenMetaCache, logger *zap.Logger) (model.TokenMeta, error) {
	if cache != nil {
		if meta, ok := cache.Get(token); ok {
			return meta, nil
		}
	}
	meta, err := FetchTokenMeta(ctx, chainClient, token, logger)
	if err != nil {
		return model.TokenMeta{}, err
	}
	if cache != nil {
		cache.Set(token, meta)
	}
	return meta, nil
}

// FetchTokenMeta loads token metadata via ERC20 calls. Non-standard tokens
// that return bytes32 symbol/name values are handled with a fallback ABI.
func FetchTokenMeta(ctx context.Context, chainClient *chain.Client, token common.Address, logger *zap.Logger) (model.TokenMeta, error) {
	meta := model.TokenMeta{Address: token.Hex()}
	if chainClient == nil {
		return meta, fmt.Errorf("chain client is nil")
	}

	stringABI, err := erc20ABIStringInstance()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20ABIBytes32Instance()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	call := func(method string, parsed abi.ABI) ([]interface{}, error) {
		data, err := parsed.Pack(method)
		if err != nil {
			return nil, fmt.Errorf("pack %s: %w", method, err)
		}
		msg := ethereum.CallMsg{To: &token, Data: data}
		resp, err := chainClient.CallContract(ctx, msg, nil)
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", method, err)
		}
		values, err := parsed.Unpack(method, resp)
		if err != nil {
			return nil, fmt.Errorf("unpack %s: %w", method, err)
		}
		return values, nil
	}

	values, err := call("decimals", stringABI)
	if err != nil {
		return meta, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return meta, err
	}
	meta.Decimals = decimals

	if values, err := call("symbol", stringABI); err == nil {
		if symbol, ok := values[0].(string); ok {
			meta.Symbol = symbol
		}
	} else if values, err := call("symbol", bytes32ABI); err == nil {
		if symbol, ok := bytes32ToString(values[0]); ok {
			meta.Symbol = symbol
		}
	} else if logger != nil {
		logger.Debug("symbol call failed", zap.String("token", token.Hex()), zap.Error(err))
	}

	if values, err := call("name", stringABI); err == nil {
		if name, ok := values[0].(string); ok {
			meta.Name = name
		}
	} else if values, err := call("name", bytes32ABI); err == nil {
		if name, ok := bytes32ToString(values[0]); ok {
			meta.Name = name
		}
	} else if logger != nil {
		logger.Debug("name call failed", zap.String("token", token.Hex()), zap.Error(err))
	}

	return meta, nil
}

func callPairMethod(ctx context.Context, chainClient *chain.Client, pair common.Address, parsed abi.ABI, method string, block *big.Int) ([]interface{}, error) {
	data, err := parsed.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &pair, Data: data}
	resp, err := chainClient.CallContract(ctx, msg, block)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case uint16:
		return uint8(v), nil
	case uint32:
		return uint8(v), nil
	case uint64:
		return uint8(v), nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}
