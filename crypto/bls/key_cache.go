package bls

import (
	"github.com/ethereum/go-ethereum/metrics"
	lru "github.com/hashicorp/golang-lru"
)

// KeySource turns a validator's compressed key into a checked point.
type KeySource interface {
	PublicKey(raw []byte) (*PublicKey, error)
}

type decoding_source struct{}

func (decoding_source) PublicKey(raw []byte) (*PublicKey, error) {
	return DecodePublicKey(raw)
}

// Decoder decodes on every call and keeps nothing.
var Decoder KeySource = decoding_source{}

var (
	key_cache_hit  = metrics.NewRegisteredCounterForced("verifier/keycache/hit", nil)
	key_cache_miss = metrics.NewRegisteredCounterForced("verifier/keycache/miss", nil)
)

// KeyCache memoises decoded keys. Decoding and the subgroup check dominate
// per-validator cost, and a validator set is reused for a whole epoch.
// Failed decodings are never cached. Safe for concurrent use.
type KeyCache struct {
	lru *lru.Cache
}

func NewKeyCache(size int) (*KeyCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &KeyCache{c}, nil
}

func (self *KeyCache) PublicKey(raw []byte) (*PublicKey, error) {
	if v, ok := self.lru.Get(string(raw)); ok {
		key_cache_hit.Inc(1)
		return v.(*PublicKey), nil
	}
	key_cache_miss.Inc(1)
	pk, err := DecodePublicKey(raw)
	if err != nil {
		return nil, err
	}
	self.lru.Add(string(raw), pk)
	return pk, nil
}

func (self *KeyCache) Len() int {
	return self.lru.Len()
}
