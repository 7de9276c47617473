package keccak256

import (
	"hash"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

type Hasher struct {
	state hash_state
}

type hash_state interface {
	hash.Hash
	Read([]byte) (int, error)
}

func (self *Hasher) Write(b ...byte) {
	self.state.Write(b)
}

func (self *Hasher) Hash() (ret common.Hash) {
	self.state.Read(ret[:])
	return
}

func (self *Hasher) Reset() {
	self.state.Reset()
}

var hashers = sync.Pool{
	New: func() interface{} {
		return &Hasher{sha3.NewLegacyKeccak256().(hash_state)}
	},
}

func GetHasherFromPool() *Hasher {
	return hashers.Get().(*Hasher)
}

func ReturnHasherToPool(hasher *Hasher) {
	hasher.Reset()
	hashers.Put(hasher)
}

func Hash(bs ...[]byte) (ret common.Hash) {
	hasher := GetHasherFromPool()
	for _, b := range bs {
		hasher.Write(b...)
	}
	ret = hasher.Hash()
	ReturnHasherToPool(hasher)
	return
}

// EmptyRLPHash is the hash of the empty RLP string, which is also the root of an empty trie.
var EmptyRLPHash = Hash([]byte{0x80})
