// Copyright 2016 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package trie

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Taraxa-project/light-verifier/crypto/keccak256"
)

type hasher struct {
	sha *keccak256.Hasher
}

// hashers live in a global pool.
var hasherPool = sync.Pool{
	New: func() interface{} {
		return &hasher{}
	},
}

func newHasher() *hasher {
	h := hasherPool.Get().(*hasher)
	h.sha = keccak256.GetHasherFromPool()
	return h
}

func returnHasherToPool(h *hasher) {
	keccak256.ReturnHasherToPool(h.sha)
	h.sha = nil
	hasherPool.Put(h)
}

// hash collapses a node down into a hash node, also returning a copy of the
// original node initialized with the computed hash to replace the original one.
func (h *hasher) hash(n node, force bool) (hashed node, cached node) {
	if hash := n.cached_hash(); hash != nil {
		return hash, n
	}
	// Trie not processed yet, walk the children
	collapsed, cached := h.hash_children(n)
	hashed = h.store(collapsed, force)
	// Cache the hash of the node for later reuse. It's fine to assign these
	// values directly without copying the node first because hash_children
	// copies it.
	cachedHash, _ := hashed.(hash_node)
	switch cn := cached.(type) {
	case *short_node:
		cn.flags.hash = cachedHash
	case *full_node:
		cn.flags.hash = cachedHash
	}
	return hashed, cached
}

// hash_children replaces the children of a node with their hashes if the encoded
// size of the child is larger than a hash, returning the collapsed node as well
// as a replacement for the original node with the child hashes cached in.
func (h *hasher) hash_children(original node) (collapsed node, cached node) {
	switch n := original.(type) {
	case *short_node:
		// Hash the short node's child, caching the newly hashed subtree
		collapsed, cached := n.copy(), n.copy()
		collapsed.Key = hex_to_compact(n.Key)
		cached.Key = common.CopyBytes(n.Key)
		if _, ok := n.Val.(value_node); !ok {
			collapsed.Val, cached.Val = h.hash(n.Val, false)
		}
		return collapsed, cached
	case *full_node:
		// Hash the full node's children, caching the newly hashed subtrees
		collapsed, cached := n.copy(), n.copy()
		for i := 0; i < 16; i++ {
			if n.Children[i] != nil {
				collapsed.Children[i], cached.Children[i] = h.hash(n.Children[i], false)
			}
		}
		cached.Children[16] = n.Children[16]
		return collapsed, cached
	default:
		// Value and hash nodes don't have children so they're left as were
		return n, original
	}
}

// store returns the node itself when its encoding fits inside its parent,
// or its hash. The root is always hashed (force).
func (h *hasher) store(n node, force bool) node {
	if _, isHash := n.(hash_node); isHash {
		return n
	}
	enc := node_to_bytes(n)
	if len(enc) < common.HashLength && !force {
		return n // Nodes smaller than 32 bytes are stored inside their parent
	}
	return h.hash_data(enc)
}

func (h *hasher) hash_data(data []byte) hash_node {
	h.sha.Reset()
	h.sha.Write(data...)
	ret := h.sha.Hash()
	return ret[:]
}

// encode_collapsed returns the encoding of a node whose children have already
// been hashed.
func (h *hasher) encode_collapsed(n node) []byte {
	collapsed, _ := h.hash_children(n)
	return node_to_bytes(collapsed)
}
