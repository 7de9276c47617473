// Copyright 2014 The go-ethereum Authors
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

// Package trie verifies Merkle Patricia Trie proofs: hex-prefix keys,
// keccak256 node hashes, raw (unhashed) keys and nodes shorter than a hash
// embedded in their parent. It also holds a small in-memory trie that builds
// roots and proofs in the same format.
package trie

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Taraxa-project/light-verifier/crypto/keccak256"
)

// EmptyRoot is the root of a trie holding nothing.
var EmptyRoot = keccak256.EmptyRLPHash

// Trie is an in-memory trie. It is not safe for concurrent use.
type Trie struct {
	root node
}

func New() *Trie {
	return new(Trie)
}

func (self *Trie) Get(key []byte) []byte {
	key_hex := keybytes_to_hex(key)
	tn := self.root
	for pos := 0; ; {
		switch n := tn.(type) {
		case nil:
			return nil
		case value_node:
			return common.CopyBytes(n)
		case *short_node:
			if len(key_hex)-pos < len(n.Key) || !bytes.Equal(n.Key, key_hex[pos:pos+len(n.Key)]) {
				// key not found in trie
				return nil
			}
			tn, pos = n.Val, pos+len(n.Key)
		case *full_node:
			tn, pos = n.Children[key_hex[pos]], pos+1
		default:
			panic(fmt.Sprintf("%T: invalid node: %v", tn, tn))
		}
	}
}

// Update associates key with value. An empty value deletes the key, since
// the trie cannot tell an empty value from an absent one.
func (self *Trie) Update(key, value []byte) {
	key_hex := keybytes_to_hex(key)
	if len(value) != 0 {
		_, self.root = self.insert(self.root, key_hex, value_node(common.CopyBytes(value)))
	} else {
		_, self.root = self.delete(self.root, key_hex)
	}
}

func (self *Trie) Delete(key []byte) {
	self.Update(key, nil)
}

// Hash returns the root hash. The hashes of unchanged subtries are cached
// between calls.
func (self *Trie) Hash() common.Hash {
	if self.root == nil {
		return EmptyRoot
	}
	h := newHasher()
	defer returnHasherToPool(h)
	hashed, cached := h.hash(self.root, true)
	self.root = cached
	return common.BytesToHash(hashed.(hash_node))
}

func (self *Trie) insert(n node, key []byte, value node) (bool, node) {
	if len(key) == 0 {
		if v, ok := n.(value_node); ok {
			return !bytes.Equal(v, value.(value_node)), value
		}
		return true, value
	}
	switch n := n.(type) {
	case *short_node:
		matchlen := prefix_len(key, n.Key)
		// If the whole key matches, keep this short node as is
		// and only update the value.
		if matchlen == len(n.Key) {
			dirty, nn := self.insert(n.Val, key[matchlen:], value)
			if !dirty {
				return false, n
			}
			return true, &short_node{Key: n.Key, Val: nn}
		}
		// Otherwise branch out at the index where they differ.
		branch := &full_node{}
		_, branch.Children[n.Key[matchlen]] = self.insert(nil, n.Key[matchlen+1:], n.Val)
		_, branch.Children[key[matchlen]] = self.insert(nil, key[matchlen+1:], value)
		// Replace this short_node with the branch if it occurs at index 0.
		if matchlen == 0 {
			return true, branch
		}
		// Otherwise, replace it with a short node leading up to the branch.
		return true, &short_node{Key: key[:matchlen], Val: branch}
	case *full_node:
		dirty, nn := self.insert(n.Children[key[0]], key[1:], value)
		if !dirty {
			return false, n
		}
		n = n.copy()
		n.flags = node_flag{}
		n.Children[key[0]] = nn
		return true, n
	case nil:
		return true, &short_node{Key: key, Val: value}
	default:
		panic(fmt.Sprintf("%T: invalid node: %v", n, n))
	}
}

func (self *Trie) delete(n node, key []byte) (bool, node) {
	switch n := n.(type) {
	case *short_node:
		matchlen := prefix_len(key, n.Key)
		if matchlen < len(n.Key) {
			return false, n // don't replace n on mismatch
		}
		if matchlen == len(key) {
			return true, nil // remove n entirely for whole matches
		}
		// The key is longer than n.Key. Remove the remaining suffix
		// from the subtrie. Child can never be nil here since the
		// subtrie must contain at least two other values with keys
		// longer than n.Key.
		dirty, child := self.delete(n.Val, key[len(n.Key):])
		if !dirty {
			return false, n
		}
		switch child := child.(type) {
		case *short_node:
			// Deleting from the subtrie reduced it to another
			// short node. Merge the nodes to avoid creating a
			// short_node{..., short_node{...}}. Use concat (which
			// always creates a new slice) instead of append to
			// avoid modifying n.Key since it might be shared with
			// other nodes.
			return true, &short_node{Key: concat(n.Key, child.Key...), Val: child.Val}
		default:
			return true, &short_node{Key: n.Key, Val: child}
		}
	case *full_node:
		dirty, nn := self.delete(n.Children[key[0]], key[1:])
		if !dirty {
			return false, n
		}
		n = n.copy()
		n.flags = node_flag{}
		n.Children[key[0]] = nn
		// Check how many non-nil entries are left after deleting and
		// reduce the full node to a short node if only one entry is
		// left. Since n must've contained at least two children
		// before deletion (otherwise it would not be a full node) n
		// can never be reduced to nil.
		//
		// When the loop is done, pos contains the index of the single
		// value that is left in n or -2 if n contains at least two
		// values.
		pos := -1
		for i, cld := range &n.Children {
			if cld != nil {
				if pos == -1 {
					pos = i
				} else {
					pos = -2
					break
				}
			}
		}
		if pos >= 0 {
			if pos != 16 {
				// If the remaining entry is a short node, it replaces
				// n and its key gets the missing nibble tacked to the
				// front. This avoids creating an invalid
				// short_node{..., short_node{...}}.
				if cnode, ok := n.Children[pos].(*short_node); ok {
					k := append([]byte{byte(pos)}, cnode.Key...)
					return true, &short_node{Key: k, Val: cnode.Val}
				}
			}
			// Otherwise, n is replaced by a one-nibble short node
			// containing the child.
			return true, &short_node{Key: []byte{byte(pos)}, Val: n.Children[pos]}
		}
		// n still contains at least two values and cannot be reduced.
		return true, n
	case value_node:
		return true, nil
	case nil:
		return false, nil
	default:
		panic(fmt.Sprintf("%T: invalid node: %v (%v)", n, n, key))
	}
}
