// Copyright 2015 The go-ethereum Authors
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
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Taraxa-project/light-verifier/crypto/keccak256"
	"github.com/Taraxa-project/light-verifier/verifyerr"
)

// Prove returns the nodes on the path to key, root first. Nodes embedded in
// their parent are not listed separately. The result proves absence too: it
// ends where the path leaves the trie.
func (self *Trie) Prove(key []byte) [][]byte {
	self.Hash()
	key_hex := keybytes_to_hex(key)
	// Collect all nodes on the path to key.
	var nodes []node
	tn := self.root
	for len(key_hex) > 0 && tn != nil {
		switch n := tn.(type) {
		case *short_node:
			if len(key_hex) < len(n.Key) || !bytes.Equal(n.Key, key_hex[:len(n.Key)]) {
				// The trie doesn't contain the key.
				tn = nil
			} else {
				tn = n.Val
				key_hex = key_hex[len(n.Key):]
			}
			nodes = append(nodes, n)
		case *full_node:
			tn = n.Children[key_hex[0]]
			key_hex = key_hex[1:]
			nodes = append(nodes, n)
		case value_node:
			tn = nil
		default:
			panic(fmt.Sprintf("%T: invalid node: %v", tn, tn))
		}
	}
	h := newHasher()
	defer returnHasherToPool(h)
	var ret [][]byte
	for i, n := range nodes {
		enc := h.encode_collapsed(n)
		// If the node's encoding is a hash (or it is the root node), it
		// becomes a proof element.
		if i == 0 || len(enc) >= common.HashLength {
			ret = append(ret, enc)
		}
	}
	return ret
}

// VerifyProof resolves key under root using the given proof nodes, which may
// come in any order and may include unrelated nodes.
//
// It returns the value when the key is present, and nil without an error when
// the path shows the key is not in the trie or when it leads to a node the
// proof does not carry. A proof is thus only trusted to show inclusion; use
// VerifyProofStrict where nil must mean absence. A root node missing from
// the proof and any malformed node are errors of kind VerifyMptProof.
func VerifyProof(root common.Hash, key []byte, proof [][]byte) ([]byte, error) {
	return verify_proof(root, key, proof, false)
}

// VerifyProofStrict is VerifyProof where a referenced node missing from the
// proof is an error, so that a nil result proves the key is absent.
func VerifyProofStrict(root common.Hash, key []byte, proof [][]byte) ([]byte, error) {
	return verify_proof(root, key, proof, true)
}

func verify_proof(root common.Hash, key []byte, proof [][]byte, strict bool) ([]byte, error) {
	if root == EmptyRoot {
		return nil, nil
	}
	db := make(map[common.Hash][]byte, len(proof))
	for _, enc := range proof {
		db[keccak256.Hash(enc)] = enc
	}
	key_hex := keybytes_to_hex(key)
	want := root
	// Every hash step consumes at least one nibble, which bounds the walk.
	limit := len(key_hex)
	for i := 0; i <= limit; i++ {
		buf, ok := db[want]
		if !ok {
			if i == 0 {
				proof_failures.Inc(1)
				return nil, verifyerr.New(verifyerr.KindVerifyMptProof, "root node %x missing from proof", want)
			}
			if strict {
				proof_failures.Inc(1)
				return nil, verifyerr.New(verifyerr.KindVerifyMptProof, "proof node %d (hash %x) missing", i, want)
			}
			proof_absent.Inc(1)
			return nil, nil
		}
		n, err := decode_node(buf)
		if err != nil {
			proof_failures.Inc(1)
			return nil, verifyerr.New(verifyerr.KindVerifyMptProof, "proof node %d (hash %x): %v", i, want, err)
		}
		rest, child := get(n, key_hex)
		switch child := child.(type) {
		case nil:
			// The trie doesn't contain the key.
			proof_absent.Inc(1)
			return nil, nil
		case hash_node:
			key_hex = rest
			copy(want[:], child)
		case value_node:
			proof_verified.Inc(1)
			return common.CopyBytes(child), nil
		}
	}
	proof_failures.Inc(1)
	return nil, verifyerr.New(verifyerr.KindVerifyMptProof, "proof path longer than key")
}

// get walks n, including nodes embedded in it, as far as key leads. It stops
// at a value, at a hash reference, or with nil where the key leaves the trie.
func get(tn node, key []byte) ([]byte, node) {
	for {
		switch n := tn.(type) {
		case *short_node:
			if len(key) < len(n.Key) || !bytes.Equal(n.Key, key[:len(n.Key)]) {
				return nil, nil
			}
			tn = n.Val
			key = key[len(n.Key):]
		case *full_node:
			if len(key) == 0 {
				return nil, nil
			}
			tn = n.Children[key[0]]
			key = key[1:]
		case hash_node:
			if len(key) == 0 {
				return nil, nil
			}
			return key, n
		case nil:
			return key, nil
		case value_node:
			if len(key) != 0 {
				return nil, nil
			}
			return nil, n
		default:
			panic(fmt.Sprintf("%T: invalid node: %v", tn, tn))
		}
	}
}
