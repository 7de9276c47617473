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

package trie

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

type node interface {
	fstring(string) string
	cached_hash() hash_node
	encode(w rlp.EncoderBuffer)
}

type node_flag struct {
	hash hash_node // cached hash of the node (may be nil)
}

type full_node struct {
	Children [17]node
	flags    node_flag
}

func (n *full_node) cached_hash() hash_node { return n.flags.hash }
func (n *full_node) copy() *full_node       { copy := *n; return &copy }
func (n *full_node) String() string         { return n.fstring("") }

var indices = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f", "[17]"}

func (n *full_node) fstring(ind string) string {
	resp := fmt.Sprintf("[\n%s  ", ind)
	for i, node := range &n.Children {
		if node == nil {
			resp += fmt.Sprintf("%s: <nil> ", indices[i])
		} else {
			resp += fmt.Sprintf("%s: %v", indices[i], node.fstring(ind+"  "))
		}
	}
	return resp + fmt.Sprintf("\n%s] ", ind)
}

// short_node is a leaf when Key ends with the terminator, an extension
// otherwise. Key is hex encoded in memory and compact once collapsed.
type short_node struct {
	Key   []byte
	Val   node
	flags node_flag
}

func (n *short_node) cached_hash() hash_node { return n.flags.hash }
func (n *short_node) copy() *short_node      { copy := *n; return &copy }
func (n *short_node) String() string         { return n.fstring("") }
func (n *short_node) fstring(ind string) string {
	return fmt.Sprintf("{%x: %v} ", n.Key, n.Val.fstring(ind+"  "))
}

type hash_node []byte

func (n hash_node) cached_hash() hash_node { return nil }
func (n hash_node) String() string         { return n.fstring("") }
func (n hash_node) fstring(string) string  { return fmt.Sprintf("<%x> ", []byte(n)) }

type value_node []byte

func (n value_node) cached_hash() hash_node { return nil }
func (n value_node) String() string         { return n.fstring("") }
func (n value_node) fstring(string) string  { return fmt.Sprintf("%x ", []byte(n)) }

// The encoders below expect collapsed nodes: compact keys and children
// replaced by their hash or, when shorter than a hash, embedded.

func (n *full_node) encode(w rlp.EncoderBuffer) {
	offset := w.List()
	for _, c := range n.Children[:16] {
		if c != nil {
			c.encode(w)
		} else {
			w.Write(rlp.EmptyString)
		}
	}
	if v, ok := n.Children[16].(value_node); ok {
		w.WriteBytes(v)
	} else {
		w.Write(rlp.EmptyString)
	}
	w.ListEnd(offset)
}

func (n *short_node) encode(w rlp.EncoderBuffer) {
	offset := w.List()
	w.WriteBytes(n.Key)
	n.Val.encode(w)
	w.ListEnd(offset)
}

func (n hash_node) encode(w rlp.EncoderBuffer) {
	w.WriteBytes(n)
}

func (n value_node) encode(w rlp.EncoderBuffer) {
	w.WriteBytes(n)
}

func node_to_bytes(n node) []byte {
	w := rlp.NewEncoderBuffer(nil)
	n.encode(w)
	result := w.ToBytes()
	w.Flush()
	return result
}

// decode_node parses one proof node. Every structural defect is an error:
// the input comes from an untrusted prover.
func decode_node(buf []byte) (node, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("empty node")
	}
	elems, rest, err := rlp.SplitList(buf)
	if err != nil {
		return nil, fmt.Errorf("decode node: %v", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%d trailing bytes after node", len(rest))
	}
	switch c, _ := rlp.CountValues(elems); c {
	case 2:
		n, err := decode_short(elems)
		if err != nil {
			return nil, fmt.Errorf("short node: %v", err)
		}
		return n, nil
	case 17:
		n, err := decode_full(elems)
		if err != nil {
			return nil, fmt.Errorf("full node: %v", err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("invalid number of list elements: %v", c)
	}
}

func decode_short(elems []byte) (node, error) {
	kbuf, rest, err := rlp.SplitString(elems)
	if err != nil {
		return nil, err
	}
	key, err := compact_to_hex(kbuf)
	if err != nil {
		return nil, err
	}
	if has_term(key) {
		val, _, err := rlp.SplitString(rest)
		if err != nil {
			return nil, fmt.Errorf("invalid value node: %v", err)
		}
		return &short_node{Key: key, Val: append(value_node{}, val...)}, nil
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("empty extension key")
	}
	r, _, err := decode_ref(rest)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("extension without child")
	}
	return &short_node{Key: key, Val: r}, nil
}

func decode_full(elems []byte) (*full_node, error) {
	n := &full_node{}
	for i := 0; i < 16; i++ {
		cld, rest, err := decode_ref(elems)
		if err != nil {
			return n, fmt.Errorf("child %d: %v", i, err)
		}
		n.Children[i], elems = cld, rest
	}
	val, _, err := rlp.SplitString(elems)
	if err != nil {
		return n, fmt.Errorf("invalid value: %v", err)
	}
	if len(val) > 0 {
		n.Children[16] = append(value_node{}, val...)
	}
	return n, nil
}

func decode_ref(buf []byte) (node, []byte, error) {
	kind, val, rest, err := rlp.Split(buf)
	if err != nil {
		return nil, buf, err
	}
	switch {
	case kind == rlp.List:
		// 'embedded' node reference. The encoding must be smaller
		// than a hash in order to be valid.
		if size := len(buf) - len(rest); size >= common.HashLength {
			err := fmt.Errorf("oversized embedded node (size is %d bytes, want size < %d)", size, common.HashLength)
			return nil, buf, err
		}
		n, err := decode_node(buf[:len(buf)-len(rest)])
		return n, rest, err
	case kind == rlp.String && len(val) == 0:
		// empty node
		return nil, rest, nil
	case kind == rlp.String && len(val) == common.HashLength:
		return append(hash_node{}, val...), rest, nil
	default:
		return nil, nil, fmt.Errorf("invalid RLP string size %d (want 0 or 32)", len(val))
	}
}
