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

import "errors"

// Trie keys are dealt with in three distinct encodings:
//
// KEYBYTES encoding contains the actual key and nothing else. This encoding is the
// input to most API functions.
//
// HEX encoding contains one byte for each nibble of the key and an optional trailing
// 'terminator' byte of value 0x10 which indicates whether or not the node at the key
// contains a value. Hex key encoding is used for nodes loaded in memory because it's
// convenient to access.
//
// COMPACT encoding is defined by the Ethereum Yellow Paper (it's called "hex prefix
// encoding" there) and contains the bytes of the key and a flag. The high nibble of the
// first byte contains the flag; the lowest bit encoding the oddness of the length and
// the second-lowest encoding whether the node at the key is a value node. The low nibble
// of the first byte is zero in the case of an even number of nibbles and the first nibble
// in the case of an odd number. All remaining nibbles (now an even number) fit properly
// into the remaining bytes.

const terminator = 16

var (
	errEmptyCompactKey = errors.New("empty compact key")
	errBadCompactFlag  = errors.New("invalid compact key flag")
)

func hex_to_compact(in []byte) []byte {
	term := byte(0)
	if has_term(in) {
		term = 1
		in = in[:len(in)-1]
	}
	ret := make([]byte, len(in)/2+1)
	ret[0] = term << 5 // the flag byte
	if len(in)&1 == 1 {
		ret[0] |= 1 << 4 // odd flag
		ret[0] |= in[0]  // first nibble is contained in the first byte
		in = in[1:]
	}
	decode_nibbles(in, ret[1:])
	return ret
}

// compact_to_hex is the strict inverse of hex_to_compact: flags above 3 and
// a non-zero pad nibble on even keys are rejected.
func compact_to_hex(compact []byte) ([]byte, error) {
	if len(compact) == 0 {
		return nil, errEmptyCompactKey
	}
	flag := compact[0] >> 4
	if flag > 3 {
		return nil, errBadCompactFlag
	}
	odd := flag&1 == 1
	if !odd && compact[0]&0x0f != 0 {
		return nil, errBadCompactFlag
	}
	ret := keybytes_to_hex(compact)
	// drop the terminator keybytes_to_hex appends unless the flag asks for one
	if flag&2 == 0 {
		ret = ret[:len(ret)-1]
	}
	if odd {
		return ret[1:], nil
	}
	return ret[2:], nil
}

func keybytes_to_hex(str []byte) []byte {
	l := len(str)*2 + 1
	nibbles := make([]byte, l)
	for i, b := range str {
		nibbles[i*2] = b / 16
		nibbles[i*2+1] = b % 16
	}
	nibbles[l-1] = terminator
	return nibbles
}

// hex_to_keybytes turns hex nibbles into key bytes.
// This can only be used for keys of even length.
func hex_to_keybytes(hex []byte) []byte {
	if has_term(hex) {
		hex = hex[:len(hex)-1]
	}
	if len(hex)&1 != 0 {
		panic("can't convert hex key of odd length")
	}
	key := make([]byte, len(hex)/2)
	decode_nibbles(hex, key)
	return key
}

func decode_nibbles(nibbles []byte, bytes []byte) {
	for bi, ni := 0, 0; ni < len(nibbles); bi, ni = bi+1, ni+2 {
		bytes[bi] = nibbles[ni]<<4 | nibbles[ni+1]
	}
}

// prefix_len returns the length of the common prefix of a and b.
func prefix_len(a, b []byte) int {
	var i, length = 0, len(a)
	if len(b) < length {
		length = len(b)
	}
	for ; i < length; i++ {
		if a[i] != b[i] {
			break
		}
	}
	return i
}

// has_term returns whether a hex key has the terminator flag.
func has_term(s []byte) bool {
	return len(s) > 0 && s[len(s)-1] == terminator
}

func concat(s1 []byte, s2 ...byte) []byte {
	r := make([]byte, len(s1)+len(s2))
	copy(r, s1)
	copy(r[len(s1):], s2)
	return r
}
