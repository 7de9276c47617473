// Package receipts commits block receipts to a trie the way the header's
// receipts root does: key rlp(index), value the EIP-2718 receipt encoding.
package receipts

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/Taraxa-project/light-verifier/trie"
	"github.com/Taraxa-project/light-verifier/verifyerr"
)

// New builds a consensus receipt with its bloom filled in.
func New(tx_type uint8, failed bool, cumulative_gas uint64, logs []*types.Log) *types.Receipt {
	ret := types.NewReceipt(nil, failed, cumulative_gas)
	ret.Type = tx_type
	ret.Logs = logs
	ret.Bloom = types.CreateBloom(types.Receipts{ret})
	return ret
}

func Key(index uint64) []byte {
	return rlp.AppendUint64(nil, index)
}

// Encode returns the consensus encoding of r: plain RLP for legacy receipts,
// type byte followed by RLP for typed ones.
func Encode(r *types.Receipt) ([]byte, error) {
	return r.MarshalBinary()
}

func Decode(enc []byte) (*types.Receipt, error) {
	ret := new(types.Receipt)
	if err := ret.UnmarshalBinary(enc); err != nil {
		return nil, err
	}
	return ret, nil
}

// Trie holds the receipts of one block.
type Trie struct {
	trie  *trie.Trie
	count int
}

func NewTrie(rs types.Receipts) (*Trie, error) {
	t := trie.New()
	for i, r := range rs {
		enc, err := Encode(r)
		if err != nil {
			return nil, fmt.Errorf("receipt %d: %w", i, err)
		}
		t.Update(Key(uint64(i)), enc)
	}
	return &Trie{t, len(rs)}, nil
}

func (self *Trie) Root() common.Hash {
	return self.trie.Hash()
}

func (self *Trie) Prove(index uint64) ([][]byte, error) {
	if index >= uint64(self.count) {
		return nil, fmt.Errorf("receipt index %d out of range [0, %d)", index, self.count)
	}
	return self.trie.Prove(Key(index)), nil
}

// Root is the receipts root of a block holding rs.
func Root(rs types.Receipts) (common.Hash, error) {
	t, err := NewTrie(rs)
	if err != nil {
		return common.Hash{}, err
	}
	return t.Root(), nil
}

// Verify resolves the receipt at index under root. It returns nil without an
// error when the proof shows no receipt at index. An undecodable receipt
// under a valid proof is a VerifyMptProof error.
func Verify(root common.Hash, index uint64, proof [][]byte) (*types.Receipt, error) {
	enc, err := trie.VerifyProofStrict(root, Key(index), proof)
	if err != nil || enc == nil {
		return nil, err
	}
	ret, err := Decode(enc)
	if err != nil {
		return nil, verifyerr.New(verifyerr.KindVerifyMptProof, "receipt %d: %v", index, err)
	}
	return ret, nil
}
