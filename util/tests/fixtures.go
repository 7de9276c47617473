// Package tests holds fixtures shared by the package tests: deterministic
// validator committees and blocks finalized by them.
package tests

import (
	"encoding/binary"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/Taraxa-project/light-verifier/crypto/bls"
	"github.com/Taraxa-project/light-verifier/digest"
	"github.com/Taraxa-project/light-verifier/types"
	"github.com/Taraxa-project/light-verifier/validators"
)

func SimpleAddr(i int) (ret common.Address) {
	binary.BigEndian.PutUint64(ret[12:], uint64(i)+1)
	return
}

// Committee is a validator set whose secret keys are known.
type Committee struct {
	Index *validators.Index
	keys  map[common.Address]*bls.SecretKey
}

// NewCommittee derives one validator per weight. Keys and addresses depend
// only on the position, so fixtures are stable across runs.
func NewCommittee(t testing.TB, weights ...uint32) *Committee {
	ret := &Committee{keys: make(map[common.Address]*bls.SecretKey)}
	vals := make([]types.Validator, len(weights))
	for i, w := range weights {
		sk := bls.SecretKeyFromSeed(append([]byte("validator"), byte(i), byte(i>>8)))
		addr := SimpleAddr(i)
		ret.keys[addr] = sk
		vals[i] = types.Validator{
			BlsPubKey:     sk.PublicKey().Bytes(),
			Address:       addr,
			ProposeWeight: 1,
			VoteWeight:    w,
		}
	}
	var err error
	ret.Index, err = validators.NewIndex(vals)
	require.NoError(t, err)
	return ret
}

func (self *Committee) Validators() []types.Validator {
	return self.Index.Validators()
}

// Sign aggregates the signatures over msg of the validators at the given
// index positions and returns the signature with the matching bitmap.
func (self *Committee) Sign(t testing.TB, msg []byte, positions ...int) (sig []byte, bitmap []byte) {
	var sigs []*bls.Signature
	var addrs []common.Address
	for _, i := range positions {
		addr := self.Index.At(i).Address
		s, err := self.keys[addr].Sign(msg)
		require.NoError(t, err)
		sigs = append(sigs, s)
		addrs = append(addrs, addr)
	}
	bitmap, err := self.Index.Bitmap(addrs...)
	require.NoError(t, err)
	if len(sigs) == 0 {
		return make([]byte, bls.SignatureSize), bitmap
	}
	agg, err := bls.AggregateSignatures(sigs)
	require.NoError(t, err)
	return agg.Bytes(), bitmap
}

// All lists every index position.
func (self *Committee) All() []int {
	ret := make([]int, self.Index.Len())
	for i := range ret {
		ret[i] = i
	}
	return ret
}

// Certify produces the precommit proof of block on top of prevStateRoot,
// signed by the given positions.
func (self *Committee) Certify(t testing.TB, block *types.Block, prevStateRoot common.Hash, round uint64, positions ...int) *types.Proof {
	hash, err := digest.BlockHash(block, prevStateRoot)
	require.NoError(t, err)
	ret := &types.Proof{
		Number:    block.Header.Number(),
		Round:     round,
		BlockHash: hash,
	}
	d := digest.PrecommitDigest(ret)
	ret.Signature, ret.Bitmap = self.Sign(t, d[:], positions...)
	return ret
}

// NewBlock builds a block of the given format with distinct roots derived
// from number.
func NewBlock(format types.Format, number uint64, prevHash common.Hash) *types.Block {
	seed := func(tag byte) common.Hash {
		var h common.Hash
		h[0] = tag
		binary.BigEndian.PutUint64(h[24:], number)
		return h
	}
	f := types.HeaderFields{
		PrevHash:              prevHash,
		Proposer:              SimpleAddr(0),
		StateRoot:             seed(1),
		TransactionsRoot:      seed(2),
		SignedTxsHash:         seed(3),
		ReceiptsRoot:          seed(4),
		Timestamp:             1700000000 + number*3,
		Number:                number,
		GasUsed:               types.NewU256(21000),
		GasLimit:              types.NewU256(30000000),
		BaseFeePerGas:         types.NewU256(1),
		CallSystemScriptCount: 0,
		ChainID:               2022,
	}
	if number > 0 {
		f.Proof = types.Proof{Number: number - 1, BlockHash: prevHash}
	}
	b := &types.Block{TxHashes: []common.Hash{seed(5)}}
	switch format {
	case types.FormatLegacy:
		b.Header = types.NewLegacyHeader(&types.LegacyHeader{HeaderFields: f})
	default:
		b.Header = types.NewHeaderV0(&types.HeaderV0{HeaderFields: f})
	}
	return b
}
