package receipts

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	gethtrie "github.com/ethereum/go-ethereum/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taraxa-project/light-verifier/trie"
	"github.com/Taraxa-project/light-verifier/verifyerr"
)

func random_receipts(rnd *rand.Rand, n int) types.Receipts {
	tx_types := []uint8{types.LegacyTxType, types.AccessListTxType, types.DynamicFeeTxType}
	ret := make(types.Receipts, n)
	gas := uint64(0)
	for i := range ret {
		var logs []*types.Log
		for j := rnd.Intn(3); j > 0; j-- {
			var addr common.Address
			var topic common.Hash
			rnd.Read(addr[:])
			rnd.Read(topic[:])
			data := make([]byte, rnd.Intn(100))
			rnd.Read(data)
			logs = append(logs, &types.Log{Address: addr, Topics: []common.Hash{topic}, Data: data})
		}
		gas += 21000 + uint64(rnd.Intn(100000))
		ret[i] = New(tx_types[rnd.Intn(len(tx_types))], rnd.Intn(5) == 0, gas, logs)
	}
	return ret
}

func TestRootMatchesDeriveSha(t *testing.T) {
	rnd := rand.New(rand.NewSource(0))
	for _, n := range []int{0, 1, 2, 16, 127, 128, 129, 300} {
		rs := random_receipts(rnd, n)
		root, err := Root(rs)
		require.NoError(t, err)
		assert.Equal(t, types.DeriveSha(rs, gethtrie.NewStackTrie(nil)), root, "%d receipts", n)
	}
	root, err := Root(nil)
	require.NoError(t, err)
	assert.Equal(t, types.EmptyRootHash, root)
}

func TestKey(t *testing.T) {
	assert.Equal(t, []byte{0x80}, Key(0))
	assert.Equal(t, []byte{0x7f}, Key(127))
	assert.Equal(t, []byte{0x81, 0x80}, Key(128))
	assert.Equal(t, []byte{0x82, 0x01, 0x00}, Key(256))
}

func TestProveAndVerify(t *testing.T) {
	rs := random_receipts(rand.New(rand.NewSource(1)), 200)
	tr, err := NewTrie(rs)
	require.NoError(t, err)
	root := tr.Root()

	for i, r := range rs {
		proof, err := tr.Prove(uint64(i))
		require.NoError(t, err)
		got, err := Verify(root, uint64(i), proof)
		require.NoError(t, err)
		require.NotNil(t, got)

		want_enc, err := Encode(r)
		require.NoError(t, err)
		got_enc, err := Encode(got)
		require.NoError(t, err)
		assert.Equal(t, want_enc, got_enc)
		assert.Equal(t, r.Type, got.Type)
		assert.Equal(t, r.Status, got.Status)
		assert.Equal(t, r.CumulativeGasUsed, got.CumulativeGasUsed)
	}

	_, err = tr.Prove(200)
	assert.Error(t, err)

	proof, _ := tr.Prove(3)
	_, err = Verify(root, 4, proof)
	assert.True(t, errors.Is(err, verifyerr.ErrVerifyMptProof))

	wrong := root
	wrong[31] ^= 0xff
	_, err = Verify(wrong, 3, proof)
	assert.True(t, errors.Is(err, verifyerr.ErrVerifyMptProof))
}

func TestVerifyAbsent(t *testing.T) {
	rs := random_receipts(rand.New(rand.NewSource(2)), 10)
	tr, err := NewTrie(rs)
	require.NoError(t, err)
	got, err := Verify(tr.Root(), 10, tr.trie.Prove(Key(10)))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestVerifyUndecodableReceipt(t *testing.T) {
	tr := trie.New()
	tr.Update(Key(0), []byte{0x05, 0xc0})
	root := tr.Hash()
	_, err := Verify(root, 0, tr.Prove(Key(0)))
	assert.Equal(t, verifyerr.KindVerifyMptProof, verifyerr.KindOf(err))
}
