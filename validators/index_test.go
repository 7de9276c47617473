package validators

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Taraxa-project/light-verifier/types"
	"github.com/Taraxa-project/light-verifier/verifyerr"
)

func test_set(weights ...uint32) []types.Validator {
	ret := make([]types.Validator, len(weights))
	for i, w := range weights {
		ret[i] = types.Validator{
			BlsPubKey:     []byte{byte(i)},
			Address:       common.BytesToAddress([]byte{byte(len(weights) - i)}),
			ProposeWeight: 1,
			VoteWeight:    w,
		}
	}
	return ret
}

func TestSortsByAddressWithoutTouchingInput(t *testing.T) {
	vals := test_set(1, 2, 3)
	orig := append([]types.Validator{}, vals...)
	idx, err := NewIndex(vals)
	require.NoError(t, err)
	assert.Equal(t, orig, vals)

	assert.Equal(t, 3, idx.Len())
	for i := 0; i < idx.Len(); i++ {
		assert.Equal(t, common.BytesToAddress([]byte{byte(i + 1)}), idx.At(i).Address)
	}
	// input order was descending by address
	assert.Equal(t, uint32(3), idx.At(0).VoteWeight)

	propose, vote := idx.TotalWeight()
	assert.Equal(t, uint64(3), propose)
	assert.Equal(t, uint64(6), vote)

	i, ok := idx.IndexOf(common.BytesToAddress([]byte{2}))
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = idx.IndexOf(common.BytesToAddress([]byte{9}))
	assert.False(t, ok)

	vals[0].BlsPubKey[0] = 0xff
	assert.NotEqual(t, byte(0xff), idx.At(2).BlsPubKey[0])
}

func TestRejectsInvalidSets(t *testing.T) {
	is_invalid := func(vals []types.Validator) {
		_, err := NewIndex(vals)
		assert.True(t, errors.Is(err, verifyerr.ErrInvalidValidatorSet), "%v", err)
	}
	is_invalid(nil)
	is_invalid(test_set(0, 0))

	dup := test_set(1, 1)
	dup[1].Address = dup[0].Address
	is_invalid(dup)

	no_propose := test_set(1)
	no_propose[0].ProposeWeight = 0
	is_invalid(no_propose)

	too_many := make([]types.Validator, MaxValidators+1)
	is_invalid(too_many)
}

func TestParticipants(t *testing.T) {
	idx, err := NewIndex(test_set(1, 1, 1, 1, 1, 1, 1, 1, 1, 1))
	require.NoError(t, err)

	got, err := idx.Participants([]byte{0x05, 0x02})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, idx.At(0).Address, got[0].Address)
	assert.Equal(t, idx.At(2).Address, got[1].Address)
	assert.Equal(t, idx.At(9).Address, got[2].Address)

	// too short
	_, err = idx.Participants([]byte{0xff})
	assert.True(t, errors.Is(err, verifyerr.ErrMalformedBitmap))
	// bit 10 is past the set
	_, err = idx.Participants([]byte{0x00, 0x04})
	assert.True(t, errors.Is(err, verifyerr.ErrMalformedBitmap))
	// trailing zero bytes are fine
	got, err = idx.Participants([]byte{0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.Empty(t, got)
	_, err = idx.Participants([]byte{0x00, 0x00, 0x01})
	assert.True(t, errors.Is(err, verifyerr.ErrMalformedBitmap))
}

func TestBitmap(t *testing.T) {
	idx, err := NewIndex(test_set(1, 1, 1, 1, 1, 1, 1, 1, 1))
	require.NoError(t, err)
	bm, err := idx.Bitmap(idx.At(0).Address, idx.At(8).Address)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x01}, bm)

	_, err = idx.Bitmap(common.HexToAddress("0xdead"))
	assert.Error(t, err)
}

func TestReorderInvariance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(t, "n")
		vals := make([]types.Validator, n)
		for i := range vals {
			vals[i] = types.Validator{
				Address:       common.BytesToAddress([]byte{byte(i), byte(i * 7)}),
				ProposeWeight: 1,
				VoteWeight:    rapid.Uint32Range(1, 1000).Draw(t, "w"),
			}
		}
		shuffled := rapid.Permutation(vals).Draw(t, "perm")
		a, err := NewIndex(vals)
		if err != nil {
			t.Fatal(err)
		}
		b, err := NewIndex(shuffled)
		if err != nil {
			t.Fatal(err)
		}
		bitmap := make([]byte, (n+7)/8)
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(t, "bit") {
				bitmap[i/8] |= 1 << (i % 8)
			}
		}
		pa, err := a.Participants(bitmap)
		if err != nil {
			t.Fatal(err)
		}
		pb, err := b.Participants(bitmap)
		if err != nil {
			t.Fatal(err)
		}
		if len(pa) != len(pb) {
			t.Fatalf("%d != %d participants", len(pa), len(pb))
		}
		for i := range pa {
			if pa[i].Address != pb[i].Address {
				t.Fatalf("participant %d differs", i)
			}
		}
		var addrs []common.Address
		for _, p := range pa {
			addrs = append(addrs, p.Address)
		}
		back, err := a.Bitmap(addrs...)
		if err != nil {
			t.Fatal(err)
		}
		if string(back) != string(bitmap) {
			t.Fatalf("bitmap %x != %x", back, bitmap)
		}
	})
}
