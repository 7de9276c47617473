package quorum

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Taraxa-project/light-verifier/crypto/bls"
	"github.com/Taraxa-project/light-verifier/types"
	"github.com/Taraxa-project/light-verifier/util/tests"
	"github.com/Taraxa-project/light-verifier/validators"
	"github.com/Taraxa-project/light-verifier/verifyerr"
)

var digest = common.HexToHash("0x5ca1ab1e")

func proof_by(t *testing.T, c *tests.Committee, positions ...int) *types.Proof {
	sig, bitmap := c.Sign(t, digest[:], positions...)
	return &types.Proof{Signature: sig, Bitmap: bitmap}
}

func TestFourEqualValidators(t *testing.T) {
	c := tests.NewCommittee(t, 1, 1, 1, 1)

	assert.NoError(t, Verify(c.Index, proof_by(t, c, 0, 1, 3), digest))
	assert.NoError(t, Verify(c.Index, proof_by(t, c, c.All()...), digest))

	err := Verify(c.Index, proof_by(t, c, 0, 1), digest)
	assert.True(t, errors.Is(err, verifyerr.ErrNotEnoughSignatures), "%v", err)
}

func TestThresholdBoundary(t *testing.T) {
	// total 3: W=2 gives 6 > 6, false
	c := tests.NewCommittee(t, 1, 1, 1)
	err := Verify(c.Index, proof_by(t, c, 0, 1), digest)
	assert.True(t, errors.Is(err, verifyerr.ErrNotEnoughSignatures))

	// total 5: W=4 gives 12 > 10, and 3W == 2T+2; W=3 gives 9 > 10, false
	c = tests.NewCommittee(t, 1, 3, 1)
	assert.NoError(t, Verify(c.Index, proof_by(t, c, 1, 2), digest))
	err = Verify(c.Index, proof_by(t, c, 1), digest)
	assert.True(t, errors.Is(err, verifyerr.ErrNotEnoughSignatures))

	assert.False(t, HasSupermajority(2, 3))
	assert.True(t, HasSupermajority(3, 4))
	// 3W == 2T + 1
	assert.True(t, HasSupermajority(5, 7))
	// 3W == 2T
	assert.False(t, HasSupermajority(6, 9))
}

func TestWeightCheckRunsBeforeCrypto(t *testing.T) {
	c := tests.NewCommittee(t, 1, 1, 1, 1)
	p := proof_by(t, c, 0)
	p.Signature = []byte{0xde, 0xad}
	err := Verify(c.Index, p, digest)
	assert.True(t, errors.Is(err, verifyerr.ErrNotEnoughSignatures), "%v", err)

	// a validator with a broken key only matters once it participates
	vals := c.Validators()
	vals[3].BlsPubKey = []byte{1, 2, 3}
	idx, err := validators.NewIndex(vals)
	require.NoError(t, err)
	assert.NoError(t, Verify(idx, proof_by(t, c, 0, 1, 2), digest))
	err = Verify(idx, proof_by(t, c, c.All()...), digest)
	assert.Equal(t, verifyerr.BlsBadEncoding, verifyerr.ReasonOf(err))
}

func TestWrongMessageOrSigner(t *testing.T) {
	c := tests.NewCommittee(t, 1, 1, 1, 1)
	p := proof_by(t, c, 0, 1, 2)
	err := Verify(c.Index, p, common.HexToHash("0x01"))
	assert.Equal(t, verifyerr.BlsVerifyFail, verifyerr.ReasonOf(err))

	// signed by 0,1,2 but claims 1,2,3
	p.Bitmap = []byte{0x0e}
	err = Verify(c.Index, p, digest)
	assert.Equal(t, verifyerr.BlsVerifyFail, verifyerr.ReasonOf(err))
}

func TestSignatureBitFlips(t *testing.T) {
	c := tests.NewCommittee(t, 1, 1, 1, 1)
	p := proof_by(t, c, 0, 1, 2)
	require.NoError(t, Verify(c.Index, p, digest))
	for _, bit := range []int{0, 3, 8, 100, 383, 767} {
		flipped := *p
		flipped.Signature = append([]byte{}, p.Signature...)
		flipped.Signature[bit/8] ^= 1 << (bit % 8)
		err := Verify(c.Index, &flipped, digest)
		assert.True(t, errors.Is(err, verifyerr.ErrBls), "bit %d: %v", bit, err)
	}
}

func TestMalformedBitmap(t *testing.T) {
	c := tests.NewCommittee(t, 1, 1, 1, 1)
	p := proof_by(t, c, 0, 1, 2)
	p.Bitmap = []byte{0x17}
	assert.True(t, errors.Is(Verify(c.Index, p, digest), verifyerr.ErrMalformedBitmap))
	p.Bitmap = nil
	assert.True(t, errors.Is(Verify(c.Index, p, digest), verifyerr.ErrMalformedBitmap))
}

func TestCachedKeysAgree(t *testing.T) {
	cache, err := bls.NewKeyCache(16)
	require.NoError(t, err)
	cached := Verifier{Keys: cache}
	c := tests.NewCommittee(t, 2, 1, 1, 1, 3)
	for _, positions := range [][]int{{0, 1, 4}, {0, 4}, {1, 2, 3}, c.All()} {
		p := proof_by(t, c, positions...)
		want := Verify(c.Index, p, digest)
		got := cached.Verify(c.Index, p, digest)
		assert.Equal(t, verifyerr.KindOf(want), verifyerr.KindOf(got), "%v", positions)
		assert.Equal(t, want == nil, got == nil)
	}
	assert.Equal(t, 5, cache.Len())
}

// Any bitmap over any weights is accepted exactly when the signers hold a
// strict two-thirds supermajority. Signing is real, so sizes stay small.
func TestQuorumProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "n")
		weights := make([]uint32, n)
		var total uint64
		for i := range weights {
			weights[i] = rapid.Uint32Range(1, 10).Draw(rt, "weight")
			total += uint64(weights[i])
		}
		c := tests.NewCommittee(t, weights...)
		var positions []int
		var w uint64
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(rt, "signs") {
				positions = append(positions, i)
				w += uint64(c.Index.At(i).VoteWeight)
			}
		}
		err := Verify(c.Index, proof_by(t, c, positions...), digest)
		if 3*w > 2*total {
			if err != nil {
				rt.Fatalf("W=%d T=%d rejected: %v", w, total, err)
			}
		} else if !errors.Is(err, verifyerr.ErrNotEnoughSignatures) {
			rt.Fatalf("W=%d T=%d: got %v", w, total, err)
		}
	})
}
