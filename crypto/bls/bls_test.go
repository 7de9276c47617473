package bls

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taraxa-project/light-verifier/verifyerr"
)

func test_keys(t *testing.T, n int) []*SecretKey {
	ret := make([]*SecretKey, n)
	for i := range ret {
		ret[i] = SecretKeyFromSeed([]byte{byte(i), 'k'})
	}
	return ret
}

func TestSignVerify(t *testing.T) {
	sk := test_keys(t, 1)[0]
	msg := []byte("a test message to be signed")
	sig, err := sk.Sign(msg)
	require.NoError(t, err)
	assert.NoError(t, sig.Verify(sk.PublicKey(), msg))

	err = sig.Verify(sk.PublicKey(), []byte("another message"))
	assert.True(t, errors.Is(err, verifyerr.Bls(verifyerr.BlsVerifyFail, "")))
}

func TestEncodingRoundTrip(t *testing.T) {
	sk, err := GenerateKey(nil)
	require.NoError(t, err)
	pk := sk.PublicKey()
	raw := pk.Bytes()
	require.Len(t, raw, PublicKeySize)
	decoded, err := DecodePublicKey(raw)
	require.NoError(t, err)
	assert.True(t, pk.Equal(decoded))

	sig, err := sk.Sign([]byte("m"))
	require.NoError(t, err)
	sig_raw := sig.Bytes()
	require.Len(t, sig_raw, SignatureSize)
	decoded_sig, err := DecodeSignature(sig_raw)
	require.NoError(t, err)
	assert.Equal(t, sig_raw, decoded_sig.Bytes())
	assert.Len(t, sk.Bytes(), SecretKeySize)
}

func TestAggregateVerify(t *testing.T) {
	sks := test_keys(t, 5)
	msg := []byte("vote digest")
	var pks []*PublicKey
	var sigs []*Signature
	for _, sk := range sks {
		sig, err := sk.Sign(msg)
		require.NoError(t, err)
		sigs = append(sigs, sig)
		pks = append(pks, sk.PublicKey())
	}
	agg_pk, err := AggregatePublicKeys(pks)
	require.NoError(t, err)
	agg_sig, err := AggregateSignatures(sigs)
	require.NoError(t, err)
	assert.NoError(t, agg_sig.Verify(agg_pk, msg))

	// one signer short
	partial, err := AggregatePublicKeys(pks[:4])
	require.NoError(t, err)
	assert.Error(t, agg_sig.Verify(partial, msg))
}

func TestAggregateEmpty(t *testing.T) {
	_, err := AggregatePublicKeys(nil)
	assert.Equal(t, verifyerr.BlsAggrTypeMismatch, verifyerr.ReasonOf(err))
	_, err = AggregateSignatures(nil)
	assert.Equal(t, verifyerr.BlsAggrTypeMismatch, verifyerr.ReasonOf(err))
}

func TestDecodeRejects(t *testing.T) {
	pk := test_keys(t, 1)[0].PublicKey().Bytes()

	_, err := DecodePublicKey(pk[:47])
	assert.Equal(t, verifyerr.BlsBadEncoding, verifyerr.ReasonOf(err))

	uncompressed := append([]byte{}, pk...)
	uncompressed[0] &^= compressed_flag
	_, err = DecodePublicKey(uncompressed)
	assert.Equal(t, verifyerr.BlsBadEncoding, verifyerr.ReasonOf(err))

	infinity := make([]byte, PublicKeySize)
	infinity[0] = 0xc0
	_, err = DecodePublicKey(infinity)
	assert.Equal(t, verifyerr.BlsPkIsInfinity, verifyerr.ReasonOf(err))

	_, err = DecodeSignature(make([]byte, SignatureSize))
	assert.Equal(t, verifyerr.BlsBadEncoding, verifyerr.ReasonOf(err))
}

func TestFlippedSignatureBitRejected(t *testing.T) {
	sk := test_keys(t, 1)[0]
	msg := []byte("flip")
	sig, err := sk.Sign(msg)
	require.NoError(t, err)
	raw := sig.Bytes()
	for _, pos := range []int{5, 47, 95} {
		flipped := append([]byte{}, raw...)
		flipped[pos] ^= 1
		decoded, err := DecodeSignature(flipped)
		if err != nil {
			assert.True(t, errors.Is(err, verifyerr.ErrBls))
			continue
		}
		assert.Error(t, decoded.Verify(sk.PublicKey(), msg), "byte %d", pos)
	}
}

func TestKeyCache(t *testing.T) {
	cache, err := NewKeyCache(2)
	require.NoError(t, err)
	sks := test_keys(t, 3)
	for _, sk := range sks {
		raw := sk.PublicKey().Bytes()
		first, err := cache.PublicKey(raw)
		require.NoError(t, err)
		second, err := cache.PublicKey(raw)
		require.NoError(t, err)
		assert.Same(t, first, second)
	}
	assert.Equal(t, 2, cache.Len())

	_, err = cache.PublicKey([]byte{1, 2, 3})
	assert.Error(t, err)
	assert.Equal(t, 2, cache.Len())
}
