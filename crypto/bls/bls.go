// Package bls implements the min-pk BLS12-381 signature scheme used by the
// validators: 48-byte compressed G1 public keys, 96-byte compressed G2
// signatures and the proof-of-possession ciphersuite.
package bls

import (
	"bytes"
	"crypto/rand"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/Taraxa-project/light-verifier/crypto/keccak256"
	"github.com/Taraxa-project/light-verifier/verifyerr"
)

const (
	PublicKeySize = bls12381.SizeOfG1AffineCompressed
	SignatureSize = bls12381.SizeOfG2AffineCompressed
	SecretKeySize = fr.Bytes
)

// DST is the hash-to-curve domain separation tag of the POP ciphersuite.
var DST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

const compressed_flag = 0x80

type PublicKey struct {
	p bls12381.G1Affine
}

type Signature struct {
	p bls12381.G2Affine
}

type SecretKey struct {
	s big.Int
}

// DecodePublicKey parses a compressed key and checks it is a non-identity
// member of the prime-order subgroup.
func DecodePublicKey(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeySize || b[0]&compressed_flag == 0 {
		return nil, verifyerr.Bls(verifyerr.BlsBadEncoding, "public key must be %d compressed bytes, got %d", PublicKeySize, len(b))
	}
	ret := new(PublicKey)
	dec := bls12381.NewDecoder(bytes.NewReader(b), bls12381.NoSubgroupChecks())
	if err := dec.Decode(&ret.p); err != nil {
		return nil, verifyerr.Bls(verifyerr.BlsBadEncoding, "public key: %v", err)
	}
	if ret.p.IsInfinity() {
		return nil, verifyerr.Bls(verifyerr.BlsPkIsInfinity, "public key is the identity")
	}
	if !ret.p.IsOnCurve() {
		return nil, verifyerr.Bls(verifyerr.BlsPointNotOnCurve, "public key")
	}
	if !ret.p.IsInSubGroup() {
		return nil, verifyerr.Bls(verifyerr.BlsPointNotInGroup, "public key")
	}
	return ret, nil
}

func DecodeSignature(b []byte) (*Signature, error) {
	if len(b) != SignatureSize || b[0]&compressed_flag == 0 {
		return nil, verifyerr.Bls(verifyerr.BlsBadEncoding, "signature must be %d compressed bytes, got %d", SignatureSize, len(b))
	}
	ret := new(Signature)
	dec := bls12381.NewDecoder(bytes.NewReader(b), bls12381.NoSubgroupChecks())
	if err := dec.Decode(&ret.p); err != nil {
		return nil, verifyerr.Bls(verifyerr.BlsBadEncoding, "signature: %v", err)
	}
	if !ret.p.IsOnCurve() {
		return nil, verifyerr.Bls(verifyerr.BlsPointNotOnCurve, "signature")
	}
	if !ret.p.IsInSubGroup() {
		return nil, verifyerr.Bls(verifyerr.BlsPointNotInGroup, "signature")
	}
	return ret, nil
}

func (self *PublicKey) Bytes() []byte {
	b := self.p.Bytes()
	return b[:]
}

func (self *PublicKey) Equal(other *PublicKey) bool {
	return self.p.Equal(&other.p)
}

func (self *Signature) Bytes() []byte {
	b := self.p.Bytes()
	return b[:]
}

// AggregatePublicKeys adds the points. Inputs come from DecodePublicKey and are
// already subgroup checked.
func AggregatePublicKeys(pks []*PublicKey) (*PublicKey, error) {
	if len(pks) == 0 {
		return nil, verifyerr.Bls(verifyerr.BlsAggrTypeMismatch, "no public keys to aggregate")
	}
	var acc bls12381.G1Jac
	acc.FromAffine(&pks[0].p)
	for _, pk := range pks[1:] {
		acc.AddMixed(&pk.p)
	}
	ret := new(PublicKey)
	ret.p.FromJacobian(&acc)
	if ret.p.IsInfinity() {
		return nil, verifyerr.Bls(verifyerr.BlsPkIsInfinity, "aggregate public key is the identity")
	}
	return ret, nil
}

func AggregateSignatures(sigs []*Signature) (*Signature, error) {
	if len(sigs) == 0 {
		return nil, verifyerr.Bls(verifyerr.BlsAggrTypeMismatch, "no signatures to aggregate")
	}
	var acc bls12381.G2Jac
	acc.FromAffine(&sigs[0].p)
	for _, sig := range sigs[1:] {
		acc.AddMixed(&sig.p)
	}
	ret := new(Signature)
	ret.p.FromJacobian(&acc)
	return ret, nil
}

// Verify checks e(g1, sig) == e(pk, H(msg)).
func (self *Signature) Verify(pk *PublicKey, msg []byte) error {
	h, err := bls12381.HashToG2(msg, DST)
	if err != nil {
		return verifyerr.Bls(verifyerr.BlsBadEncoding, "hash to curve: %v", err)
	}
	_, _, g1, _ := bls12381.Generators()
	var neg_g1 bls12381.G1Affine
	neg_g1.Neg(&g1)
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{neg_g1, pk.p},
		[]bls12381.G2Affine{self.p, h})
	if err != nil {
		return verifyerr.Bls(verifyerr.BlsVerifyFail, "pairing: %v", err)
	}
	if !ok {
		return verifyerr.Bls(verifyerr.BlsVerifyFail, "")
	}
	return nil
}

func GenerateKey(r io.Reader) (*SecretKey, error) {
	if r == nil {
		r = rand.Reader
	}
	for {
		s, err := rand.Int(r, fr.Modulus())
		if err != nil {
			return nil, err
		}
		if s.Sign() != 0 {
			ret := new(SecretKey)
			ret.s.Set(s)
			return ret, nil
		}
	}
}

// SecretKeyFromSeed derives a key deterministically. Meant for fixtures and
// devnets, not for production keys.
func SecretKeyFromSeed(seed []byte) *SecretKey {
	h := keccak256.Hash(seed)
	ret := new(SecretKey)
	ret.s.SetBytes(h[:])
	ret.s.Mod(&ret.s, fr.Modulus())
	if ret.s.Sign() == 0 {
		ret.s.SetUint64(1)
	}
	return ret
}

func (self *SecretKey) PublicKey() *PublicKey {
	_, _, g1, _ := bls12381.Generators()
	ret := new(PublicKey)
	ret.p.ScalarMultiplication(&g1, &self.s)
	return ret
}

func (self *SecretKey) Sign(msg []byte) (*Signature, error) {
	h, err := bls12381.HashToG2(msg, DST)
	if err != nil {
		return nil, err
	}
	ret := new(Signature)
	ret.p.ScalarMultiplication(&h, &self.s)
	return ret, nil
}

func (self *SecretKey) Bytes() []byte {
	ret := make([]byte, SecretKeySize)
	self.s.FillBytes(ret)
	return ret
}
