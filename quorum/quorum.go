// Package quorum checks that an aggregate BLS signature carries a strict
// two-thirds supermajority of a validator set's vote weight.
package quorum

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Taraxa-project/light-verifier/crypto/bls"
	"github.com/Taraxa-project/light-verifier/types"
	"github.com/Taraxa-project/light-verifier/validators"
	"github.com/Taraxa-project/light-verifier/verifyerr"
)

// Verifier verifies quorum certificates, taking decoded public keys from Keys.
// The zero value decodes every key on every call.
type Verifier struct {
	Keys bls.KeySource
}

// HasSupermajority reports 3*weight > 2*total. Both operands stay below
// 2^32 * validators.MaxValidators, so the products cannot overflow.
func HasSupermajority(weight, total uint64) bool {
	return 3*weight > 2*total
}

// Weight sums the vote weight of the participants.
func Weight(participants []*types.Validator) (ret uint64) {
	for _, v := range participants {
		ret += uint64(v.VoteWeight)
	}
	return
}

// Verify checks that proof's signature over digest comes from validators
// holding more than two thirds of the set's vote weight. The weight check
// runs before any point is decoded.
func (self Verifier) Verify(set *validators.Index, proof *types.Proof, digest common.Hash) error {
	participants, err := set.Participants(proof.Bitmap)
	if err != nil {
		return err
	}
	_, total := set.TotalWeight()
	if w := Weight(participants); !HasSupermajority(w, total) {
		return verifyerr.New(verifyerr.KindNotEnoughSignatures, "vote weight %d of %d", w, total)
	}
	keys := self.Keys
	if keys == nil {
		keys = bls.Decoder
	}
	pks := make([]*bls.PublicKey, len(participants))
	for i, v := range participants {
		if pks[i], err = keys.PublicKey(v.BlsPubKey); err != nil {
			return err
		}
	}
	agg, err := bls.AggregatePublicKeys(pks)
	if err != nil {
		return err
	}
	sig, err := bls.DecodeSignature(proof.Signature)
	if err != nil {
		return err
	}
	return sig.Verify(agg, digest[:])
}

// Verify is Verifier.Verify without a key cache.
func Verify(set *validators.Index, proof *types.Proof, digest common.Hash) error {
	return Verifier{}.Verify(set, proof, digest)
}
