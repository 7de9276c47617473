// Package validators indexes a validator set in address order, the order
// participation bitmaps refer to.
package validators

import (
	"bytes"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Taraxa-project/light-verifier/types"
	"github.com/Taraxa-project/light-verifier/verifyerr"
)

// MaxValidators bounds the set so that weight sums stay far from uint64
// overflow even when multiplied by 3.
const MaxValidators = 65535

// Index is an immutable, address-sorted validator set.
type Index struct {
	validators    []types.Validator
	by_address    *treemap.Map
	total_propose uint64
	total_vote    uint64
}

func address_comparator(a, b interface{}) int {
	l, r := a.(common.Address), b.(common.Address)
	return bytes.Compare(l[:], r[:])
}

// NewIndex copies and sorts the given validators. The caller's slice is not
// touched.
func NewIndex(vals []types.Validator) (*Index, error) {
	if len(vals) == 0 {
		return nil, verifyerr.New(verifyerr.KindInvalidValidatorSet, "empty validator set")
	}
	if len(vals) > MaxValidators {
		return nil, verifyerr.New(verifyerr.KindInvalidValidatorSet, "%d validators, max %d", len(vals), MaxValidators)
	}
	sorted := treemap.NewWith(address_comparator)
	for i := range vals {
		if _, dup := sorted.Get(vals[i].Address); dup {
			return nil, verifyerr.New(verifyerr.KindInvalidValidatorSet, "duplicate validator %s", vals[i].Address.Hex())
		}
		sorted.Put(vals[i].Address, vals[i].Copy())
	}
	ret := &Index{
		validators: make([]types.Validator, 0, len(vals)),
		by_address: treemap.NewWith(address_comparator),
	}
	it := sorted.Iterator()
	for it.Next() {
		v := it.Value().(types.Validator)
		ret.by_address.Put(v.Address, len(ret.validators))
		ret.validators = append(ret.validators, v)
		ret.total_propose += uint64(v.ProposeWeight)
		ret.total_vote += uint64(v.VoteWeight)
	}
	if ret.total_propose == 0 {
		return nil, verifyerr.New(verifyerr.KindInvalidValidatorSet, "zero total propose weight")
	}
	if ret.total_vote == 0 {
		return nil, verifyerr.New(verifyerr.KindInvalidValidatorSet, "zero total vote weight")
	}
	return ret, nil
}

func (self *Index) TotalWeight() (propose, vote uint64) {
	return self.total_propose, self.total_vote
}

func (self *Index) Len() int {
	return len(self.validators)
}

// At returns the validator at bitmap position i.
func (self *Index) At(i int) types.Validator {
	return self.validators[i].Copy()
}

func (self *Index) Validators() []types.Validator {
	ret := make([]types.Validator, len(self.validators))
	for i := range self.validators {
		ret[i] = self.validators[i].Copy()
	}
	return ret
}

func (self *Index) IndexOf(addr common.Address) (int, bool) {
	i, ok := self.by_address.Get(addr)
	if !ok {
		return -1, false
	}
	return i.(int), true
}

func bit_set(bitmap []byte, i int) bool {
	return bitmap[i/8]>>(uint(i)%8)&1 == 1
}

// Participants returns the validators flagged in bitmap, in index order.
// Bit i of the set is bit i%8 (least significant first) of byte i/8.
// The returned entries belong to the index and must not be modified.
func (self *Index) Participants(bitmap []byte) ([]*types.Validator, error) {
	n := len(self.validators)
	if len(bitmap)*8 < n {
		return nil, verifyerr.New(verifyerr.KindMalformedBitmap, "%d bits for %d validators", len(bitmap)*8, n)
	}
	for i := n; i < len(bitmap)*8; i++ {
		if bit_set(bitmap, i) {
			return nil, verifyerr.New(verifyerr.KindMalformedBitmap, "bit %d set past %d validators", i, n)
		}
	}
	var ret []*types.Validator
	for i := 0; i < n; i++ {
		if bit_set(bitmap, i) {
			ret = append(ret, &self.validators[i])
		}
	}
	return ret, nil
}

// Bitmap is the inverse of Participants: the shortest bitmap flagging addrs.
func (self *Index) Bitmap(addrs ...common.Address) ([]byte, error) {
	ret := make([]byte, (len(self.validators)+7)/8)
	for _, addr := range addrs {
		i, ok := self.IndexOf(addr)
		if !ok {
			return nil, verifyerr.New(verifyerr.KindInvalidValidatorSet, "%s is not a validator", addr.Hex())
		}
		ret[i/8] |= 1 << (uint(i) % 8)
	}
	return ret, nil
}
