package types

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// Validator is one member of a validator set as the light client sees it.
type Validator struct {
	BlsPubKey     []byte
	Address       common.Address
	ProposeWeight uint32
	VoteWeight    uint32
}

// Less orders validators by address, the order bitmaps are laid out in.
func (self *Validator) Less(other *Validator) bool {
	return bytes.Compare(self.Address[:], other.Address[:]) < 0
}

func (self Validator) Copy() Validator {
	self.BlsPubKey = common.CopyBytes(self.BlsPubKey)
	return self
}

// ValidatorExtend is the validator entry of an epoch's metadata.
type ValidatorExtend struct {
	BlsPubKey     []byte
	PubKey        []byte
	Address       common.Address
	ProposeWeight uint32
	VoteWeight    uint32
}

type MetadataVersion struct {
	Start uint64
	End   uint64
}

// Contains reports whether a block number falls in the version's range.
func (self MetadataVersion) Contains(number uint64) bool {
	return self.Start <= number && number <= self.End
}

type ProposeCount struct {
	Address common.Address
	Count   uint64
}

// Metadata is the per-epoch chain configuration that carries the validator
// list. Only VerifierList matters for verification.
type Metadata struct {
	Version        MetadataVersion
	Epoch          uint64
	GasLimit       uint64
	GasPrice       uint64
	Interval       uint64
	VerifierList   []ValidatorExtend
	ProposeRatio   uint64
	PrevoteRatio   uint64
	PrecommitRatio uint64
	BrakeRatio     uint64
	TxNumLimit     uint64
	MaxTxSize      uint64
	ProposeCounter []ProposeCount
}

func (self *Metadata) Validators() []Validator {
	ret := make([]Validator, len(self.VerifierList))
	for i, v := range self.VerifierList {
		ret[i] = Validator{
			BlsPubKey:     common.CopyBytes(v.BlsPubKey),
			Address:       v.Address,
			ProposeWeight: v.ProposeWeight,
			VoteWeight:    v.VoteWeight,
		}
	}
	return ret
}
