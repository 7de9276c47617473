package types

import (
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// Proof is the finality certificate of a block: an aggregate precommit
// signature and the bitmap of the validators that contributed to it.
type Proof struct {
	Number    uint64
	Round     uint64
	BlockHash common.Hash
	Signature []byte
	Bitmap    []byte
}

func (self *Proof) encode(w rlp.EncoderBuffer) error {
	l := w.List()
	w.WriteUint64(self.Number)
	w.WriteUint64(self.Round)
	w.WriteBytes(self.BlockHash[:])
	w.WriteBytes(self.Signature)
	w.WriteBytes(self.Bitmap)
	w.ListEnd(l)
	return nil
}

func (self *Proof) EncodeRLP(out io.Writer) error {
	return encode_to(out, self)
}

func (self *Proof) DecodeRLP(s *rlp.Stream) (err error) {
	if _, err = s.List(); err != nil {
		return
	}
	if self.Number, err = s.Uint64(); err != nil {
		return
	}
	if self.Round, err = s.Uint64(); err != nil {
		return
	}
	if err = s.Decode(&self.BlockHash); err != nil {
		return
	}
	if self.Signature, err = s.Bytes(); err != nil {
		return
	}
	if self.Bitmap, err = s.Bytes(); err != nil {
		return
	}
	return s.ListEnd()
}

const (
	VoteTypePrevote   uint8 = 1
	VoteTypePrecommit uint8 = 2
)

// Vote is the message validators sign. Its RLP encoding, hashed, is the
// signing digest.
type Vote struct {
	Height    uint64
	Round     uint64
	VoteType  uint8
	BlockHash []byte
}

func (self *Vote) encode(w rlp.EncoderBuffer) error {
	l := w.List()
	w.WriteUint64(self.Height)
	w.WriteUint64(self.Round)
	w.WriteUint64(uint64(self.VoteType))
	w.WriteBytes(self.BlockHash)
	w.ListEnd(l)
	return nil
}

func (self *Vote) EncodeRLP(out io.Writer) error {
	return encode_to(out, self)
}

func (self *Vote) DecodeRLP(s *rlp.Stream) (err error) {
	if _, err = s.List(); err != nil {
		return
	}
	if self.Height, err = s.Uint64(); err != nil {
		return
	}
	if self.Round, err = s.Uint64(); err != nil {
		return
	}
	if self.VoteType, err = read_uint8(s); err != nil {
		return
	}
	if self.BlockHash, err = s.Bytes(); err != nil {
		return
	}
	return s.ListEnd()
}

// RLPBytes is the canonical encoding of the vote.
func (self *Vote) RLPBytes() []byte {
	b, _ := encode_to_bytes(self)
	return b
}
