package types

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

type Block struct {
	Header   Header
	TxHashes []common.Hash
}

func (self *Block) encode(w rlp.EncoderBuffer) error {
	l := w.List()
	if err := self.Header.encode(w); err != nil {
		return err
	}
	write_hashes(w, self.TxHashes)
	w.ListEnd(l)
	return nil
}

func (self *Block) EncodeRLP(out io.Writer) error {
	return encode_to(out, self)
}

// DecodeRLP expects self.Header.Format to be set.
func (self *Block) DecodeRLP(s *rlp.Stream) (err error) {
	if _, err = s.List(); err != nil {
		return
	}
	if err = s.Decode(&self.Header); err != nil {
		return
	}
	if self.TxHashes, err = read_hashes(s); err != nil {
		return
	}
	return s.ListEnd()
}

func DecodeBlock(format Format, raw []byte) (Block, error) {
	b := Block{Header: Header{Format: format}}
	if err := rlp.DecodeBytes(raw, &b); err != nil {
		return Block{}, err
	}
	return b, nil
}

// Proposal is what the proposer broadcasts for a height. Its hash is the
// block hash validators vote on. Fields outside a format's layout are ignored
// when encoding it.
type Proposal struct {
	Format                Format
	Version               BlockVersion
	PrevHash              common.Hash
	Proposer              common.Address
	PrevStateRoot         common.Hash
	TransactionsRoot      common.Hash
	SignedTxsHash         common.Hash
	Timestamp             uint64
	Number                uint64
	GasLimit              U256
	ExtraData             []ExtraData
	Proof                 Proof
	CallSystemScriptCount uint32
	TxHashes              []common.Hash
}

// NewProposal derives the proposal of a block. The block does not record
// the state root it was executed on top of, so the caller supplies it.
func NewProposal(block *Block, prevStateRoot common.Hash) (*Proposal, error) {
	f, err := block.Header.Fields()
	if err != nil {
		return nil, err
	}
	ret := &Proposal{
		Format:                block.Header.Format,
		PrevHash:              f.PrevHash,
		Proposer:              f.Proposer,
		PrevStateRoot:         prevStateRoot,
		TransactionsRoot:      f.TransactionsRoot,
		SignedTxsHash:         f.SignedTxsHash,
		Timestamp:             f.Timestamp,
		Number:                f.Number,
		GasLimit:              f.GasLimit,
		Proof:                 f.Proof,
		CallSystemScriptCount: f.CallSystemScriptCount,
		TxHashes:              block.TxHashes,
	}
	if ret.Format == FormatV0 {
		ret.Version = block.Header.V0.Version
		ret.ExtraData = block.Header.V0.ExtraData
	}
	return ret, nil
}

func (self *Proposal) encode(w rlp.EncoderBuffer) error {
	switch self.Format {
	case FormatLegacy:
		l := w.List()
		w.WriteBytes(self.PrevHash[:])
		w.WriteBytes(self.Proposer[:])
		w.WriteBytes(self.PrevStateRoot[:])
		w.WriteBytes(self.TransactionsRoot[:])
		w.WriteBytes(self.SignedTxsHash[:])
		w.WriteUint64(self.Timestamp)
		w.WriteUint64(self.Number)
		self.Proof.encode(w)
		w.WriteUint64(uint64(self.CallSystemScriptCount))
		write_hashes(w, self.TxHashes)
		w.ListEnd(l)
	case FormatV0:
		if !self.GasLimit.IsUint64() {
			return fmt.Errorf("%w: %s", ErrGasLimitOverflow, self.GasLimit.Hex())
		}
		l := w.List()
		self.Version.encode(w)
		w.WriteBytes(self.PrevHash[:])
		w.WriteBytes(self.Proposer[:])
		w.WriteBytes(self.PrevStateRoot[:])
		w.WriteBytes(self.TransactionsRoot[:])
		w.WriteBytes(self.SignedTxsHash[:])
		w.WriteUint64(self.Timestamp)
		w.WriteUint64(self.Number)
		w.WriteUint64(self.GasLimit.Uint64())
		write_extra_data(w, self.ExtraData)
		self.Proof.encode(w)
		w.WriteUint64(uint64(self.CallSystemScriptCount))
		write_hashes(w, self.TxHashes)
		w.ListEnd(l)
	default:
		return ErrUnknownFormat
	}
	return nil
}

func (self *Proposal) EncodeRLP(out io.Writer) error {
	return encode_to(out, self)
}

// RLPBytes is the canonical encoding of a proposal, the preimage of its hash.
func (self *Proposal) RLPBytes() ([]byte, error) {
	return encode_to_bytes(self)
}

// RLPBytes is the canonical encoding of a header under its format.
func (self *Header) RLPBytes() ([]byte, error) {
	return encode_to_bytes(self)
}

func (self *Block) RLPBytes() ([]byte, error) {
	return encode_to_bytes(self)
}
