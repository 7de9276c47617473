package types

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

// Format selects one of the two header layouts. It is never inferred from
// the bytes: the caller states which layout a chain produces.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatLegacy
	FormatV0
)

var format_names = map[Format]string{
	FormatLegacy: "legacy",
	FormatV0:     "v0",
}

func (self Format) String() string {
	if s, ok := format_names[self]; ok {
		return s
	}
	return fmt.Sprintf("format(%d)", uint8(self))
}

func ParseFormat(s string) (Format, error) {
	for f, name := range format_names {
		if name == s {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// BlockVersion tags versioned headers. V0 is the only version.
type BlockVersion uint8

const BlockVersionV0 BlockVersion = 0

func (self BlockVersion) encode(w rlp.EncoderBuffer) {
	l := w.List()
	w.WriteUint64(uint64(self))
	w.ListEnd(l)
}

func (self *BlockVersion) DecodeRLP(s *rlp.Stream) error {
	if _, err := s.List(); err != nil {
		return err
	}
	v, err := read_uint8(s)
	if err != nil {
		return err
	}
	if BlockVersion(v) != BlockVersionV0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockVersion, v)
	}
	*self = BlockVersion(v)
	return s.ListEnd()
}

// ExtraData is one opaque extension record of a versioned header.
type ExtraData struct {
	Inner []byte
}

func write_extra_data(w rlp.EncoderBuffer, extra []ExtraData) {
	l := w.List()
	for i := range extra {
		e := w.List()
		w.WriteBytes(extra[i].Inner)
		w.ListEnd(e)
	}
	w.ListEnd(l)
}

func read_extra_data(s *rlp.Stream) ([]ExtraData, error) {
	if _, err := s.List(); err != nil {
		return nil, err
	}
	var ret []ExtraData
	for {
		end, err := at_list_end(s)
		if err != nil {
			return nil, err
		}
		if end {
			break
		}
		if _, err := s.List(); err != nil {
			return nil, err
		}
		inner, err := s.Bytes()
		if err != nil {
			return nil, err
		}
		if err := s.ListEnd(); err != nil {
			return nil, err
		}
		ret = append(ret, ExtraData{inner})
	}
	return ret, s.ListEnd()
}

// HeaderFields are the fields both layouts carry.
type HeaderFields struct {
	PrevHash              common.Hash
	Proposer              common.Address
	StateRoot             common.Hash
	TransactionsRoot      common.Hash
	SignedTxsHash         common.Hash
	ReceiptsRoot          common.Hash
	LogBloom              ethtypes.Bloom
	Timestamp             uint64
	Number                uint64
	GasUsed               U256
	GasLimit              U256
	BaseFeePerGas         U256
	Proof                 Proof
	CallSystemScriptCount uint32
	ChainID               uint64
}

type LegacyHeader struct {
	HeaderFields
	Difficulty U256
	ExtraData  []byte
	MixedHash  *common.Hash
	Nonce      ethtypes.BlockNonce
}

type HeaderV0 struct {
	HeaderFields
	Version   BlockVersion
	ExtraData []ExtraData
}

// Header is a tagged union over the two layouts. Exactly the variant named
// by Format is populated.
type Header struct {
	Format Format
	Legacy *LegacyHeader
	V0     *HeaderV0
}

func NewLegacyHeader(h *LegacyHeader) Header {
	return Header{Format: FormatLegacy, Legacy: h}
}

func NewHeaderV0(h *HeaderV0) Header {
	return Header{Format: FormatV0, V0: h}
}

// Fields returns the common part of the active variant.
func (self *Header) Fields() (*HeaderFields, error) {
	switch self.Format {
	case FormatLegacy:
		if self.Legacy != nil {
			return &self.Legacy.HeaderFields, nil
		}
	case FormatV0:
		if self.V0 != nil {
			return &self.V0.HeaderFields, nil
		}
	default:
		return nil, ErrUnknownFormat
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingVariant, self.Format)
}

func (self *Header) Number() uint64 {
	if f, err := self.Fields(); err == nil {
		return f.Number
	}
	return 0
}

func (self *Header) encode(w rlp.EncoderBuffer) error {
	f, err := self.Fields()
	if err != nil {
		return err
	}
	l := w.List()
	switch self.Format {
	case FormatLegacy:
		h := self.Legacy
		w.WriteBytes(f.PrevHash[:])
		w.WriteBytes(f.Proposer[:])
		w.WriteBytes(f.StateRoot[:])
		w.WriteBytes(f.TransactionsRoot[:])
		w.WriteBytes(f.SignedTxsHash[:])
		w.WriteBytes(f.ReceiptsRoot[:])
		w.WriteBytes(f.LogBloom[:])
		write_u256(w, &h.Difficulty)
		w.WriteUint64(f.Timestamp)
		w.WriteUint64(f.Number)
		write_u256(w, &f.GasUsed)
		write_u256(w, &f.GasLimit)
		w.WriteBytes(h.ExtraData)
		m := w.List()
		if h.MixedHash != nil {
			w.WriteBytes(h.MixedHash[:])
		}
		w.ListEnd(m)
		w.WriteBytes(h.Nonce[:])
		write_u256(w, &f.BaseFeePerGas)
		f.Proof.encode(w)
		w.WriteUint64(uint64(f.CallSystemScriptCount))
		w.WriteUint64(f.ChainID)
	case FormatV0:
		h := self.V0
		h.Version.encode(w)
		w.WriteBytes(f.PrevHash[:])
		w.WriteBytes(f.Proposer[:])
		w.WriteBytes(f.StateRoot[:])
		w.WriteBytes(f.TransactionsRoot[:])
		w.WriteBytes(f.SignedTxsHash[:])
		w.WriteBytes(f.ReceiptsRoot[:])
		w.WriteBytes(f.LogBloom[:])
		w.WriteUint64(f.Timestamp)
		w.WriteUint64(f.Number)
		write_u256(w, &f.GasUsed)
		write_u256(w, &f.GasLimit)
		write_extra_data(w, h.ExtraData)
		write_u256(w, &f.BaseFeePerGas)
		f.Proof.encode(w)
		w.WriteUint64(uint64(f.CallSystemScriptCount))
		w.WriteUint64(f.ChainID)
	}
	w.ListEnd(l)
	return nil
}

func (self *Header) EncodeRLP(out io.Writer) error {
	return encode_to(out, self)
}

// DecodeRLP decodes the layout named by self.Format, which the caller sets
// beforehand.
func (self *Header) DecodeRLP(s *rlp.Stream) (err error) {
	switch self.Format {
	case FormatLegacy:
		h := new(LegacyHeader)
		if err = h.decode(s); err == nil {
			self.Legacy, self.V0 = h, nil
		}
	case FormatV0:
		h := new(HeaderV0)
		if err = h.decode(s); err == nil {
			self.Legacy, self.V0 = nil, h
		}
	default:
		err = ErrUnknownFormat
	}
	return
}

func (self *LegacyHeader) decode(s *rlp.Stream) (err error) {
	f := &self.HeaderFields
	if _, err = s.List(); err != nil {
		return
	}
	for _, h := range []interface{}{&f.PrevHash, &f.Proposer, &f.StateRoot, &f.TransactionsRoot,
		&f.SignedTxsHash, &f.ReceiptsRoot, &f.LogBloom, &self.Difficulty} {
		if err = s.Decode(h); err != nil {
			return
		}
	}
	if f.Timestamp, err = s.Uint64(); err != nil {
		return
	}
	if f.Number, err = s.Uint64(); err != nil {
		return
	}
	if err = s.Decode(&f.GasUsed); err != nil {
		return
	}
	if err = s.Decode(&f.GasLimit); err != nil {
		return
	}
	if self.ExtraData, err = s.Bytes(); err != nil {
		return
	}
	if self.MixedHash, err = read_optional_hash(s); err != nil {
		return
	}
	if err = s.Decode(&self.Nonce); err != nil {
		return
	}
	if err = s.Decode(&f.BaseFeePerGas); err != nil {
		return
	}
	return f.decode_tail(s)
}

func (self *HeaderV0) decode(s *rlp.Stream) (err error) {
	f := &self.HeaderFields
	if _, err = s.List(); err != nil {
		return
	}
	if err = s.Decode(&self.Version); err != nil {
		return
	}
	for _, h := range []interface{}{&f.PrevHash, &f.Proposer, &f.StateRoot, &f.TransactionsRoot,
		&f.SignedTxsHash, &f.ReceiptsRoot, &f.LogBloom} {
		if err = s.Decode(h); err != nil {
			return
		}
	}
	if f.Timestamp, err = s.Uint64(); err != nil {
		return
	}
	if f.Number, err = s.Uint64(); err != nil {
		return
	}
	if err = s.Decode(&f.GasUsed); err != nil {
		return
	}
	if err = s.Decode(&f.GasLimit); err != nil {
		return
	}
	if self.ExtraData, err = read_extra_data(s); err != nil {
		return
	}
	if err = s.Decode(&f.BaseFeePerGas); err != nil {
		return
	}
	return f.decode_tail(s)
}

// decode_tail reads proof, call_system_script_count and chain_id, which end
// both layouts, and closes the header list.
func (self *HeaderFields) decode_tail(s *rlp.Stream) (err error) {
	if err = s.Decode(&self.Proof); err != nil {
		return
	}
	if self.CallSystemScriptCount, err = read_uint32(s); err != nil {
		return
	}
	if self.ChainID, err = s.Uint64(); err != nil {
		return
	}
	return s.ListEnd()
}

func read_optional_hash(s *rlp.Stream) (*common.Hash, error) {
	size, err := s.List()
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, s.ListEnd()
	}
	h := new(common.Hash)
	if err := s.Decode(h); err != nil {
		return nil, err
	}
	return h, s.ListEnd()
}

// DecodeHeader decodes raw under the given layout. Trailing bytes and
// non-canonical encodings are rejected.
func DecodeHeader(format Format, raw []byte) (Header, error) {
	h := Header{Format: format}
	if err := rlp.DecodeBytes(raw, &h); err != nil {
		return Header{}, err
	}
	return h, nil
}
