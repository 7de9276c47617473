package types

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// The JSON forms follow the node's RPC: snake_case keys, hex quantities and
// hex byte strings.

type hex_u32 uint32

func (self hex_u32) MarshalJSON() ([]byte, error) {
	return json.Marshal(hexutil.Uint64(self))
}

func (self *hex_u32) UnmarshalJSON(input []byte) error {
	var v hexutil.Uint64
	if err := json.Unmarshal(input, &v); err != nil {
		return err
	}
	if v > math.MaxUint32 {
		return ErrUintOverflow
	}
	*self = hex_u32(v)
	return nil
}

type proof_json struct {
	Number    hexutil.Uint64 `json:"number"`
	Round     hexutil.Uint64 `json:"round"`
	BlockHash common.Hash    `json:"block_hash"`
	Signature hexutil.Bytes  `json:"signature"`
	Bitmap    hexutil.Bytes  `json:"bitmap"`
}

func (self Proof) MarshalJSON() ([]byte, error) {
	return json.Marshal(proof_json{
		hexutil.Uint64(self.Number),
		hexutil.Uint64(self.Round),
		self.BlockHash,
		self.Signature,
		self.Bitmap,
	})
}

func (self *Proof) UnmarshalJSON(input []byte) error {
	var dec proof_json
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	*self = Proof{uint64(dec.Number), uint64(dec.Round), dec.BlockHash, dec.Signature, dec.Bitmap}
	return nil
}

func (self BlockVersion) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("V%d", uint8(self)))
}

func (self *BlockVersion) UnmarshalJSON(input []byte) error {
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return err
	}
	if s != "V0" {
		return fmt.Errorf("%w: %q", ErrInvalidBlockVersion, s)
	}
	*self = BlockVersion(0)
	return nil
}

type extra_data_json struct {
	Inner hexutil.Bytes `json:"inner"`
}

type header_fields_json struct {
	PrevHash              common.Hash    `json:"prev_hash"`
	Proposer              common.Address `json:"proposer"`
	StateRoot             common.Hash    `json:"state_root"`
	TransactionsRoot      common.Hash    `json:"transactions_root"`
	SignedTxsHash         common.Hash    `json:"signed_txs_hash"`
	ReceiptsRoot          common.Hash    `json:"receipts_root"`
	LogBloom              ethtypes.Bloom `json:"log_bloom"`
	Timestamp             hexutil.Uint64 `json:"timestamp"`
	Number                hexutil.Uint64 `json:"number"`
	GasUsed               U256           `json:"gas_used"`
	GasLimit              U256           `json:"gas_limit"`
	BaseFeePerGas         U256           `json:"base_fee_per_gas"`
	Proof                 Proof          `json:"proof"`
	CallSystemScriptCount hex_u32        `json:"call_system_script_count"`
	ChainID               hexutil.Uint64 `json:"chain_id"`
}

func (self *header_fields_json) from(f *HeaderFields) {
	*self = header_fields_json{
		f.PrevHash, f.Proposer, f.StateRoot, f.TransactionsRoot, f.SignedTxsHash, f.ReceiptsRoot,
		f.LogBloom, hexutil.Uint64(f.Timestamp), hexutil.Uint64(f.Number), f.GasUsed, f.GasLimit,
		f.BaseFeePerGas, f.Proof, hex_u32(f.CallSystemScriptCount), hexutil.Uint64(f.ChainID),
	}
}

func (self *header_fields_json) to() HeaderFields {
	return HeaderFields{
		self.PrevHash, self.Proposer, self.StateRoot, self.TransactionsRoot, self.SignedTxsHash,
		self.ReceiptsRoot, self.LogBloom, uint64(self.Timestamp), uint64(self.Number), self.GasUsed,
		self.GasLimit, self.BaseFeePerGas, self.Proof, uint32(self.CallSystemScriptCount),
		uint64(self.ChainID),
	}
}

type legacy_header_json struct {
	header_fields_json
	Difficulty U256                `json:"difficulty"`
	ExtraData  hexutil.Bytes       `json:"extra_data"`
	MixedHash  *common.Hash        `json:"mixed_hash"`
	Nonce      ethtypes.BlockNonce `json:"nonce"`
}

type header_v0_json struct {
	Version BlockVersion `json:"version"`
	header_fields_json
	ExtraData []extra_data_json `json:"extra_data"`
}

func (self Header) MarshalJSON() ([]byte, error) {
	f, err := self.Fields()
	if err != nil {
		return nil, err
	}
	switch self.Format {
	case FormatLegacy:
		enc := legacy_header_json{
			Difficulty: self.Legacy.Difficulty,
			ExtraData:  self.Legacy.ExtraData,
			MixedHash:  self.Legacy.MixedHash,
			Nonce:      self.Legacy.Nonce,
		}
		enc.header_fields_json.from(f)
		return json.Marshal(&enc)
	default:
		enc := header_v0_json{Version: self.V0.Version}
		enc.header_fields_json.from(f)
		for _, e := range self.V0.ExtraData {
			enc.ExtraData = append(enc.ExtraData, extra_data_json{e.Inner})
		}
		return json.Marshal(&enc)
	}
}

// UnmarshalJSON decodes the layout named by self.Format.
func (self *Header) UnmarshalJSON(input []byte) error {
	switch self.Format {
	case FormatLegacy:
		var dec legacy_header_json
		if err := json.Unmarshal(input, &dec); err != nil {
			return err
		}
		self.Legacy = &LegacyHeader{
			HeaderFields: dec.header_fields_json.to(),
			Difficulty:   dec.Difficulty,
			ExtraData:    dec.ExtraData,
			MixedHash:    dec.MixedHash,
			Nonce:        dec.Nonce,
		}
		self.V0 = nil
	case FormatV0:
		var dec header_v0_json
		if err := json.Unmarshal(input, &dec); err != nil {
			return err
		}
		h := &HeaderV0{HeaderFields: dec.header_fields_json.to(), Version: dec.Version}
		for _, e := range dec.ExtraData {
			h.ExtraData = append(h.ExtraData, ExtraData{e.Inner})
		}
		self.Legacy, self.V0 = nil, h
	default:
		return ErrUnknownFormat
	}
	return nil
}

type block_json struct {
	Header   *Header       `json:"header"`
	TxHashes []common.Hash `json:"tx_hashes"`
}

func (self Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(block_json{&self.Header, self.TxHashes})
}

// UnmarshalJSON expects self.Header.Format to be set.
func (self *Block) UnmarshalJSON(input []byte) error {
	dec := block_json{Header: &self.Header}
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	self.TxHashes = dec.TxHashes
	return nil
}

func DecodeBlockJSON(format Format, input []byte) (Block, error) {
	b := Block{Header: Header{Format: format}}
	if err := json.Unmarshal(input, &b); err != nil {
		return Block{}, err
	}
	return b, nil
}

type validator_extend_json struct {
	BlsPubKey     hexutil.Bytes  `json:"bls_pub_key"`
	PubKey        hexutil.Bytes  `json:"pub_key"`
	Address       common.Address `json:"address"`
	ProposeWeight hex_u32        `json:"propose_weight"`
	VoteWeight    hex_u32        `json:"vote_weight"`
}

func (self ValidatorExtend) MarshalJSON() ([]byte, error) {
	return json.Marshal(validator_extend_json{
		self.BlsPubKey, self.PubKey, self.Address, hex_u32(self.ProposeWeight), hex_u32(self.VoteWeight),
	})
}

func (self *ValidatorExtend) UnmarshalJSON(input []byte) error {
	var dec validator_extend_json
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	*self = ValidatorExtend{
		dec.BlsPubKey, dec.PubKey, dec.Address, uint32(dec.ProposeWeight), uint32(dec.VoteWeight),
	}
	return nil
}

type metadata_version_json struct {
	Start hexutil.Uint64 `json:"start"`
	End   hexutil.Uint64 `json:"end"`
}

type metadata_json struct {
	Version        metadata_version_json `json:"version"`
	Epoch          hexutil.Uint64        `json:"epoch"`
	GasLimit       hexutil.Uint64        `json:"gas_limit"`
	GasPrice       hexutil.Uint64        `json:"gas_price"`
	Interval       hexutil.Uint64        `json:"interval"`
	VerifierList   []ValidatorExtend     `json:"verifier_list"`
	ProposeRatio   hexutil.Uint64        `json:"propose_ratio"`
	PrevoteRatio   hexutil.Uint64        `json:"prevote_ratio"`
	PrecommitRatio hexutil.Uint64        `json:"precommit_ratio"`
	BrakeRatio     hexutil.Uint64        `json:"brake_ratio"`
	TxNumLimit     hexutil.Uint64        `json:"tx_num_limit"`
	MaxTxSize      hexutil.Uint64        `json:"max_tx_size"`
}

func (self Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(metadata_json{
		metadata_version_json{hexutil.Uint64(self.Version.Start), hexutil.Uint64(self.Version.End)},
		hexutil.Uint64(self.Epoch),
		hexutil.Uint64(self.GasLimit),
		hexutil.Uint64(self.GasPrice),
		hexutil.Uint64(self.Interval),
		self.VerifierList,
		hexutil.Uint64(self.ProposeRatio),
		hexutil.Uint64(self.PrevoteRatio),
		hexutil.Uint64(self.PrecommitRatio),
		hexutil.Uint64(self.BrakeRatio),
		hexutil.Uint64(self.TxNumLimit),
		hexutil.Uint64(self.MaxTxSize),
	})
}

// UnmarshalJSON leaves ProposeCounter empty; the RPC form does not carry it.
func (self *Metadata) UnmarshalJSON(input []byte) error {
	var dec metadata_json
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	*self = Metadata{
		Version:        MetadataVersion{uint64(dec.Version.Start), uint64(dec.Version.End)},
		Epoch:          uint64(dec.Epoch),
		GasLimit:       uint64(dec.GasLimit),
		GasPrice:       uint64(dec.GasPrice),
		Interval:       uint64(dec.Interval),
		VerifierList:   dec.VerifierList,
		ProposeRatio:   uint64(dec.ProposeRatio),
		PrevoteRatio:   uint64(dec.PrevoteRatio),
		PrecommitRatio: uint64(dec.PrecommitRatio),
		BrakeRatio:     uint64(dec.BrakeRatio),
		TxNumLimit:     uint64(dec.TxNumLimit),
		MaxTxSize:      uint64(dec.MaxTxSize),
	}
	return nil
}
