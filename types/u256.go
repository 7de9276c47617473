package types

import (
	"encoding/json"
	"errors"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

var ErrU256Overflow = errors.New("value does not fit in 256 bits")

// U256 is an unsigned 256-bit header quantity. It encodes like a big integer:
// minimal big-endian bytes, zero as the empty string.
type U256 struct {
	uint256.Int
}

func NewU256(v uint64) U256 {
	var ret U256
	ret.SetUint64(v)
	return ret
}

func (self U256) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, self.ToBig())
}

func (self *U256) DecodeRLP(s *rlp.Stream) error {
	b := new(big.Int)
	if err := s.Decode(b); err != nil {
		return err
	}
	return self.set_big(b)
}

func (self U256) MarshalJSON() ([]byte, error) {
	return json.Marshal((*hexutil.Big)(self.ToBig()))
}

func (self *U256) UnmarshalJSON(input []byte) error {
	var b hexutil.Big
	if err := json.Unmarshal(input, &b); err != nil {
		return err
	}
	return self.set_big(b.ToInt())
}

func (self *U256) set_big(b *big.Int) error {
	if overflow := self.SetFromBig(b); overflow {
		return ErrU256Overflow
	}
	return nil
}
