package types

import (
	"errors"
	"io"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

var (
	ErrUnknownFormat       = errors.New("unknown header format")
	ErrMissingVariant      = errors.New("header variant does not match its format")
	ErrInvalidBlockVersion = errors.New("invalid block version")
	ErrUintOverflow        = errors.New("integer overflows its field")
	ErrGasLimitOverflow    = errors.New("gas limit does not fit in 64 bits")
)

// rlp_encoder is implemented by every type that writes itself into a shared
// encoder buffer. EncodeRLP wrappers and the digest builder go through it.
type rlp_encoder interface {
	encode(w rlp.EncoderBuffer) error
}

func encode_to(out io.Writer, v rlp_encoder) error {
	b, err := encode_to_bytes(v)
	if err != nil {
		return err
	}
	_, err = out.Write(b)
	return err
}

func encode_to_bytes(v rlp_encoder) ([]byte, error) {
	w := rlp.NewEncoderBuffer(nil)
	defer w.Flush()
	if err := v.encode(w); err != nil {
		return nil, err
	}
	return w.ToBytes(), nil
}

func write_u256(w rlp.EncoderBuffer, v *U256) {
	w.WriteBigInt(v.ToBig())
}

func write_hashes(w rlp.EncoderBuffer, hashes []common.Hash) {
	l := w.List()
	for i := range hashes {
		w.WriteBytes(hashes[i][:])
	}
	w.ListEnd(l)
}

func read_uint32(s *rlp.Stream) (uint32, error) {
	v, err := s.Uint64()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, ErrUintOverflow
	}
	return uint32(v), nil
}

func read_uint8(s *rlp.Stream) (uint8, error) {
	v, err := s.Uint64()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint8 {
		return 0, ErrUintOverflow
	}
	return uint8(v), nil
}

func at_list_end(s *rlp.Stream) (bool, error) {
	_, _, err := s.Kind()
	if err == rlp.EOL {
		return true, nil
	}
	return false, err
}

func read_hashes(s *rlp.Stream) ([]common.Hash, error) {
	if _, err := s.List(); err != nil {
		return nil, err
	}
	var ret []common.Hash
	for {
		end, err := at_list_end(s)
		if err != nil {
			return nil, err
		}
		if end {
			break
		}
		var h common.Hash
		if err := s.Decode(&h); err != nil {
			return nil, err
		}
		ret = append(ret, h)
	}
	return ret, s.ListEnd()
}
