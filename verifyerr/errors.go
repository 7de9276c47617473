// Package verifyerr holds the closed set of failures the verifier reports.
//
// Callers match on kind with errors.Is against the exported sentinels, or with
// KindOf. The text of an error is for humans only.
package verifyerr

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidProofBlockHash
	KindNotEnoughSignatures
	KindBls
	KindVerifyMptProof
	KindMalformedBitmap
	KindChainContinuity
	KindInvalidValidatorSet
	KindInvalidBlock
)

var kind_names = [...]string{
	KindUnknown:               "unknown",
	KindInvalidProofBlockHash: "invalid proof block hash",
	KindNotEnoughSignatures:   "not enough signatures",
	KindBls:                   "bls",
	KindVerifyMptProof:        "verify mpt proof",
	KindMalformedBitmap:       "malformed bitmap",
	KindChainContinuity:       "chain continuity mismatch",
	KindInvalidValidatorSet:   "invalid validator set",
	KindInvalidBlock:          "invalid block",
}

func (self Kind) String() string {
	if int(self) < len(kind_names) {
		return kind_names[self]
	}
	return fmt.Sprintf("kind(%d)", uint8(self))
}

// BlsReason refines KindBls. The values mirror the blst error codes so that
// verdicts line up with other implementations of the same light client.
type BlsReason uint8

const (
	BlsUnspecified BlsReason = iota
	BlsBadEncoding
	BlsPointNotOnCurve
	BlsPointNotInGroup
	BlsAggrTypeMismatch
	BlsVerifyFail
	BlsPkIsInfinity
)

var bls_reason_names = [...]string{
	BlsUnspecified:      "unspecified",
	BlsBadEncoding:      "BLST_BAD_ENCODING",
	BlsPointNotOnCurve:  "BLST_POINT_NOT_ON_CURVE",
	BlsPointNotInGroup:  "BLST_POINT_NOT_IN_GROUP",
	BlsAggrTypeMismatch: "BLST_AGGR_TYPE_MISMATCH",
	BlsVerifyFail:       "BLST_VERIFY_FAIL",
	BlsPkIsInfinity:     "BLST_PK_IS_INFINITY",
}

func (self BlsReason) String() string {
	if int(self) < len(bls_reason_names) {
		return bls_reason_names[self]
	}
	return fmt.Sprintf("reason(%d)", uint8(self))
}

type Error struct {
	Kind   Kind
	Reason BlsReason
	Detail string
}

func (self *Error) Error() string {
	msg := self.Kind.String()
	if self.Kind == KindBls {
		msg += " error: " + self.Reason.String()
	}
	if self.Detail != "" {
		msg += ": " + self.Detail
	}
	return msg
}

// Is matches on kind. A BLS target with a reason also requires the same reason.
func (self *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != self.Kind {
		return false
	}
	return t.Reason == BlsUnspecified || t.Reason == self.Reason
}

var (
	ErrInvalidProofBlockHash = &Error{Kind: KindInvalidProofBlockHash}
	ErrNotEnoughSignatures   = &Error{Kind: KindNotEnoughSignatures}
	ErrBls                   = &Error{Kind: KindBls}
	ErrVerifyMptProof        = &Error{Kind: KindVerifyMptProof}
	ErrMalformedBitmap       = &Error{Kind: KindMalformedBitmap}
	ErrChainContinuity       = &Error{Kind: KindChainContinuity}
	ErrInvalidValidatorSet   = &Error{Kind: KindInvalidValidatorSet}
	ErrInvalidBlock          = &Error{Kind: KindInvalidBlock}
)

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func Bls(reason BlsReason, format string, args ...interface{}) *Error {
	return &Error{Kind: KindBls, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func ReasonOf(err error) BlsReason {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindBls {
		return e.Reason
	}
	return BlsUnspecified
}
