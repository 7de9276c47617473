// Package digest builds the byte strings validators sign and the hashes that
// identify headers and blocks.
package digest

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Taraxa-project/light-verifier/crypto/keccak256"
	"github.com/Taraxa-project/light-verifier/types"
	"github.com/Taraxa-project/light-verifier/verifyerr"
)

const PrecommitVoteType = types.VoteTypePrecommit

// HeaderHash is keccak256 of the header's RLP encoding under its format.
func HeaderHash(h *types.Header) (common.Hash, error) {
	raw, err := h.RLPBytes()
	if err != nil {
		return common.Hash{}, verifyerr.New(verifyerr.KindInvalidBlock, "header: %v", err)
	}
	return keccak256.Hash(raw), nil
}

func ProposalHash(p *types.Proposal) (common.Hash, error) {
	raw, err := p.RLPBytes()
	if err != nil {
		return common.Hash{}, verifyerr.New(verifyerr.KindInvalidBlock, "proposal: %v", err)
	}
	return keccak256.Hash(raw), nil
}

// BlockHash is the hash validators vote on: the hash of the block's proposal
// built on top of prevStateRoot.
func BlockHash(b *types.Block, prevStateRoot common.Hash) (common.Hash, error) {
	p, err := types.NewProposal(b, prevStateRoot)
	if err != nil {
		return common.Hash{}, verifyerr.New(verifyerr.KindInvalidBlock, "block: %v", err)
	}
	return ProposalHash(p)
}

// VoteBytes is the signed message of a vote.
func VoteBytes(height, round uint64, voteType uint8, blockHash common.Hash) []byte {
	v := types.Vote{
		Height:    height,
		Round:     round,
		VoteType:  voteType,
		BlockHash: blockHash[:],
	}
	return v.RLPBytes()
}

func VoteHash(height, round uint64, voteType uint8, blockHash common.Hash) common.Hash {
	return keccak256.Hash(VoteBytes(height, round, voteType, blockHash))
}

// PrecommitDigest is the digest a finality proof's aggregate signature covers.
func PrecommitDigest(proof *types.Proof) common.Hash {
	return VoteHash(proof.Number, proof.Round, PrecommitVoteType, proof.BlockHash)
}
