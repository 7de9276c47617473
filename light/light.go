// Package light decides whether a block is final: its proof must name the
// block's own hash and carry a supermajority signature of the validator set.
// Once a block passes, the roots in its header can be trusted for trie
// proofs.
package light

import (
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/Taraxa-project/light-verifier/crypto/bls"
	"github.com/Taraxa-project/light-verifier/digest"
	"github.com/Taraxa-project/light-verifier/quorum"
	"github.com/Taraxa-project/light-verifier/receipts"
	"github.com/Taraxa-project/light-verifier/types"
	"github.com/Taraxa-project/light-verifier/validators"
	"github.com/Taraxa-project/light-verifier/verifyerr"
)

// Checkpoint is what a light client keeps of the last block it accepted.
type Checkpoint struct {
	Number    uint64      `json:"number"`
	BlockHash common.Hash `json:"block_hash"`
	StateRoot common.Hash `json:"state_root"`
}

// CheckpointOf records an accepted block under the hash its proof carried.
func CheckpointOf(block *types.Block, blockHash common.Hash) (Checkpoint, error) {
	f, err := block.Header.Fields()
	if err != nil {
		return Checkpoint{}, verifyerr.New(verifyerr.KindInvalidBlock, "%v", err)
	}
	return Checkpoint{Number: f.Number, BlockHash: blockHash, StateRoot: f.StateRoot}, nil
}

// Verifier runs the checks with public keys taken from Keys. The zero value
// decodes keys on every call.
type Verifier struct {
	Keys bls.KeySource
}

// VerifyProof accepts proof as the finality proof of block, which was built
// on a parent whose state root is prevStateRoot. The block hash is checked
// before any signature work.
func (self Verifier) VerifyProof(block *types.Block, prevStateRoot common.Hash, set *validators.Index, proof *types.Proof) error {
	hash, err := digest.BlockHash(block, prevStateRoot)
	if err != nil {
		return err
	}
	if hash != proof.BlockHash {
		return verifyerr.New(verifyerr.KindInvalidProofBlockHash, "block hash %x, proof names %x", hash, proof.BlockHash)
	}
	return quorum.Verifier{Keys: self.Keys}.Verify(set, proof, digest.PrecommitDigest(proof))
}

// VerifyTransition accepts block as the direct successor of prev and returns
// the checkpoint of block.
func (self Verifier) VerifyTransition(prev Checkpoint, block *types.Block, set *validators.Index, proof *types.Proof) (Checkpoint, error) {
	if err := self.VerifyProof(block, prev.StateRoot, set, proof); err != nil {
		return Checkpoint{}, err
	}
	return Follow(prev, block, proof)
}

// Follow checks that block, finalized by proof, extends prev and returns its
// checkpoint. It trusts that proof was verified against prev.StateRoot.
func Follow(prev Checkpoint, block *types.Block, proof *types.Proof) (Checkpoint, error) {
	f, err := block.Header.Fields()
	if err != nil {
		return Checkpoint{}, verifyerr.New(verifyerr.KindInvalidBlock, "%v", err)
	}
	switch {
	case f.PrevHash != prev.BlockHash:
		return Checkpoint{}, verifyerr.New(verifyerr.KindChainContinuity, "block %d links to %x, want %x", f.Number, f.PrevHash, prev.BlockHash)
	case f.Number != prev.Number+1:
		return Checkpoint{}, verifyerr.New(verifyerr.KindChainContinuity, "block %d does not follow %d", f.Number, prev.Number)
	case proof.Number != f.Number:
		return Checkpoint{}, verifyerr.New(verifyerr.KindChainContinuity, "proof for height %d, block is %d", proof.Number, f.Number)
	}
	return Checkpoint{Number: f.Number, BlockHash: proof.BlockHash, StateRoot: f.StateRoot}, nil
}

func VerifyProof(block *types.Block, prevStateRoot common.Hash, set *validators.Index, proof *types.Proof) error {
	return Verifier{}.VerifyProof(block, prevStateRoot, set, proof)
}

func VerifyTransition(prev Checkpoint, block *types.Block, set *validators.Index, proof *types.Proof) (Checkpoint, error) {
	return Verifier{}.VerifyTransition(prev, block, set, proof)
}

// VerifyReceipt resolves receipt index of a block already accepted, against
// the block's receipts root. nil without an error means the proof shows the
// block has no such receipt.
func VerifyReceipt(block *types.Block, index uint64, proof [][]byte) (*gethtypes.Receipt, error) {
	f, err := block.Header.Fields()
	if err != nil {
		return nil, verifyerr.New(verifyerr.KindInvalidBlock, "%v", err)
	}
	return receipts.Verify(f.ReceiptsRoot, index, proof)
}
