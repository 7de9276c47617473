// Package verifier runs finality and trie proof checks over batches on a
// bounded worker pool, sharing one validator key cache.
package verifier

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"golang.org/x/sync/errgroup"

	"github.com/Taraxa-project/light-verifier/config"
	"github.com/Taraxa-project/light-verifier/light"
	"github.com/Taraxa-project/light-verifier/trie"
	"github.com/Taraxa-project/light-verifier/types"
	"github.com/Taraxa-project/light-verifier/validators"
	"github.com/Taraxa-project/light-verifier/verifyerr"
)

// Item is one block with its finality proof.
type Item struct {
	Block *types.Block
	// PrevStateRoot is the state root of the block's parent. VerifyChain
	// fills it in from the chain itself.
	PrevStateRoot common.Hash
	Proof         *types.Proof
}

// TrieItem is one trie proof.
type TrieItem struct {
	Root  common.Hash
	Key   []byte
	Nodes [][]byte
}

type TrieResult struct {
	Value []byte
	Err   error
}

type Service struct {
	cfg      config.Config
	light    light.Verifier
	log      log.Logger
	registry metrics.Registry
	metrics  *service_metrics
}

func New(cfg config.Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	keys, err := cfg.KeySource()
	if err != nil {
		return nil, err
	}
	registry := metrics.NewRegistry()
	return &Service{
		cfg:      cfg,
		light:    light.Verifier{Keys: keys},
		log:      log.New("module", "verifier"),
		registry: registry,
		metrics:  new_service_metrics(registry),
	}, nil
}

// Metrics is the registry holding the service's own metrics.
func (self *Service) Metrics() metrics.Registry {
	return self.registry
}

func (self *Service) VerifyBlock(set *validators.Index, item Item) error {
	defer recorder(self.metrics.verify)()
	if item.Block == nil || item.Proof == nil {
		err := verifyerr.New(verifyerr.KindInvalidBlock, "item without a block or a proof")
		self.metrics.verdict(err)
		return err
	}
	err := self.light.VerifyProof(item.Block, item.PrevStateRoot, set, item.Proof)
	self.metrics.verdict(err)
	if err != nil {
		self.log.Debug("Proof rejected", "number", item.Block.Header.Number(), "hash", item.Proof.BlockHash, "err", err)
	} else {
		self.log.Trace("Proof accepted", "number", item.Block.Header.Number(), "hash", item.Proof.BlockHash)
	}
	return err
}

// VerifyBatch verifies every item against set and returns one verdict per
// item, in order. The second result is only set when ctx ends first; the
// verdicts of items not reached are then nil.
func (self *Service) VerifyBatch(ctx context.Context, set *validators.Index, items []Item) ([]error, error) {
	defer recorder(self.metrics.batch)()
	self.metrics.batch_size.Update(int64(len(items)))
	verdicts := make([]error, len(items))
	err := self.run(ctx, len(items), func(i int) {
		verdicts[i] = self.VerifyBlock(set, items[i])
	})
	if err != nil {
		return verdicts, err
	}
	rejected := 0
	for _, v := range verdicts {
		if v != nil {
			rejected++
		}
	}
	self.log.Debug("Verified batch", "items", len(items), "rejected", rejected)
	return verdicts, nil
}

// VerifyChain accepts items as consecutive blocks on top of prev, all
// finalized by set, and returns the checkpoint of the last one. Proofs are
// checked in parallel; the first failing item in chain order decides the
// error.
func (self *Service) VerifyChain(ctx context.Context, prev light.Checkpoint, set *validators.Index, items []Item) (light.Checkpoint, error) {
	chained := make([]Item, len(items))
	copy(chained, items)
	parent_root := prev.StateRoot
	for i := range chained {
		chained[i].PrevStateRoot = parent_root
		if chained[i].Block == nil {
			return prev, fmt.Errorf("block %d of chain: %w", i, verifyerr.New(verifyerr.KindInvalidBlock, "missing block"))
		}
		f, err := chained[i].Block.Header.Fields()
		if err != nil {
			return prev, fmt.Errorf("block %d of chain: %w", i, err)
		}
		parent_root = f.StateRoot
	}
	verdicts, err := self.VerifyBatch(ctx, set, chained)
	if err != nil {
		return prev, err
	}
	cp := prev
	for i, item := range chained {
		if verdicts[i] != nil {
			return cp, fmt.Errorf("block %d of chain: %w", i, verdicts[i])
		}
		next, err := light.Follow(cp, item.Block, item.Proof)
		if err != nil {
			return cp, fmt.Errorf("block %d of chain: %w", i, err)
		}
		cp = next
	}
	self.log.Info("Chain verified", "blocks", len(items), "number", cp.Number, "hash", cp.BlockHash)
	return cp, nil
}

// VerifyTrie resolves each trie proof. Strictness comes from the config.
func (self *Service) VerifyTrie(ctx context.Context, items []TrieItem) ([]TrieResult, error) {
	verify := trie.VerifyProof
	if self.cfg.StrictTrie {
		verify = trie.VerifyProofStrict
	}
	results := make([]TrieResult, len(items))
	err := self.run(ctx, len(items), func(i int) {
		results[i].Value, results[i].Err = verify(items[i].Root, items[i].Key, items[i].Nodes)
	})
	return results, err
}

// run calls f(0) .. f(n-1) on at most cfg.Workers goroutines and stops
// handing out work once ctx is done.
func (self *Service) run(ctx context.Context, n int, f func(i int)) error {
	var g errgroup.Group
	g.SetLimit(self.cfg.Workers)
	var stopped error
	for i := 0; i < n; i++ {
		if stopped = ctx.Err(); stopped != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f(i)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = stopped
	}
	if err != nil {
		self.log.Warn("Verification interrupted", "items", n, "err", err)
	}
	return err
}
