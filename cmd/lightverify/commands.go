package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	gethmetrics "github.com/ethereum/go-ethereum/metrics"
	"gopkg.in/urfave/cli.v1"

	"github.com/Taraxa-project/light-verifier/config"
	"github.com/Taraxa-project/light-verifier/digest"
	lvmetrics "github.com/Taraxa-project/light-verifier/metrics"
	"github.com/Taraxa-project/light-verifier/trie"
	"github.com/Taraxa-project/light-verifier/types"
	"github.com/Taraxa-project/light-verifier/validators"
	"github.com/Taraxa-project/light-verifier/verifier"
)

var verifyProofCommand = cli.Command{
	Name:   "verify-proof",
	Usage:  "check that a proof finalizes a block under a validator set",
	Action: verifyProof,
	Flags:  []cli.Flag{BlockFlag, ProofFlag, MetadataFlag, PrevStateRootFlag, FormatFlag},
}

var verifyTrieCommand = cli.Command{
	Name:   "verify-trie",
	Usage:  "resolve a key under a trie root from proof nodes",
	Action: verifyTrie,
	Flags:  []cli.Flag{RootFlag, KeyFlag, NodesFlag, StrictFlag, DotFlag},
}

var inspectCommand = cli.Command{
	Name:   "inspect",
	Usage:  "dump a block and its hashes",
	Action: inspect,
	Flags:  []cli.Flag{BlockFlag, PrevStateRootFlag, FormatFlag},
}

func required(ctx *cli.Context, flags ...cli.StringFlag) error {
	for _, f := range flags {
		if ctx.String(f.Name) == "" {
			return fmt.Errorf("--%s is required", f.Name)
		}
	}
	return nil
}

func read_json(path string, v interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func read_block(path string, format types.Format) (*types.Block, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, err := types.DecodeBlockJSON(format, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &block, nil
}

func parse_hash(s string) (common.Hash, error) {
	raw, err := hexutil.Decode(s)
	if err != nil || len(raw) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid hash %q", s)
	}
	return common.BytesToHash(raw), nil
}

func report_metrics(cfg config.Config, s *verifier.Service) {
	if !cfg.Metrics {
		return
	}
	lvmetrics.Log(s.Metrics(), time.Millisecond, log.Root())
	// key cache and trie counters
	lvmetrics.Log(gethmetrics.DefaultRegistry, time.Millisecond, log.Root())
}

// verdict prints the outcome and turns a rejection into exit code 2, leaving
// 1 for usage and input errors.
func verdict(err error) error {
	if err == nil {
		fmt.Println("OK")
		return nil
	}
	return cli.NewExitError(fmt.Sprintf("REJECTED: %v", err), 2)
}

func verifyProof(ctx *cli.Context) error {
	if err := required(ctx, BlockFlag, ProofFlag, MetadataFlag, PrevStateRootFlag); err != nil {
		return err
	}
	cfg, err := load_config(ctx)
	if err != nil {
		return err
	}
	block, err := read_block(ctx.String(BlockFlag.Name), cfg.HeaderFormat())
	if err != nil {
		return err
	}
	var proof types.Proof
	if err := read_json(ctx.String(ProofFlag.Name), &proof); err != nil {
		return err
	}
	var metadata types.Metadata
	if err := read_json(ctx.String(MetadataFlag.Name), &metadata); err != nil {
		return err
	}
	prev_state_root, err := parse_hash(ctx.String(PrevStateRootFlag.Name))
	if err != nil {
		return err
	}
	if !metadata.Version.Contains(block.Header.Number()) {
		log.Warn("Block outside the metadata's range", "number", block.Header.Number(),
			"start", metadata.Version.Start, "end", metadata.Version.End)
	}
	set, err := validators.NewIndex(metadata.Validators())
	if err != nil {
		return verdict(err)
	}
	s, err := verifier.New(cfg)
	if err != nil {
		return err
	}
	defer report_metrics(cfg, s)
	return verdict(s.VerifyBlock(set, verifier.Item{Block: block, PrevStateRoot: prev_state_root, Proof: &proof}))
}

func verifyTrie(ctx *cli.Context) error {
	if err := required(ctx, RootFlag, KeyFlag, NodesFlag); err != nil {
		return err
	}
	cfg, err := load_config(ctx)
	if err != nil {
		return err
	}
	root, err := parse_hash(ctx.String(RootFlag.Name))
	if err != nil {
		return err
	}
	key, err := hexutil.Decode(ctx.String(KeyFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	var nodes []hexutil.Bytes
	if err := read_json(ctx.String(NodesFlag.Name), &nodes); err != nil {
		return err
	}
	item := verifier.TrieItem{Root: root, Key: key, Nodes: make([][]byte, len(nodes))}
	for i, n := range nodes {
		item.Nodes[i] = n
	}
	if path := ctx.String(DotFlag.Name); path != "" {
		g, err := trie.DotProof(item.Nodes)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(g.String()), 0o644); err != nil {
			return err
		}
	}
	s, err := verifier.New(cfg)
	if err != nil {
		return err
	}
	defer report_metrics(cfg, s)
	results, err := s.VerifyTrie(context.Background(), []verifier.TrieItem{item})
	if err != nil {
		return err
	}
	if results[0].Err != nil {
		return verdict(results[0].Err)
	}
	if results[0].Value == nil {
		fmt.Println("ABSENT")
		return nil
	}
	fmt.Println(hexutil.Encode(results[0].Value))
	return nil
}

func inspect(ctx *cli.Context) error {
	if err := required(ctx, BlockFlag); err != nil {
		return err
	}
	cfg, err := load_config(ctx)
	if err != nil {
		return err
	}
	block, err := read_block(ctx.String(BlockFlag.Name), cfg.HeaderFormat())
	if err != nil {
		return err
	}
	spew.Dump(block)
	header_hash, err := digest.HeaderHash(&block.Header)
	if err != nil {
		return err
	}
	fmt.Println("format:     ", block.Header.Format)
	fmt.Println("header hash:", header_hash.Hex())
	if s := ctx.String(PrevStateRootFlag.Name); s != "" {
		prev_state_root, err := parse_hash(s)
		if err != nil {
			return err
		}
		block_hash, err := digest.BlockHash(block, prev_state_root)
		if err != nil {
			return err
		}
		fmt.Println("block hash: ", block_hash.Hex())
	}
	return nil
}
