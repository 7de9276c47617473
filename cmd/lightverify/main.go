// lightverify checks finality proofs and trie proofs given as JSON files.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"gopkg.in/urfave/cli.v1"

	"github.com/Taraxa-project/light-verifier/config"
)

var (
	ConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	VerbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "log level, 0 (silent) to 5 (trace)",
		Value: config.Default().Verbosity,
	}
	MetricsFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "collect metrics and log them on exit",
	}
	FormatFlag = cli.StringFlag{
		Name:  "format",
		Usage: "header layout of the block: legacy or v0",
	}
	BlockFlag = cli.StringFlag{
		Name:  "block",
		Usage: "block JSON file",
	}
	ProofFlag = cli.StringFlag{
		Name:  "proof",
		Usage: "finality proof JSON file",
	}
	MetadataFlag = cli.StringFlag{
		Name:  "metadata",
		Usage: "metadata JSON file holding the validator set",
	}
	PrevStateRootFlag = cli.StringFlag{
		Name:  "prev-state-root",
		Usage: "state root of the parent block",
	}
	RootFlag = cli.StringFlag{
		Name:  "root",
		Usage: "trie root",
	}
	KeyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "hex key to look up",
	}
	NodesFlag = cli.StringFlag{
		Name:  "nodes",
		Usage: "JSON file with the proof nodes as a list of hex strings",
	}
	StrictFlag = cli.BoolFlag{
		Name:  "strict",
		Usage: "treat a proof that stops short of the key as invalid",
	}
	DotFlag = cli.StringFlag{
		Name:  "dot",
		Usage: "write the proof as a graphviz graph to this file",
	}
)

var log_output io.Writer = os.Stderr

func new_app() *cli.App {
	app := cli.NewApp()
	app.Name = "lightverify"
	app.Usage = "verify block finality proofs and trie proofs"
	app.Flags = []cli.Flag{ConfigFlag, VerbosityFlag, MetricsFlag}
	app.Commands = []cli.Command{
		verifyProofCommand,
		verifyTrieCommand,
		inspectCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		cfg, err := load_config(ctx)
		if err != nil {
			return err
		}
		glogger := log.NewGlogHandler(log.StreamHandler(log_output, log.TerminalFormat(false)))
		glogger.Verbosity(log.Lvl(cfg.Verbosity))
		log.Root().SetHandler(glogger)
		metrics.Enabled = cfg.Metrics
		return nil
	}
	return app
}

// load_config reads --config, or the defaults, and applies the global flags
// over it.
func load_config(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.GlobalString(ConfigFlag.Name); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if ctx.GlobalIsSet(VerbosityFlag.Name) {
		cfg.Verbosity = ctx.GlobalInt(VerbosityFlag.Name)
	}
	if ctx.GlobalBool(MetricsFlag.Name) {
		cfg.Metrics = true
	}
	if ctx.IsSet(FormatFlag.Name) {
		cfg.Format = ctx.String(FormatFlag.Name)
	}
	if ctx.IsSet(StrictFlag.Name) {
		cfg.StrictTrie = ctx.Bool(StrictFlag.Name)
	}
	return cfg, cfg.Validate()
}

func main() {
	if err := new_app().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
