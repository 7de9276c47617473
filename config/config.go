// Package config holds the settings of the verifier service and the
// lightverify tool. Files are TOML; unset keys keep their defaults.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"github.com/Taraxa-project/light-verifier/crypto/bls"
	"github.com/Taraxa-project/light-verifier/types"
)

const MaxWorkers = 1024

type Config struct {
	// Workers bounds the number of proofs verified at once.
	Workers int `toml:"workers"`
	// KeyCacheSize is the number of decoded validator keys kept. 0 disables
	// the cache.
	KeyCacheSize int `toml:"key_cache_size"`
	// Verbosity is a log level, 0 (silent) to 5 (trace).
	Verbosity int  `toml:"verbosity"`
	Metrics   bool `toml:"metrics"`
	// Format is the header layout of input blocks: "legacy" or "v0".
	Format string `toml:"format"`
	// StrictTrie makes a trie proof that stops short of the key an error
	// instead of an empty result.
	StrictTrie bool `toml:"strict_trie"`
}

func Default() Config {
	return Config{
		Workers:      runtime.NumCPU(),
		KeyCacheSize: 4 * 1024,
		Verbosity:    3,
		Format:       types.FormatV0.String(),
	}
}

// Load reads path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	ret := Default()
	md, err := toml.DecodeFile(path, &ret)
	if err != nil {
		return ret, fmt.Errorf("failed to load config %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return ret, fmt.Errorf("config %q: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return ret, ret.Validate()
}

func (self *Config) Validate() (err error) {
	if self.Workers < 1 || self.Workers > MaxWorkers {
		err = multierr.Append(err, fmt.Errorf("workers must be in [1, %d], got %d", MaxWorkers, self.Workers))
	}
	if self.KeyCacheSize < 0 {
		err = multierr.Append(err, fmt.Errorf("key_cache_size must not be negative, got %d", self.KeyCacheSize))
	}
	if self.Verbosity < 0 || self.Verbosity > 5 {
		err = multierr.Append(err, fmt.Errorf("verbosity must be in [0, 5], got %d", self.Verbosity))
	}
	if _, e := types.ParseFormat(self.Format); e != nil {
		err = multierr.Append(err, fmt.Errorf("format: %w", e))
	}
	return
}

// HeaderFormat is the parsed Format. Call it on a validated config.
func (self *Config) HeaderFormat() types.Format {
	f, _ := types.ParseFormat(self.Format)
	return f
}

// KeySource returns the key cache the config asks for, or the plain decoder.
func (self *Config) KeySource() (bls.KeySource, error) {
	if self.KeyCacheSize == 0 {
		return bls.Decoder, nil
	}
	return bls.NewKeyCache(self.KeyCacheSize)
}
