package trie

import "github.com/ethereum/go-ethereum/metrics"

var (
	proof_verified = metrics.NewRegisteredCounterForced("verifier/trie/verified", nil)
	proof_absent   = metrics.NewRegisteredCounterForced("verifier/trie/absent", nil)
	proof_failures = metrics.NewRegisteredCounterForced("verifier/trie/failed", nil)
)

func ProofsVerified() int64 {
	return proof_verified.Count()
}

func ProofFailures() int64 {
	return proof_failures.Count()
}
