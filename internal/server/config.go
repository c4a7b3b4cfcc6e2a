package server

import (
	"fmt"

	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/crypto"
)

// GenParams carries the parameters a config-generation ceremony (trusted
// dealer or distributed key generation, both host collaborators out of
// this module's scope) needs to produce a Config per peer.
type GenParams struct {
	Local    GenParamsLocal
	Consensus GenParamsConsensus
}

// GenParamsLocal holds per-peer generation inputs; empty for now, kept as an
// extension point for future consensus parameters.
type GenParamsLocal struct{}

// GenParamsConsensus holds federation-wide generation inputs.
type GenParamsConsensus struct {
	TxFee common.Amount
}

// Config is one peer's full module configuration: its private share plus
// the federation-wide consensus configuration.
type Config struct {
	Private   PrivateConfig
	Consensus ConsensusConfig
}

// PrivateConfig is the secret half of a peer's configuration.
type PrivateConfig struct {
	PrivateKeyShare crypto.SecretKeyShare
}

// ConsensusConfig is the half of the configuration every peer must agree on:
// each peer's published public key share, keyed by PeerID, plus the fee
// schedule. The federation's quorum threshold is len(PublicKeyShares)/2
// (a 2f+1-style majority over f+1 peers is out of scope here; this uses a
// simple strict majority).
type ConsensusConfig struct {
	PublicKeyShares map[common.PeerID]crypto.PublicKeyShare
	TxFee           common.Amount
}

// Threshold returns the number of shares that must be exceeded (not merely
// met) before an event's signature is considered complete.
func (c ConsensusConfig) Threshold() int {
	return len(c.PublicKeyShares) / 2
}

// AggregatePublicKey sums every peer's public key share into the
// federation's aggregate public key, assuming every peer has contributed.
func (c ConsensusConfig) AggregatePublicKey() (crypto.PublicKeyShare, error) {
	if len(c.PublicKeyShares) == 0 {
		return crypto.PublicKeyShare{}, fmt.Errorf("server: consensus config has no public key shares")
	}
	var agg crypto.PublicKeyShare
	first := true
	for _, pk := range c.PublicKeyShares {
		if first {
			agg = pk
			first = false
			continue
		}
		agg = agg.Add(pk)
	}
	return agg, nil
}

// ClientConfig derives the public ClientConfig a client module needs:
// the fee schedule and the federation's aggregate public key.
func (c ConsensusConfig) ClientConfig() (common.ClientConfig, error) {
	agg, err := c.AggregatePublicKey()
	if err != nil {
		return common.ClientConfig{}, err
	}
	var out common.ClientConfig
	out.TxFee = c.TxFee
	copy(out.FedPublicKey[:], agg.Bytes())
	return out, nil
}

// ValidateConfig checks that a peer's private key share corresponds to its
// own published public key share. This is pure local computation and does
// not depend on the (out of scope) DKG ceremony that produced the shares.
func ValidateConfig(id common.PeerID, cfg Config) error {
	ourShare, ok := cfg.Consensus.PublicKeyShares[id]
	if !ok {
		return fmt.Errorf("server: validate config: %w: %s", ErrUnknownPeer, id)
	}
	derived := cfg.Private.PrivateKeyShare.PublicKeyShare()
	if string(derived.Bytes()) != string(ourShare.Bytes()) {
		return crypto.ErrPrivateKeyMismatch
	}
	return nil
}
