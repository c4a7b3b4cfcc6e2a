// Package hostdemo provides a minimal in-process stand-in for the host
// collaborators nostimint's server and client modules expect (atomic
// broadcast, transaction submission, RPC transport). It is not part of
// the module's public surface: it exists so cmd/nostimintd can run a
// single-node federation end to end without a real network or consensus
// engine attached.
package hostdemo

import (
	"context"
	"fmt"
	"time"

	"github.com/fedimint-nostimint/nostimint/internal/client"
	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/server"
)

// LocalFederation wraps a single server.Module and exposes it as both a
// client.FederationAPI and a client.GlobalContext by calling straight into
// the module instead of going over the wire.
type LocalFederation struct {
	mod *server.Module
}

// NewLocalFederation wraps mod.
func NewLocalFederation(mod *server.Module) *LocalFederation {
	return &LocalFederation{mod: mod}
}

// SignNote implements client.FederationAPI.
func (f *LocalFederation) SignNote(ctx context.Context, event common.Event) (common.EventID, error) {
	return f.mod.SignNote(ctx, event)
}

// WaitSignedNote implements client.FederationAPI. A single-peer federation
// has a threshold of zero, so the one configured share always completes
// the signature once ConsensusProposal/ProcessConsensusItem have run; the
// demo drives that round-trip here since there is no separate consensus
// loop goroutine wired up for a single local peer.
func (f *LocalFederation) WaitSignedNote(ctx context.Context, event common.Event) (common.Event, common.Signature, error) {
	items, _, err := f.mod.ConsensusProposal(ctx)
	if err != nil {
		return common.Event{}, common.Signature{}, fmt.Errorf("hostdemo: consensus proposal: %w", err)
	}
	for _, item := range items {
		if item.Event.ID() != event.ID() {
			continue
		}
		if err := f.mod.ProcessConsensusItem(ctx, item, 0); err != nil {
			return common.Event{}, common.Signature{}, fmt.Errorf("hostdemo: process consensus item: %w", err)
		}
	}
	return f.mod.WaitSignedNote(ctx, event)
}

// AwaitTxAccepted implements client.GlobalContext by treating every
// submitted transaction as immediately accepted: there is no mempool or
// atomic broadcast in this single-process demo.
func (f *LocalFederation) AwaitTxAccepted(ctx context.Context, op client.OperationId, txid common.TransactionID) error {
	return nil
}

// AwaitOutputOutcome implements client.GlobalContext by reading the
// output's outcome directly off the local module.
func (f *LocalFederation) AwaitOutputOutcome(ctx context.Context, point common.OutPoint, timeout time.Duration) (common.OutputOutcome, error) {
	outcome, found, err := f.mod.OutputStatus(ctx, point)
	if err != nil {
		return common.OutputOutcome{}, err
	}
	if !found {
		return common.OutputOutcome{}, fmt.Errorf("hostdemo: output %s not found", point)
	}
	return outcome, nil
}
