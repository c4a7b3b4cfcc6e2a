package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/fedimint-nostimint/nostimint/internal/common"
)

// ConsensusItemSource delivers consensus items this peer's proposals must
// be broadcast through and other peers' items must be received from; it is
// the federation's atomic broadcast, a host collaborator out of this
// module's scope (spec.md §1).
type ConsensusItemSource interface {
	Broadcast(ctx context.Context, items []ConsensusItemEnvelope) error
	Receive(ctx context.Context) (ConsensusItemEnvelope, error)
}

// ConsensusItemEnvelope pairs a consensus item with the submitting peer, as
// it arrives off the federation's broadcast.
type ConsensusItemEnvelope struct {
	PeerID common.PeerID
	Item   common.ConsensusItem
}

// Run drives the module's consensus loop until ctx is cancelled: propose
// when AwaitConsensusProposal has items, apply every item received from
// the broadcast. The two halves run as independent, cooperatively
// cancelled goroutines under one errgroup, the same task-group shape as
// a propose/broadcast loop and a receive/process loop running concurrently.
func (m *Module) Run(ctx context.Context, source ConsensusItemSource) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			items, err := m.AwaitConsensusProposal(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			envelopes := make([]ConsensusItemEnvelope, len(items))
			for i, item := range items {
				envelopes[i] = ConsensusItemEnvelope{PeerID: m.id, Item: item}
			}
			if err := source.Broadcast(ctx, envelopes); err != nil {
				m.log.WithError(err).Error("broadcast consensus proposal")
			}
		}
	})

	g.Go(func() error {
		for {
			envelope, err := source.Receive(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if err := m.ProcessConsensusItem(ctx, envelope.Item, envelope.PeerID); err != nil {
				m.log.WithError(err).WithField("from", envelope.PeerID).Warn("rejected consensus item")
			}
		}
	})

	return g.Wait()
}
