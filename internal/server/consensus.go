package server

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/crypto"
	"github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb"
)

// ErrPeerNotProvisioned is returned when a peer's NOSTR_PRIVKEY environment
// variable is unset, surfacing a clear error instead of letting the peer
// silently sit out consensus.
var ErrPeerNotProvisioned = errors.New("server: NOSTR_PRIVKEY not set for this peer")

// nostrPrivKeyEnv is the per-peer environment variable each peer reads to
// confirm it is provisioned to sign. It is read per peer process, not
// federation-wide: see SPEC_FULL.md's Open Questions.
const nostrPrivKeyEnv = "NOSTR_PRIVKEY"

// ConsensusProposal returns this peer's proposed consensus items for the
// current round: one Note item per pending sign request this peer has not
// yet signed, plus whether the round should fire immediately (true
// whenever there is at least one item).
func (m *Module) ConsensusProposal(ctx context.Context) ([]common.ConsensusItem, bool, error) {
	start, end := keyValueDb.PrefixRange(prefixSignature)
	it, err := m.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, false, fmt.Errorf("server: consensus proposal: open iterator: %w", err)
	}
	defer it.Close()

	if _, set := os.LookupEnv(nostrPrivKeyEnv); !set {
		// presence check only; the module signs with its configured BLS
		// share regardless. NOSTR_PRIVKEY gates on whether this peer is
		// provisioned to participate at all.
		return nil, false, ErrPeerNotProvisioned
	}

	var items []common.ConsensusItem
	for it.Next() {
		sr, err := decodeSignRequest(it.Value())
		if err != nil {
			return nil, false, err
		}
		if sr.Signed {
			continue
		}
		_, found, err := m.getShare(ctx, sr.Event.ID(), m.id)
		if err != nil {
			return nil, false, err
		}
		if found {
			continue
		}
		share := m.cfg.Private.PrivateKeyShare.Sign(sr.Event.ID())
		items = append(items, common.ConsensusItem{
			Kind:  common.ConsensusItemNote,
			Event: sr.Event,
			Share: share,
		})
	}
	if err := it.Error(); err != nil {
		return nil, false, fmt.Errorf("server: consensus proposal: iterate: %w", err)
	}

	return items, len(items) > 0, nil
}

// AwaitConsensusProposal blocks until ConsensusProposal would return at
// least one item, suspending on the module's notifier in between checks
// rather than busy-polling.
func (m *Module) AwaitConsensusProposal(ctx context.Context) ([]common.ConsensusItem, error) {
	for {
		items, ready, err := m.ConsensusProposal(ctx)
		if err != nil {
			return nil, err
		}
		if ready {
			return items, nil
		}
		if err := m.notify.WaitForProposal(ctx); err != nil {
			return nil, err
		}
	}
}

func (m *Module) getShare(ctx context.Context, eventID common.EventID, peer common.PeerID) (common.SignatureShare, bool, error) {
	raw, err := m.db.Read(ctx, shareKey(eventID, peer))
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return common.SignatureShare{}, false, nil
		}
		return common.SignatureShare{}, false, fmt.Errorf("server: read share: %w", err)
	}
	share, err := common.DecodeSignatureShare(common.NewReader(raw))
	if err != nil {
		return common.SignatureShare{}, false, err
	}
	return share, true, nil
}

// ProcessConsensusItem validates and applies one peer's consensus item.
// Only ConsensusItemNote is supported. A duplicate share from the same
// peer for the same event, or a share that fails verification against
// that peer's published public key, is rejected without being applied.
// Once more than the federation's threshold of distinct peers have
// contributed a valid share for an event, the shares are combined into a
// Signature, the per-event share rows are pruned, and the sign request is
// marked complete once the threshold is crossed.
func (m *Module) ProcessConsensusItem(ctx context.Context, item common.ConsensusItem, from common.PeerID) error {
	if item.Kind != common.ConsensusItemNote {
		return fmt.Errorf("%w: %d", ErrUnsupportedConsensusItem, item.Kind)
	}

	eventID := item.Event.ID()

	if _, found, err := m.getShare(ctx, eventID, from); err != nil {
		return err
	} else if found {
		return fmt.Errorf("%w: peer %s, event %s", ErrDuplicateShare, from, eventID)
	}

	pub, ok := m.cfg.Consensus.PublicKeyShares[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPeer, from)
	}
	valid, err := crypto.VerifyShare(pub, eventID, item.Share)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShare, err)
	}
	if !valid {
		return fmt.Errorf("%w: peer %s, event %s", ErrInvalidShare, from, eventID)
	}

	w := common.NewWriter()
	item.Share.Encode(w)
	if err := m.db.Write(ctx, shareKey(eventID, from), w.Bytes()); err != nil {
		return fmt.Errorf("server: write share: %w", err)
	}

	shares, err := m.collectShares(ctx, eventID)
	if err != nil {
		return err
	}
	if len(shares) <= m.cfg.Consensus.Threshold() {
		return nil
	}

	combined, err := crypto.Combine(shares)
	if err != nil {
		return fmt.Errorf("server: combine shares: %w", err)
	}

	if err := m.pruneShares(ctx, eventID); err != nil {
		return err
	}

	sr, found, err := m.getSignRequest(ctx, eventID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	sr.Signed = true
	sr.Signature = combined
	if err := m.putSignRequest(ctx, eventID, sr); err != nil {
		return err
	}

	m.notify.NotifyEventComplete(eventID)
	m.log.WithField("event", eventID).Info("threshold signature completed")
	return nil
}

func (m *Module) collectShares(ctx context.Context, eventID common.EventID) ([]common.SignatureShare, error) {
	start, end := keyValueDb.Range(shareEventPrefix(eventID))
	it, err := m.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("server: collect shares: open iterator: %w", err)
	}
	defer it.Close()

	var shares []common.SignatureShare
	for it.Next() {
		share, err := common.DecodeSignatureShare(common.NewReader(it.Value()))
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("server: collect shares: iterate: %w", err)
	}
	return shares, nil
}

func (m *Module) pruneShares(ctx context.Context, eventID common.EventID) error {
	start, end := keyValueDb.Range(shareEventPrefix(eventID))
	it, err := m.db.Iterator(ctx, start, end)
	if err != nil {
		return fmt.Errorf("server: prune shares: open iterator: %w", err)
	}
	defer it.Close()

	var ops []keyValueDb.BatchOperation
	for it.Next() {
		key := append([]byte(nil), it.Key()...)
		ops = append(ops, keyValueDb.BatchOperation{Type: keyValueDb.BatchDelete, Key: key})
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("server: prune shares: iterate: %w", err)
	}
	if len(ops) == 0 {
		return nil
	}
	if err := m.db.Batch(ctx, ops); err != nil {
		return fmt.Errorf("server: prune shares: batch: %w", err)
	}
	return nil
}
