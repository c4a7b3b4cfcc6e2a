package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb"
)

// SignNote registers event as a pending sign request and wakes the
// consensus loop so this peer proposes its share on the next round.
// Calling SignNote again for an event already pending or already signed
// is a no-op: it returns the event's id without disturbing the existing
// record.
func (m *Module) SignNote(ctx context.Context, event common.Event) (common.EventID, error) {
	eventID := event.ID()

	if _, found, err := m.getSignRequest(ctx, eventID); err != nil {
		return common.EventID{}, err
	} else if found {
		return eventID, nil
	}

	if err := m.putSignRequest(ctx, eventID, signRequest{Event: event}); err != nil {
		return common.EventID{}, err
	}
	m.notify.NotifyProposal()
	return eventID, nil
}

// WaitSignedNote blocks until event's signature request completes (or ctx
// is cancelled) and returns the completed Event together with the
// federation's aggregated Signature.
func (m *Module) WaitSignedNote(ctx context.Context, event common.Event) (common.Event, common.Signature, error) {
	eventID := event.ID()

	for {
		sr, found, err := m.getSignRequest(ctx, eventID)
		if err != nil {
			return common.Event{}, common.Signature{}, err
		}
		if found && sr.Signed {
			return sr.Event, sr.Signature, nil
		}
		if err := m.notify.WaitForEvent(ctx, eventID); err != nil {
			return common.Event{}, common.Signature{}, err
		}
	}
}

// DumpDatabase enumerates the module's rows for debugging/ops tooling,
// restricted to the namespaces named in prefixNames (case-insensitive
// "funds", "outcome", "share", "signature"), or all namespaces if
// prefixNames is empty, dumping funds, outcomes, shares, and signatures by name.
func (m *Module) DumpDatabase(ctx context.Context, prefixNames []string) (map[string]any, error) {
	want := make(map[string]bool, len(prefixNames))
	for _, n := range prefixNames {
		want[strings.ToLower(n)] = true
	}
	include := func(name string) bool { return len(want) == 0 || want[name] }

	out := make(map[string]any)

	if include("funds") {
		rows, err := m.dumpFunds(ctx)
		if err != nil {
			return nil, err
		}
		out["funds"] = rows
	}
	if include("outcome") {
		rows, err := m.dumpOutcomes(ctx)
		if err != nil {
			return nil, err
		}
		out["outcome"] = rows
	}
	if include("share") {
		rows, err := m.dumpShares(ctx)
		if err != nil {
			return nil, err
		}
		out["share"] = rows
	}
	if include("signature") {
		rows, err := m.dumpSignRequests(ctx)
		if err != nil {
			return nil, err
		}
		out["signature"] = rows
	}
	return out, nil
}

func (m *Module) dumpFunds(ctx context.Context) (map[string]common.Amount, error) {
	start, end := keyValueDb.PrefixRange(prefixFunds)
	it, err := m.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("server: dump funds: %w", err)
	}
	defer it.Close()

	rows := make(map[string]common.Amount)
	for it.Next() {
		acct, err := common.AccountFromBytes(it.Key()[1:])
		if err != nil {
			return nil, err
		}
		amt, err := common.DecodeAmount(common.NewReader(it.Value()))
		if err != nil {
			return nil, err
		}
		rows[acct.String()] = amt
	}
	return rows, it.Error()
}

func (m *Module) dumpOutcomes(ctx context.Context) (map[string]common.OutputOutcome, error) {
	start, end := keyValueDb.PrefixRange(prefixOutcome)
	it, err := m.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("server: dump outcomes: %w", err)
	}
	defer it.Close()

	rows := make(map[string]common.OutputOutcome)
	for it.Next() {
		point, err := common.DecodeOutPoint(common.NewReader(it.Key()[1:]))
		if err != nil {
			return nil, err
		}
		r := common.NewReader(it.Value())
		amt, err := common.DecodeAmount(r)
		if err != nil {
			return nil, err
		}
		acct, err := common.DecodeAccount(r)
		if err != nil {
			return nil, err
		}
		rows[point.String()] = common.OutputOutcome{UpdatedFunds: amt, Account: acct}
	}
	return rows, it.Error()
}

func (m *Module) dumpShares(ctx context.Context) (map[string]common.SignatureShare, error) {
	start, end := keyValueDb.PrefixRange(prefixShare)
	it, err := m.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("server: dump shares: %w", err)
	}
	defer it.Close()

	rows := make(map[string]common.SignatureShare)
	for it.Next() {
		peer, err := peerFromShareKey(it.Key())
		if err != nil {
			return nil, err
		}
		share, err := common.DecodeSignatureShare(common.NewReader(it.Value()))
		if err != nil {
			return nil, err
		}
		eventID := it.Key()[1 : 1+common.EventIDSize]
		rows[fmt.Sprintf("%x/%s", eventID, peer)] = share
	}
	return rows, it.Error()
}

func (m *Module) dumpSignRequests(ctx context.Context) (map[string]signRequest, error) {
	start, end := keyValueDb.PrefixRange(prefixSignature)
	it, err := m.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("server: dump signatures: %w", err)
	}
	defer it.Close()

	rows := make(map[string]signRequest)
	for it.Next() {
		sr, err := decodeSignRequest(it.Value())
		if err != nil {
			return nil, err
		}
		rows[sr.Event.ID().String()] = sr
	}
	return rows, it.Error()
}
