package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb"
)

// Database namespace prefixes, one leading byte per table: Funds=0x01,
// Outcome=0x02, SignatureShare=0x03, Signature=0x04.
const (
	prefixFunds     byte = 0x01
	prefixOutcome   byte = 0x02
	prefixShare     byte = 0x03
	prefixSignature byte = 0x04
)

// DatabaseVersion is the module's current schema version.
const DatabaseVersion = 1

func fundsKey(account common.Account) []byte {
	return keyValueDb.PrefixKey(prefixFunds, account[:])
}

func outcomeKey(op common.OutPoint) []byte {
	w := common.NewWriter()
	op.Encode(w)
	return keyValueDb.PrefixKey(prefixOutcome, w.Bytes())
}

func shareEventPrefix(eventID common.EventID) []byte {
	return keyValueDb.PrefixKey(prefixShare, eventID[:])
}

func shareKey(eventID common.EventID, peer common.PeerID) []byte {
	w := common.NewWriter()
	peer.Encode(w)
	return append(shareEventPrefix(eventID), w.Bytes()...)
}

func peerFromShareKey(key []byte) (common.PeerID, error) {
	if len(key) != 1+common.EventIDSize+2 {
		return 0, fmt.Errorf("server: malformed share key of length %d", len(key))
	}
	r := common.NewReader(key[1+common.EventIDSize:])
	return common.DecodePeerID(r)
}

func signatureKey(eventID common.EventID) []byte {
	return keyValueDb.PrefixKey(prefixSignature, eventID[:])
}

// signRequest is the value stored at a Signature-namespace row: the event
// pending or having completed threshold signing, and (once Signed) the
// aggregated Signature. This single record plays the role of the event
// table, overloading the same row for "pending" (Signed false) and
// "complete" (Signed true) states; individual signature shares are kept
// separately under the Share namespace.
type signRequest struct {
	Event     common.Event
	Signed    bool
	Signature common.Signature
}

func (s signRequest) encode() []byte {
	w := common.NewWriter()
	s.Event.Encode(w)
	if s.Signed {
		w.PutUint8(1)
		w.PutFixed(s.Signature[:])
	} else {
		w.PutUint8(0)
	}
	return w.Bytes()
}

func decodeSignRequest(b []byte) (signRequest, error) {
	r := common.NewReader(b)
	ev, err := common.DecodeEvent(r)
	if err != nil {
		return signRequest{}, err
	}
	flag, err := r.Uint8()
	if err != nil {
		return signRequest{}, err
	}
	out := signRequest{Event: ev}
	if flag == 1 {
		sigBytes, err := r.Fixed(common.SignatureShareSize)
		if err != nil {
			return signRequest{}, err
		}
		out.Signed = true
		copy(out.Signature[:], sigBytes)
	}
	return out, nil
}

func (m *Module) getFunds(ctx context.Context, account common.Account) (common.Amount, error) {
	raw, err := m.db.Read(ctx, fundsKey(account))
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return common.ZeroAmount, nil
		}
		return 0, fmt.Errorf("server: read funds: %w", err)
	}
	return common.DecodeAmount(common.NewReader(raw))
}

func (m *Module) putFunds(ctx context.Context, account common.Account, amount common.Amount) error {
	w := common.NewWriter()
	amount.Encode(w)
	if err := m.db.Write(ctx, fundsKey(account), w.Bytes()); err != nil {
		return fmt.Errorf("server: write funds: %w", err)
	}
	return nil
}

func (m *Module) getSignRequest(ctx context.Context, eventID common.EventID) (signRequest, bool, error) {
	raw, err := m.db.Read(ctx, signatureKey(eventID))
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return signRequest{}, false, nil
		}
		return signRequest{}, false, fmt.Errorf("server: read sign request: %w", err)
	}
	sr, err := decodeSignRequest(raw)
	if err != nil {
		return signRequest{}, false, err
	}
	return sr, true, nil
}

func (m *Module) putSignRequest(ctx context.Context, eventID common.EventID, sr signRequest) error {
	if err := m.db.Write(ctx, signatureKey(eventID), sr.encode()); err != nil {
		return fmt.Errorf("server: write sign request: %w", err)
	}
	return nil
}

// migrateV0ToV1 upgrades the legacy presence-only funds rows (no stored
// Amount, balance implicitly zero) to the current schema: legacy rows are
// removed and reinserted at Amount zero under the v1 encoding.
func migrateV0ToV1(ctx context.Context, db keyValueDb.DB) error {
	start, end := keyValueDb.PrefixRange(prefixFunds)
	it, err := db.Iterator(ctx, start, end)
	if err != nil {
		return fmt.Errorf("server: migration: open iterator: %w", err)
	}
	defer it.Close()

	var legacyAccounts []common.Account
	for it.Next() {
		if len(it.Value()) != 0 {
			continue // v1 rows always carry an 8-byte Amount; v0 rows carried no value
		}
		acct, err := common.AccountFromBytes(it.Key()[1:])
		if err != nil {
			return fmt.Errorf("server: migration: bad legacy key: %w", err)
		}
		legacyAccounts = append(legacyAccounts, acct)
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("server: migration: iterate: %w", err)
	}

	var ops []keyValueDb.BatchOperation
	for _, acct := range legacyAccounts {
		w := common.NewWriter()
		common.ZeroAmount.Encode(w)
		ops = append(ops, keyValueDb.BatchOperation{
			Type:  keyValueDb.BatchPut,
			Key:   fundsKey(acct),
			Value: w.Bytes(),
		})
	}
	if len(ops) == 0 {
		return nil
	}
	if err := db.Batch(ctx, ops); err != nil {
		return fmt.Errorf("server: migration: batch: %w", err)
	}
	return nil
}
