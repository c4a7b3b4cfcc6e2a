// Package common holds the wire types shared between the nostimint client and
// server modules: amounts, accounts, events, signature shares and the
// consensus items exchanged over the host federation's atomic broadcast.
//
// Every type here must encode identically on every peer and across restarts;
// see codec.go for the canonical binary encoding rules that guarantee that.
package common

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Amount is a non-negative quantity of minor monetary units (msats).
type Amount uint64

// ZeroAmount is the additive identity, used as the default funds balance.
const ZeroAmount Amount = 0

func (a Amount) String() string { return fmt.Sprintf("%d msat", uint64(a)) }

// AccountSize is the length in bytes of an x-only secp256k1 public key.
const AccountSize = 32

// Account is an x-only curve point identifying a federation user. Equality
// and hashing are by byte value.
type Account [AccountSize]byte

func (a Account) String() string { return hex.EncodeToString(a[:]) }

// Equal reports whether two accounts hold the same bytes.
func (a Account) Equal(other Account) bool { return bytes.Equal(a[:], other[:]) }

// IsZero reports whether the account is the zero value (never a valid key).
func (a Account) IsZero() bool { return a == Account{} }

// AccountFromBytes copies b into an Account, erroring if the length is wrong.
func AccountFromBytes(b []byte) (Account, error) {
	var a Account
	if len(b) != AccountSize {
		return a, fmt.Errorf("%w: account must be %d bytes, got %d", ErrDecode, AccountSize, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// PeerID is a small non-negative integer uniquely identifying a federation
// member within one configuration epoch.
type PeerID uint16

func (p PeerID) String() string { return fmt.Sprintf("peer#%d", uint16(p)) }

// TransactionID identifies a federation transaction.
type TransactionID [32]byte

func (t TransactionID) String() string { return hex.EncodeToString(t[:]) }

// OutPoint identifies a specific output of a federation transaction.
type OutPoint struct {
	TxID    TransactionID
	OutIdx  uint64
}

func (o OutPoint) String() string { return fmt.Sprintf("%s:%d", o.TxID, o.OutIdx) }

// EventIDSize is the length in bytes of an EventID.
const EventIDSize = 32

// EventID is the 32-byte content-derived identifier of an Event.
type EventID [EventIDSize]byte

func (id EventID) String() string { return hex.EncodeToString(id[:]) }

// IsZero reports whether id is the zero value.
func (id EventID) IsZero() bool { return id == EventID{} }

// Event is an opaque, self-identifying message envelope. The core never
// interprets its contents beyond recomputing its EventID; the payload is
// carried as already-serialized canonical JSON so every peer hashes the
// identical bytes regardless of map key ordering in whatever produced it.
type Event struct {
	id      EventID
	rawJSON []byte
}

// NewEvent wraps canonical JSON bytes and a precomputed EventID. Callers
// (the event-object schema is an external collaborator, see spec.md §1)
// guarantee that id is the correct content hash of rawJSON.
func NewEvent(id EventID, rawJSON []byte) Event {
	cp := make([]byte, len(rawJSON))
	copy(cp, rawJSON)
	return Event{id: id, rawJSON: cp}
}

// ID returns the event's stable identifier.
func (e Event) ID() EventID { return e.id }

// RawJSON returns the canonical JSON encoding of the event.
func (e Event) RawJSON() []byte {
	cp := make([]byte, len(e.rawJSON))
	copy(cp, e.rawJSON)
	return cp
}

// Equal compares events by EventID alone, per spec.md §3.
func (e Event) Equal(other Event) bool { return e.id == other.id }

// SignatureShareSize is the length in bytes of a compressed BLS signature
// share (G2 point on BLS12-381, as produced in the ETH mode internal/crypto
// configures).
const SignatureShareSize = 96

// SignatureShare is one peer's partial signature over an EventID under the
// threshold scheme.
type SignatureShare [SignatureShareSize]byte

func (s SignatureShare) String() string { return hex.EncodeToString(s[:]) }

// Signature is a completed threshold signature aggregated from more than
// `threshold` valid shares.
type Signature [SignatureShareSize]byte

func (s Signature) String() string { return hex.EncodeToString(s[:]) }

// IsZero reports whether s has never been set.
func (s Signature) IsZero() bool { return s == Signature{} }

// ConsensusItemKind tags the sum type carried over atomic broadcast.
type ConsensusItemKind uint8

const (
	// ConsensusItemNote carries one peer's signature share for an event.
	ConsensusItemNote ConsensusItemKind = iota
)

// ConsensusItem is the non-transaction item nostimint submits to consensus:
// a single peer's signature share for a pending event (spec.md §4.4).
type ConsensusItem struct {
	Kind  ConsensusItemKind
	Event Event
	Share SignatureShare
}

// Input is a federation-transaction input spending from an account's funds.
type Input struct {
	Amount  Amount
	Account Account
}

func (i Input) String() string { return fmt.Sprintf("Input(%s, %s)", i.Amount, i.Account) }

// Output is a federation-transaction output crediting an account's funds.
type Output struct {
	Amount  Amount
	Account Account
}

func (o Output) String() string { return fmt.Sprintf("Output(%s, %s)", o.Amount, o.Account) }

// OutputOutcome is the information a client needs to confirm an output was
// applied: the account's updated balance and the account itself.
type OutputOutcome struct {
	UpdatedFunds Amount
	Account      Account
}

// ClientConfig is the subset of the federation's module configuration
// visible to clients: the fee schedule and the federation's aggregate
// threshold public key.
type ClientConfig struct {
	TxFee        Amount
	FedPublicKey [96]byte // compressed 48-byte BLS12-381 G1 public key in the first 48 bytes; the rest are zero
}
