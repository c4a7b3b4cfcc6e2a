package client

import (
	"context"
	"fmt"
	"time"

	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb"
)

// OperationId threads every state transition belonging to one user-initiated
// operation (one submitted input or output) so the client can look up "what
// happened to my transaction" by a single stable handle.
type OperationId [32]byte

func (id OperationId) String() string { return fmt.Sprintf("%x", id[:]) }

// StateKind enumerates the points in a transaction's lifecycle nostimint
// tracks client-side.
type StateKind int

const (
	StateInput StateKind = iota
	StateOutput
	StateInputDone
	StateOutputDone
	StateRefund
)

func (k StateKind) String() string {
	switch k {
	case StateInput:
		return "input"
	case StateOutput:
		return "output"
	case StateInputDone:
		return "input_done"
	case StateOutputDone:
		return "output_done"
	case StateRefund:
		return "refund"
	default:
		return "unknown"
	}
}

// State is one snapshot of a tracked operation.
type State struct {
	Kind        StateKind
	OperationID OperationId
	Amount      common.Amount
	TxID        common.TransactionID
}

// Terminal reports whether a state has no further transitions: InputDone,
// OutputDone, and Refund are all terminal.
func (s State) Terminal() bool {
	switch s.Kind {
	case StateInputDone, StateOutputDone, StateRefund:
		return true
	default:
		return false
	}
}

// GlobalContext is the host's transaction submission pipeline: awaiting
// acceptance of a submitted transaction, and awaiting a module output's
// outcome once consensus on it has been reached. Both are out-of-scope
// host collaborators per spec.md §1; only their interface is named here.
type GlobalContext interface {
	AwaitTxAccepted(ctx context.Context, op OperationId, txid common.TransactionID) error
	AwaitOutputOutcome(ctx context.Context, point common.OutPoint, timeout time.Duration) (common.OutputOutcome, error)
}

// DefaultOutcomeTimeout is the client's default wait for an output outcome
// to appear, matching Duration::from_millis(i32::MAX as u64) in the
// the maximum millisecond delay representable as a signed 32-bit value. A deployment may override it;
// see SPEC_FULL.md's Open Questions.
const DefaultOutcomeTimeout = time.Duration(1<<31-1) * time.Millisecond

// advanceInput drives the Input state: on tx acceptance it becomes
// InputDone; on rejection it refunds the spent amount back to the local
// balance and becomes Refund. Only a context cancellation or a failed
// local funds write propagates as an error; host-reported rejection is a
// normal transition, not a failure.
func advanceInput(ctx context.Context, db keyValueDb.DB, global GlobalContext, amount common.Amount, txid common.TransactionID, id OperationId) (State, error) {
	err := global.AwaitTxAccepted(ctx, id, txid)
	if err == nil {
		return State{Kind: StateInputDone, OperationID: id}, nil
	}
	if ctx.Err() != nil {
		return State{}, ctx.Err()
	}
	if err := addFunds(ctx, db, amount); err != nil {
		return State{}, err
	}
	return State{Kind: StateRefund, OperationID: id}, nil
}

// advanceOutput drives the Output state: on outcome acceptance it credits
// the output's amount to the local balance and becomes OutputDone; on
// rejection no funds move and it becomes Refund (nothing was ever spent
// for an output, so there is nothing to return).
func advanceOutput(ctx context.Context, db keyValueDb.DB, global GlobalContext, amount common.Amount, txid common.TransactionID, id OperationId, timeout time.Duration) (State, error) {
	_, err := global.AwaitOutputOutcome(ctx, common.OutPoint{TxID: txid, OutIdx: 0}, timeout)
	if err == nil {
		if err := addFunds(ctx, db, amount); err != nil {
			return State{}, err
		}
		return State{Kind: StateOutputDone, OperationID: id, Amount: amount}, nil
	}
	if ctx.Err() != nil {
		return State{}, ctx.Err()
	}
	return State{Kind: StateRefund, OperationID: id}, nil
}
