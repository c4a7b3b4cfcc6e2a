package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/crypto"
	"github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb"
)

// Module is one user's in-process nostimint client instance: its account
// key, its view of the federation's public configuration, its persistent
// funds balance and in-flight operation state machines.
type Module struct {
	cfg            common.ClientConfig
	key            crypto.AccountKeyPair
	db             keyValueDb.DB
	api            FederationAPI
	events         EventBuilder
	global         GlobalContext
	outcomeTimeout time.Duration
	log            *logrus.Entry

	mu  sync.Mutex
	ops map[OperationId]State
}

// New constructs a client Module. key is the account's own keypair,
// derived by the host from the user's module root secret.
func New(cfg common.ClientConfig, key crypto.AccountKeyPair, db keyValueDb.DB, api FederationAPI, events EventBuilder, global GlobalContext, log *logrus.Logger) *Module {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Module{
		cfg:            cfg,
		key:            key,
		db:             db,
		api:            api,
		events:         events,
		global:         global,
		outcomeTimeout: DefaultOutcomeTimeout,
		log:            log.WithField("module", "nostimint-client"),
		ops:            make(map[OperationId]State),
	}
}

// SetOutcomeTimeout overrides the default wait for an output outcome to
// appear; see SPEC_FULL.md's Open Questions.
func (m *Module) SetOutcomeTimeout(d time.Duration) { m.outcomeTimeout = d }

// Account returns this client's x-only account public key.
func (m *Module) Account() common.Account { return m.key.Account() }

// FedPublicKey returns the federation's aggregate public key.
func (m *Module) FedPublicKey() [96]byte { return m.cfg.FedPublicKey }

// Funds returns the client's locally tracked balance.
func (m *Module) Funds(ctx context.Context) (common.Amount, error) {
	return getFunds(ctx, m.db)
}

// FedSignNote asks the federation to threshold-sign message into a note
// and blocks until the signature is ready.
func (m *Module) FedSignNote(ctx context.Context, message string) (common.Signature, error) {
	event, err := m.events.BuildNote(message)
	if err != nil {
		return common.Signature{}, fmt.Errorf("client: build note: %w", err)
	}

	if _, err := m.api.SignNote(ctx, event); err != nil {
		return common.Signature{}, fmt.Errorf("client: sign note: %w", err)
	}
	m.log.WithField("message", message).Info("message sent to federation to be signed")

	_, sig, err := m.api.WaitSignedNote(ctx, event)
	if err != nil {
		return common.Signature{}, fmt.Errorf("client: wait signed note: %w", err)
	}
	return sig, nil
}

// TrackInput registers a newly submitted input transaction and drives it
// through to InputDone or Refund.
func (m *Module) TrackInput(ctx context.Context, amount common.Amount, txid common.TransactionID, id OperationId) (State, error) {
	m.setState(State{Kind: StateInput, OperationID: id, Amount: amount, TxID: txid})
	final, err := advanceInput(ctx, m.db, m.global, amount, txid, id)
	if err != nil {
		return State{}, err
	}
	m.setState(final)
	return final, nil
}

// TrackOutput registers a newly submitted output transaction and drives it
// through to OutputDone or Refund.
func (m *Module) TrackOutput(ctx context.Context, amount common.Amount, txid common.TransactionID, id OperationId) (State, error) {
	m.setState(State{Kind: StateOutput, OperationID: id, Amount: amount, TxID: txid})
	final, err := advanceOutput(ctx, m.db, m.global, amount, txid, id, m.outcomeTimeout)
	if err != nil {
		return State{}, err
	}
	m.setState(final)
	return final, nil
}

// OperationState returns the last recorded state of id.
func (m *Module) OperationState(id OperationId) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.ops[id]
	if !ok {
		return State{}, fmt.Errorf("%w: %s", ErrUnknownOperation, id)
	}
	return s, nil
}

func (m *Module) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[s.OperationID] = s
}

// HandleCLICommand dispatches a client CLI invocation. args[0] is the
// subcommand name; "sign-note" requires exactly one further argument, the
// message to sign.
func (m *Module) HandleCLICommand(ctx context.Context, args []string) (common.Signature, error) {
	if len(args) == 0 {
		return common.Signature{}, fmt.Errorf("client: expected at least 1 argument: <command> ...")
	}

	switch args[0] {
	case "sign-note":
		if len(args) != 2 {
			return common.Signature{}, fmt.Errorf("client: `sign-note` command expects 1 argument: <message of kind1 note>")
		}
		return m.FedSignNote(ctx, args[1])
	default:
		return common.Signature{}, fmt.Errorf("client: unknown command: %s, supported commands: sign-note", args[0])
	}
}
