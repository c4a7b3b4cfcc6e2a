// Package server implements the federation-side half of the nostimint
// module: account funds accounting, threshold signature-share consensus,
// and the sign_note/wait_signed_note API surface. It is grounded on an
// internal/storage/keyValueDb persistence style and an internal/core/consensus
// engine's event shapes.
package server

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb"
)

// verificationCacheSize bounds the per-round input verification cache; a
// round rarely touches more than a few thousand distinct accounts.
const verificationCacheSize = 4096

// Module is one federation peer's in-process nostimint server instance.
type Module struct {
	id  common.PeerID
	cfg Config
	db  keyValueDb.DB
	log *logrus.Entry

	verifyCache *lru.Cache[common.Account, common.Amount]

	notify *eventNotifier
}

// New constructs a Module bound to its own peer id, configuration and
// persistent store. The caller is responsible for running any pending
// migration (see Migrate) before serving traffic.
func New(id common.PeerID, cfg Config, db keyValueDb.DB, log *logrus.Logger) (*Module, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	cache, err := lru.New[common.Account, common.Amount](verificationCacheSize)
	if err != nil {
		return nil, err
	}
	return &Module{
		id:          id,
		cfg:         cfg,
		db:          db,
		log:         log.WithField("module", "nostimint").WithField("peer", id),
		verifyCache: cache,
		notify:      newEventNotifier(),
	}, nil
}

// Migrate brings the module's database up to DatabaseVersion, applying the
// v0->v1 funds-schema migration if legacy rows are present.
func (m *Module) Migrate(ctx context.Context) error {
	return migrateV0ToV1(ctx, m.db)
}

// invalidateVerificationCache drops a cached balance lookup, called
// whenever ProcessInput or ProcessOutput changes an account's funds so a
// concurrent verification pass never reads a stale balance from the cache.
func (m *Module) invalidateVerificationCache(account common.Account) {
	m.verifyCache.Remove(account)
}

// eventNotifier is an edge-triggered wakeup for "a new consensus proposal
// may be ready" and "event X's signature just completed", the Go analogue
// of a condition-variable style notifier and
// context.wait_value_matches. Each waiter gets its own channel so delivery
// to one waiter never starves another, the same fan-out shape as the
// teacher's consensus EventBus (internal/core/consensus/events.go).
type eventNotifier struct {
	mu       sync.Mutex
	waiters  []chan struct{}
	perEvent map[common.EventID][]chan struct{}
}

func newEventNotifier() *eventNotifier {
	return &eventNotifier{perEvent: make(map[common.EventID][]chan struct{})}
}

// NotifyProposal wakes every goroutine blocked in WaitForProposal.
func (n *eventNotifier) NotifyProposal() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.waiters {
		close(ch)
	}
	n.waiters = nil
}

// WaitForProposal blocks until NotifyProposal fires or ctx is cancelled.
func (n *eventNotifier) WaitForProposal(ctx context.Context) error {
	n.mu.Lock()
	ch := make(chan struct{})
	n.waiters = append(n.waiters, ch)
	n.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NotifyEventComplete wakes every goroutine blocked in WaitForEvent(id).
func (n *eventNotifier) NotifyEventComplete(id common.EventID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.perEvent[id] {
		close(ch)
	}
	delete(n.perEvent, id)
}

// WaitForEvent blocks until id's signature completes or ctx is cancelled.
func (n *eventNotifier) WaitForEvent(ctx context.Context, id common.EventID) error {
	n.mu.Lock()
	ch := make(chan struct{})
	n.perEvent[id] = append(n.perEvent[id], ch)
	n.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BuildVerificationCache records the current balance of every account
// appearing in a batch of inputs that is not already cached. ProcessInput
// and ProcessOutput do not read this cache: they read balances from the
// database and drop the cached entry of every account they change.
func (m *Module) BuildVerificationCache(ctx context.Context, inputs []common.Input) error {
	for _, in := range inputs {
		if _, ok := m.verifyCache.Get(in.Account); ok {
			continue
		}
		funds, err := m.getFunds(ctx, in.Account)
		if err != nil {
			return err
		}
		m.verifyCache.Add(in.Account, funds)
	}
	return nil
}
