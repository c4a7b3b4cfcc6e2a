package hostdemo

import (
	"context"
	"crypto/sha256"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fedimint-nostimint/nostimint/internal/client"
	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/crypto"
	"github.com/fedimint-nostimint/nostimint/internal/server"
	boltstore "github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb/bbolt"
)

func TestMain(m *testing.M) {
	os.Setenv("NOSTR_PRIVKEY", "test-key-material")
	os.Exit(m.Run())
}

func newSingleNodeFederation(t *testing.T) (*server.Module, *LocalFederation) {
	t.Helper()
	share := crypto.GenerateSecretKeyShare()
	cfg := server.Config{
		Private: server.PrivateConfig{PrivateKeyShare: share},
		Consensus: server.ConsensusConfig{
			PublicKeyShares: map[common.PeerID]crypto.PublicKeyShare{0: share.PublicKeyShare()},
		},
	}
	store, err := boltstore.Open(t.TempDir()+"/peer.db", boltstore.DefaultBucket)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mod, err := server.New(0, cfg, store, nil)
	require.NoError(t, err)
	return mod, NewLocalFederation(mod)
}

func TestLocalFederationSignNoteRoundTrip(t *testing.T) {
	_, fed := newSingleNodeFederation(t)
	ctx := context.Background()

	payload := []byte(`{"content":"hi"}`)
	event := common.NewEvent(common.EventID(sha256.Sum256(payload)), payload)
	_, err := fed.SignNote(ctx, event)
	require.NoError(t, err)

	_, sig, err := fed.WaitSignedNote(ctx, event)
	require.NoError(t, err)
	require.False(t, sig.IsZero())
}

func TestLocalFederationAwaitOutputOutcome(t *testing.T) {
	mod, fed := newSingleNodeFederation(t)
	ctx := context.Background()

	var acct common.Account
	acct[0] = 0x07
	point := common.OutPoint{OutIdx: 3}
	_, err := mod.ProcessOutput(ctx, common.Output{Amount: 77, Account: acct}, point)
	require.NoError(t, err)

	outcome, err := fed.AwaitOutputOutcome(ctx, point, 0)
	require.NoError(t, err)
	require.Equal(t, common.Amount(77), outcome.UpdatedFunds)
}

func TestLocalFederationAwaitTxAcceptedAlwaysSucceeds(t *testing.T) {
	_, fed := newSingleNodeFederation(t)
	require.NoError(t, fed.AwaitTxAccepted(context.Background(), client.OperationId{}, common.TransactionID{}))
}
