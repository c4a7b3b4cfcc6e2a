package client

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/fedimint-nostimint/nostimint/internal/common"
	boltstore "github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb/bbolt"
)

func newTestDB(t *testing.T) *boltstore.DB {
	t.Helper()
	path := t.TempDir() + "/client.db"
	db, err := boltstore.Open(path, boltstore.DefaultBucket)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAdvanceInputAcceptedReachesInputDone(t *testing.T) {
	db := newTestDB(t)
	ctrl := gomock.NewController(t)
	global := NewMockGlobalContext(ctrl)

	id := OperationId{1}
	txid := common.TransactionID{2}
	global.EXPECT().AwaitTxAccepted(gomock.Any(), id, txid).Return(nil)

	state, err := advanceInput(context.Background(), db, global, common.Amount(100), txid, id)
	require.NoError(t, err)
	require.Equal(t, StateInputDone, state.Kind)

	funds, err := getFunds(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, common.ZeroAmount, funds, "accepted input never credits the local balance")
}

func TestAdvanceInputRejectedRefundsBalance(t *testing.T) {
	db := newTestDB(t)
	ctrl := gomock.NewController(t)
	global := NewMockGlobalContext(ctrl)

	id := OperationId{3}
	txid := common.TransactionID{4}
	global.EXPECT().AwaitTxAccepted(gomock.Any(), id, txid).Return(ErrInternal)

	state, err := advanceInput(context.Background(), db, global, common.Amount(500), txid, id)
	require.NoError(t, err)
	require.Equal(t, StateRefund, state.Kind)

	funds, err := getFunds(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, common.Amount(500), funds)
}

func TestAdvanceOutputAcceptedCreditsBalance(t *testing.T) {
	db := newTestDB(t)
	ctrl := gomock.NewController(t)
	global := NewMockGlobalContext(ctrl)

	id := OperationId{5}
	txid := common.TransactionID{6}
	global.EXPECT().
		AwaitOutputOutcome(gomock.Any(), common.OutPoint{TxID: txid, OutIdx: 0}, DefaultOutcomeTimeout).
		Return(common.OutputOutcome{}, nil)

	state, err := advanceOutput(context.Background(), db, global, common.Amount(250), txid, id, DefaultOutcomeTimeout)
	require.NoError(t, err)
	require.Equal(t, StateOutputDone, state.Kind)
	require.Equal(t, common.Amount(250), state.Amount)

	funds, err := getFunds(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, common.Amount(250), funds)
}

func TestAdvanceOutputRejectedMovesNoFunds(t *testing.T) {
	db := newTestDB(t)
	ctrl := gomock.NewController(t)
	global := NewMockGlobalContext(ctrl)

	id := OperationId{7}
	txid := common.TransactionID{8}
	global.EXPECT().
		AwaitOutputOutcome(gomock.Any(), common.OutPoint{TxID: txid, OutIdx: 0}, DefaultOutcomeTimeout).
		Return(common.OutputOutcome{}, ErrInternal)

	state, err := advanceOutput(context.Background(), db, global, common.Amount(250), txid, id, DefaultOutcomeTimeout)
	require.NoError(t, err)
	require.Equal(t, StateRefund, state.Kind)

	funds, err := getFunds(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, common.ZeroAmount, funds)
}

func TestAddFundsAccumulates(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, addFunds(context.Background(), db, 10))
	require.NoError(t, addFunds(context.Background(), db, 32))
	funds, err := getFunds(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, common.Amount(42), funds)
}

func TestTerminalStates(t *testing.T) {
	require.True(t, State{Kind: StateInputDone}.Terminal())
	require.True(t, State{Kind: StateOutputDone}.Terminal())
	require.True(t, State{Kind: StateRefund}.Terminal())
	require.False(t, State{Kind: StateInput}.Terminal())
	require.False(t, State{Kind: StateOutput}.Terminal())
}
