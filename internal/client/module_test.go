package client

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/crypto"
)

func newTestModule(t *testing.T, api FederationAPI, global GlobalContext) *Module {
	t.Helper()
	db := newTestDB(t)
	key, err := crypto.GenerateAccountKeyPair()
	require.NoError(t, err)
	cfg := common.ClientConfig{TxFee: 0}
	return New(cfg, key, db, api, DefaultEventBuilder{}, global, nil)
}

func TestFedSignNoteHappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockFederationAPI(ctrl)
	global := NewMockGlobalContext(ctrl)
	mod := newTestModule(t, api, global)

	wantSig := common.Signature{0xAB}
	api.EXPECT().SignNote(gomock.Any(), gomock.Any()).Return(common.EventID{}, nil)
	api.EXPECT().WaitSignedNote(gomock.Any(), gomock.Any()).Return(common.Event{}, wantSig, nil)

	sig, err := mod.FedSignNote(context.Background(), "gm")
	require.NoError(t, err)
	require.Equal(t, wantSig, sig)
}

func TestFedSignNotePropagatesSignError(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockFederationAPI(ctrl)
	global := NewMockGlobalContext(ctrl)
	mod := newTestModule(t, api, global)

	api.EXPECT().SignNote(gomock.Any(), gomock.Any()).Return(common.EventID{}, ErrInternal)

	_, err := mod.FedSignNote(context.Background(), "gm")
	require.Error(t, err)
}

func TestHandleCLICommandSignNote(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockFederationAPI(ctrl)
	global := NewMockGlobalContext(ctrl)
	mod := newTestModule(t, api, global)

	wantSig := common.Signature{0x01}
	api.EXPECT().SignNote(gomock.Any(), gomock.Any()).Return(common.EventID{}, nil)
	api.EXPECT().WaitSignedNote(gomock.Any(), gomock.Any()).Return(common.Event{}, wantSig, nil)

	sig, err := mod.HandleCLICommand(context.Background(), []string{"sign-note", "hello"})
	require.NoError(t, err)
	require.Equal(t, wantSig, sig)
}

func TestHandleCLICommandRejectsWrongArgCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	mod := newTestModule(t, NewMockFederationAPI(ctrl), NewMockGlobalContext(ctrl))

	_, err := mod.HandleCLICommand(context.Background(), []string{"sign-note"})
	require.Error(t, err)

	_, err = mod.HandleCLICommand(context.Background(), []string{"sign-note", "a", "b"})
	require.Error(t, err)
}

func TestHandleCLICommandRejectsUnknownCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	mod := newTestModule(t, NewMockFederationAPI(ctrl), NewMockGlobalContext(ctrl))

	_, err := mod.HandleCLICommand(context.Background(), []string{"print-money"})
	require.Error(t, err)
}

func TestHandleCLICommandRejectsEmptyArgs(t *testing.T) {
	ctrl := gomock.NewController(t)
	mod := newTestModule(t, NewMockFederationAPI(ctrl), NewMockGlobalContext(ctrl))

	_, err := mod.HandleCLICommand(context.Background(), nil)
	require.Error(t, err)
}

func TestOperationStateUnknownErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	mod := newTestModule(t, NewMockFederationAPI(ctrl), NewMockGlobalContext(ctrl))

	_, err := mod.OperationState(OperationId{0x99})
	require.ErrorIs(t, err, ErrUnknownOperation)
}

func TestTrackInputRecordsTerminalState(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockFederationAPI(ctrl)
	global := NewMockGlobalContext(ctrl)
	mod := newTestModule(t, api, global)

	id := OperationId{42}
	txid := common.TransactionID{1}
	global.EXPECT().AwaitTxAccepted(gomock.Any(), id, txid).Return(nil)

	state, err := mod.TrackInput(context.Background(), common.Amount(10), txid, id)
	require.NoError(t, err)
	require.Equal(t, StateInputDone, state.Kind)

	got, err := mod.OperationState(id)
	require.NoError(t, err)
	require.Equal(t, StateInputDone, got.Kind)
}
