package client

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/fedimint-nostimint/nostimint/internal/common"
)

// Hand-written in the shape mockgen would generate for FederationAPI and
// GlobalContext; both interfaces are small enough not to warrant a
// generated-code dependency for the test suite alone.

type MockFederationAPI struct {
	ctrl     *gomock.Controller
	recorder *MockFederationAPIMockRecorder
}

type MockFederationAPIMockRecorder struct{ mock *MockFederationAPI }

func NewMockFederationAPI(ctrl *gomock.Controller) *MockFederationAPI {
	m := &MockFederationAPI{ctrl: ctrl}
	m.recorder = &MockFederationAPIMockRecorder{m}
	return m
}

func (m *MockFederationAPI) EXPECT() *MockFederationAPIMockRecorder { return m.recorder }

func (m *MockFederationAPI) SignNote(ctx context.Context, event common.Event) (common.EventID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SignNote", ctx, event)
	ret0, _ := ret[0].(common.EventID)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockFederationAPIMockRecorder) SignNote(ctx, event any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SignNote", reflect.TypeOf((*MockFederationAPI)(nil).SignNote), ctx, event)
}

func (m *MockFederationAPI) WaitSignedNote(ctx context.Context, event common.Event) (common.Event, common.Signature, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WaitSignedNote", ctx, event)
	ret0, _ := ret[0].(common.Event)
	ret1, _ := ret[1].(common.Signature)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

func (mr *MockFederationAPIMockRecorder) WaitSignedNote(ctx, event any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WaitSignedNote", reflect.TypeOf((*MockFederationAPI)(nil).WaitSignedNote), ctx, event)
}

type MockGlobalContext struct {
	ctrl     *gomock.Controller
	recorder *MockGlobalContextMockRecorder
}

type MockGlobalContextMockRecorder struct{ mock *MockGlobalContext }

func NewMockGlobalContext(ctrl *gomock.Controller) *MockGlobalContext {
	m := &MockGlobalContext{ctrl: ctrl}
	m.recorder = &MockGlobalContextMockRecorder{m}
	return m
}

func (m *MockGlobalContext) EXPECT() *MockGlobalContextMockRecorder { return m.recorder }

func (m *MockGlobalContext) AwaitTxAccepted(ctx context.Context, op OperationId, txid common.TransactionID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AwaitTxAccepted", ctx, op, txid)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockGlobalContextMockRecorder) AwaitTxAccepted(ctx, op, txid any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AwaitTxAccepted", reflect.TypeOf((*MockGlobalContext)(nil).AwaitTxAccepted), ctx, op, txid)
}

func (m *MockGlobalContext) AwaitOutputOutcome(ctx context.Context, point common.OutPoint, timeout time.Duration) (common.OutputOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AwaitOutputOutcome", ctx, point, timeout)
	ret0, _ := ret[0].(common.OutputOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockGlobalContextMockRecorder) AwaitOutputOutcome(ctx, point, timeout any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AwaitOutputOutcome", reflect.TypeOf((*MockGlobalContext)(nil).AwaitOutputOutcome), ctx, point, timeout)
}
