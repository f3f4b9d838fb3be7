// Hand-written in the shape MockGen produces; the go:generate directive in
// corevm/types.go regenerates it.
// Source: github.com/madhatguy/hpagetable/corevm (interfaces: PhysicalMemory)

package mocks

import (
	context "context"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockPhysicalMemory is a mock of the corevm.PhysicalMemory interface.
type MockPhysicalMemory struct {
	ctrl     *gomock.Controller
	recorder *MockPhysicalMemoryMockRecorder
}

// MockPhysicalMemoryMockRecorder is the mock recorder for MockPhysicalMemory.
type MockPhysicalMemoryMockRecorder struct {
	mock *MockPhysicalMemory
}

// NewMockPhysicalMemory creates a new mock instance.
func NewMockPhysicalMemory(ctrl *gomock.Controller) *MockPhysicalMemory {
	mock := &MockPhysicalMemory{ctrl: ctrl}
	mock.recorder = &MockPhysicalMemoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPhysicalMemory) EXPECT() *MockPhysicalMemoryMockRecorder {
	return m.recorder
}

// Read mocks base method.
func (m *MockPhysicalMemory) Read(ctx context.Context, wordAddr uint64) (uint64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Read", ctx, wordAddr)
	ret0, _ := ret[0].(uint64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Read indicates an expected call of Read.
func (mr *MockPhysicalMemoryMockRecorder) Read(ctx, wordAddr interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Read", reflect.TypeOf((*MockPhysicalMemory)(nil).Read), ctx, wordAddr)
}

// Write mocks base method.
func (m *MockPhysicalMemory) Write(ctx context.Context, wordAddr, value uint64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Write", ctx, wordAddr, value)
	ret0, _ := ret[0].(error)
	return ret0
}

// Write indicates an expected call of Write.
func (mr *MockPhysicalMemoryMockRecorder) Write(ctx, wordAddr, value interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Write", reflect.TypeOf((*MockPhysicalMemory)(nil).Write), ctx, wordAddr, value)
}

// Evict mocks base method.
func (m *MockPhysicalMemory) Evict(ctx context.Context, frameIndex uint32, virtualPage uint64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Evict", ctx, frameIndex, virtualPage)
	ret0, _ := ret[0].(error)
	return ret0
}

// Evict indicates an expected call of Evict.
func (mr *MockPhysicalMemoryMockRecorder) Evict(ctx, frameIndex, virtualPage interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Evict", reflect.TypeOf((*MockPhysicalMemory)(nil).Evict), ctx, frameIndex, virtualPage)
}

// Restore mocks base method.
func (m *MockPhysicalMemory) Restore(ctx context.Context, frameIndex uint32, virtualPage uint64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Restore", ctx, frameIndex, virtualPage)
	ret0, _ := ret[0].(error)
	return ret0
}

// Restore indicates an expected call of Restore.
func (mr *MockPhysicalMemoryMockRecorder) Restore(ctx, frameIndex, virtualPage interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Restore", reflect.TypeOf((*MockPhysicalMemory)(nil).Restore), ctx, frameIndex, virtualPage)
}
