package mocks

import (
	context "context"

	message "github.com/zhouzirui/hello-fullstack/backend/internal/model/message"
	mock "github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of message.Store, kept in the layout mockery produces.
type MockStore struct {
	mock.Mock
}

// Close provides a mock function with no fields
func (_m *MockStore) Close() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Close")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetCurrent provides a mock function with given fields: ctx
func (_m *MockStore) GetCurrent(ctx context.Context) (message.Message, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for GetCurrent")
	}

	var r0 message.Message
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (message.Message, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) message.Message); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(message.Message)
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Initialize provides a mock function with given fields: ctx
func (_m *MockStore) Initialize(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Initialize")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// SetCurrent provides a mock function with given fields: ctx, content, expectedVersion
func (_m *MockStore) SetCurrent(ctx context.Context, content string, expectedVersion string) (message.Message, error) {
	ret := _m.Called(ctx, content, expectedVersion)

	if len(ret) == 0 {
		panic("no return value specified for SetCurrent")
	}

	var r0 message.Message
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (message.Message, error)); ok {
		return rf(ctx, content, expectedVersion)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) message.Message); ok {
		r0 = rf(ctx, content, expectedVersion)
	} else {
		r0 = ret.Get(0).(message.Message)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, content, expectedVersion)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockStore creates a new instance of MockStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	mock := &MockStore{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
