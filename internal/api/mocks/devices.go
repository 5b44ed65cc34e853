package mocks

import (
	"context"

	"github.com/opensensemap/osem-map/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockDeviceQuerier is a mock of the API's device data access.
type MockDeviceQuerier struct {
	mock.Mock
}

type MockDeviceQuerier_Expecter struct {
	mock *mock.Mock
}

func (_m *MockDeviceQuerier) EXPECT() *MockDeviceQuerier_Expecter {
	return &MockDeviceQuerier_Expecter{mock: &_m.Mock}
}

// ListDevices provides a mock function with given fields: ctx
func (_m *MockDeviceQuerier) ListDevices(ctx context.Context) ([]model.Device, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ListDevices")
	}

	if rf, ok := ret.Get(0).(func(context.Context) ([]model.Device, error)); ok {
		return rf(ctx)
	}

	var r0 []model.Device
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Device)
	}
	return r0, ret.Error(1)
}

type MockDeviceQuerier_ListDevices_Call struct {
	*mock.Call
}

func (_e *MockDeviceQuerier_Expecter) ListDevices(ctx interface{}) *MockDeviceQuerier_ListDevices_Call {
	return &MockDeviceQuerier_ListDevices_Call{Call: _e.mock.On("ListDevices", ctx)}
}

func (_c *MockDeviceQuerier_ListDevices_Call) Return(devices []model.Device, err error) *MockDeviceQuerier_ListDevices_Call {
	_c.Call.Return(devices, err)
	return _c
}

func (_c *MockDeviceQuerier_ListDevices_Call) RunAndReturn(run func(context.Context) ([]model.Device, error)) *MockDeviceQuerier_ListDevices_Call {
	_c.Call.Return(run)
	return _c
}

// GetDevice provides a mock function with given fields: ctx, id
func (_m *MockDeviceQuerier) GetDevice(ctx context.Context, id string) (*model.Device, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetDevice")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.Device, error)); ok {
		return rf(ctx, id)
	}

	var r0 *model.Device
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Device)
	}
	return r0, ret.Error(1)
}

type MockDeviceQuerier_GetDevice_Call struct {
	*mock.Call
}

func (_e *MockDeviceQuerier_Expecter) GetDevice(ctx interface{}, id interface{}) *MockDeviceQuerier_GetDevice_Call {
	return &MockDeviceQuerier_GetDevice_Call{Call: _e.mock.On("GetDevice", ctx, id)}
}

func (_c *MockDeviceQuerier_GetDevice_Call) Return(device *model.Device, err error) *MockDeviceQuerier_GetDevice_Call {
	_c.Call.Return(device, err)
	return _c
}

func (_c *MockDeviceQuerier_GetDevice_Call) RunAndReturn(run func(context.Context, string) (*model.Device, error)) *MockDeviceQuerier_GetDevice_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockDeviceQuerier creates a new instance of MockDeviceQuerier. It also registers a testing
// interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockDeviceQuerier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDeviceQuerier {
	m := &MockDeviceQuerier{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
