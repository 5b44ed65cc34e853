package mocks

import (
	"context"
	"time"

	"github.com/opensensemap/osem-map/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockMeasurementQuerier is a mock of the API's measurement data access.
type MockMeasurementQuerier struct {
	mock.Mock
}

type MockMeasurementQuerier_Expecter struct {
	mock *mock.Mock
}

func (_m *MockMeasurementQuerier) EXPECT() *MockMeasurementQuerier_Expecter {
	return &MockMeasurementQuerier_Expecter{mock: &_m.Mock}
}

// ListMeasurements provides a mock function with given fields: ctx, deviceID, from, to
func (_m *MockMeasurementQuerier) ListMeasurements(ctx context.Context, deviceID string, from time.Time, to time.Time) ([]model.Measurement, error) {
	ret := _m.Called(ctx, deviceID, from, to)

	if len(ret) == 0 {
		panic("no return value specified for ListMeasurements")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, time.Time, time.Time) ([]model.Measurement, error)); ok {
		return rf(ctx, deviceID, from, to)
	}

	var r0 []model.Measurement
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Measurement)
	}
	return r0, ret.Error(1)
}

type MockMeasurementQuerier_ListMeasurements_Call struct {
	*mock.Call
}

func (_e *MockMeasurementQuerier_Expecter) ListMeasurements(ctx interface{}, deviceID interface{}, from interface{}, to interface{}) *MockMeasurementQuerier_ListMeasurements_Call {
	return &MockMeasurementQuerier_ListMeasurements_Call{Call: _e.mock.On("ListMeasurements", ctx, deviceID, from, to)}
}

func (_c *MockMeasurementQuerier_ListMeasurements_Call) Return(measurements []model.Measurement, err error) *MockMeasurementQuerier_ListMeasurements_Call {
	_c.Call.Return(measurements, err)
	return _c
}

// NewMockMeasurementQuerier creates a new instance of MockMeasurementQuerier. It also registers a testing
// interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockMeasurementQuerier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMeasurementQuerier {
	m := &MockMeasurementQuerier{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
