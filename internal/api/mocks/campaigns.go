package mocks

import (
	"context"

	"github.com/opensensemap/osem-map/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockCampaignQuerier is a mock of the API's campaign data access.
type MockCampaignQuerier struct {
	mock.Mock
}

type MockCampaignQuerier_Expecter struct {
	mock *mock.Mock
}

func (_m *MockCampaignQuerier) EXPECT() *MockCampaignQuerier_Expecter {
	return &MockCampaignQuerier_Expecter{mock: &_m.Mock}
}

// ListCampaigns provides a mock function with given fields: ctx
func (_m *MockCampaignQuerier) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ListCampaigns")
	}

	if rf, ok := ret.Get(0).(func(context.Context) ([]model.Campaign, error)); ok {
		return rf(ctx)
	}

	var r0 []model.Campaign
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Campaign)
	}
	return r0, ret.Error(1)
}

type MockCampaignQuerier_ListCampaigns_Call struct {
	*mock.Call
}

func (_e *MockCampaignQuerier_Expecter) ListCampaigns(ctx interface{}) *MockCampaignQuerier_ListCampaigns_Call {
	return &MockCampaignQuerier_ListCampaigns_Call{Call: _e.mock.On("ListCampaigns", ctx)}
}

func (_c *MockCampaignQuerier_ListCampaigns_Call) Return(campaigns []model.Campaign, err error) *MockCampaignQuerier_ListCampaigns_Call {
	_c.Call.Return(campaigns, err)
	return _c
}

// NewMockCampaignQuerier creates a new instance of MockCampaignQuerier. It also registers a testing
// interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockCampaignQuerier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCampaignQuerier {
	m := &MockCampaignQuerier{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
