package mocks

import (
	"context"

	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/stretchr/testify/mock"
)

// Provider is a testify mock of uldk.Provider.
type Provider struct {
	mock.Mock
}

// Lookup provides a mock function with given fields: ctx, identifier.
func (_m *Provider) Lookup(ctx context.Context, identifier string) (models.Polygon, error) {
	ret := _m.Called(ctx, identifier)

	var polygon models.Polygon
	if rf, ok := ret.Get(0).(func(context.Context, string) models.Polygon); ok {
		polygon = rf(ctx, identifier)
	} else if ret.Get(0) != nil {
		polygon = ret.Get(0).(models.Polygon)
	}

	return polygon, ret.Error(1)
}

// NewProvider creates a new instance of Provider. It also registers a cleanup
// function to assert the mocks expectations.
func NewProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *Provider {
	m := &Provider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
