package mocks

import (
	"context"

	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/UnknownOlympus/kataster/internal/render"
	"github.com/stretchr/testify/mock"
)

// Surface is a testify mock of render.Surface.
type Surface struct {
	mock.Mock
}

// DrawPolygon provides a mock function with given fields: ctx, polygon, style.
func (_m *Surface) DrawPolygon(ctx context.Context, polygon models.Polygon, style render.Style) error {
	ret := _m.Called(ctx, polygon, style)
	return ret.Error(0)
}

// FitToCoordinates provides a mock function with given fields: ctx, points, padding.
func (_m *Surface) FitToCoordinates(ctx context.Context, points models.Polygon, padding models.EdgePadding) error {
	ret := _m.Called(ctx, points, padding)
	return ret.Error(0)
}

// NewSurface creates a new instance of Surface. It also registers a cleanup
// function to assert the mocks expectations.
func NewSurface(t interface {
	mock.TestingT
	Cleanup(func())
}) *Surface {
	m := &Surface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
