package mocks

import (
	"context"

	"github.com/UnknownOlympus/kataster/internal/models"
	"github.com/stretchr/testify/mock"
)

// Journal is a testify mock of repository.Interface.
type Journal struct {
	mock.Mock
}

// RecordLookup provides a mock function with given fields: ctx, record.
func (_m *Journal) RecordLookup(ctx context.Context, record models.LookupRecord) error {
	ret := _m.Called(ctx, record)
	return ret.Error(0)
}

// RecentLookups provides a mock function with given fields: ctx, limit.
func (_m *Journal) RecentLookups(ctx context.Context, limit int) ([]models.LookupRecord, error) {
	ret := _m.Called(ctx, limit)

	var records []models.LookupRecord
	if ret.Get(0) != nil {
		records = ret.Get(0).([]models.LookupRecord)
	}

	return records, ret.Error(1)
}

// NewJournal creates a new instance of Journal. It also registers a cleanup
// function to assert the mocks expectations.
func NewJournal(t interface {
	mock.TestingT
	Cleanup(func())
}) *Journal {
	m := &Journal{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
