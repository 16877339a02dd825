package data360

import (
	"context"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/schema"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of DataSource for testing.
type MockDataSource struct {
	mock.Mock
}

var _ contract.DataSource = &MockDataSource{} // Compile-time check

var _ contract.DataSource = &Client{} // Compile-time check

// FetchRecords implements the DataSource interface.
func (m *MockDataSource) FetchRecords(ctx context.Context, req schema.FetchRequest) ([]schema.RawRecord, error) {
	args := m.Called(ctx, req)
	records, _ := args.Get(0).([]schema.RawRecord)
	return records, args.Error(1)
}
