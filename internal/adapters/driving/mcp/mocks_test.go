package mcp

import (
	"context"

	"github.com/custodia-labs/paygrade/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	result domain.QueryResult
	err    error
	got    string
}

func (m *mockQueryService) Answer(_ context.Context, query string) (domain.QueryResult, error) {
	m.got = query
	return m.result, m.err
}
