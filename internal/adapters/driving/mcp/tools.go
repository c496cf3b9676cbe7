package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/paygrade/internal/core/domain"
)

// QueryInput is the input schema for the query_compensation tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"a compensation question, e.g. Amazon SDE2 total compensation in Seattle"`
}

// QueryOutput is the output schema for the query_compensation tool.
// It mirrors the HTTP /query response.
type QueryOutput struct {
	Response         string                      `json:"response"`
	CompensationData []domain.CompensationRecord `json:"compensation_data"`
	SourceLinks      []string                    `json:"source_links"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_compensation",
		Description: "Answer a compensation question from LeetCode discussion posts, with structured records and source links",
	}, s.handleQuery)
}

// handleQuery handles the query_compensation tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, QueryOutput{}, errors.New("query is required")
	}

	result, err := s.ports.Query.Answer(ctx, input.Query)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	return nil, toOutput(result), nil
}

func toOutput(r domain.QueryResult) QueryOutput {
	out := QueryOutput{
		Response:         r.Summary,
		CompensationData: r.Records,
		SourceLinks:      r.SourceLinks,
	}
	if out.CompensationData == nil {
		out.CompensationData = []domain.CompensationRecord{}
	}
	if out.SourceLinks == nil {
		out.SourceLinks = []string{}
	}
	return out
}
