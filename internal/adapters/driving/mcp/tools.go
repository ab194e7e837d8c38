package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"natural language question about the filings"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 10)"`
	Company    string `json:"company,omitempty" jsonschema:"only search chunks from this company"`
	Period     string `json:"period,omitempty" jsonschema:"only search chunks from this reporting period"`
	SourceFile string `json:"source_file,omitempty" jsonschema:"only search chunks from this file name"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Query       string                `json:"query"`
	Results     []domain.SearchResult `json:"results"`
	TotalChunks int                   `json:"total_chunks"`
	Companies   []string              `json:"companies"`
}

// StatsInput is the (empty) input schema for the stats and companies tools.
type StatsInput struct{}

// CompaniesOutput is the output schema for the companies tool.
type CompaniesOutput struct {
	Companies []string `json:"companies"`
}

// IngestTextInput is the input schema for the ingest_text tool.
type IngestTextInput struct {
	Name    string `json:"name,omitempty" jsonschema:"document name used to key chunk ids; re-using a name skips known chunks"`
	Text    string `json:"text" jsonschema:"the text to index"`
	Company string `json:"company,omitempty" jsonschema:"company the text belongs to"`
	Period  string `json:"period,omitempty" jsonschema:"reporting period, e.g. Q3 2024"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Semantic search over indexed filing chunks, ranked by cosine similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stats",
		Description: "Number of stored chunks, companies and embedding width",
	}, s.handleStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "companies",
		Description: "List the companies present in the index",
	}, s.handleCompanies)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_text",
			Description: "Chunk, embed and store a piece of text",
		}, s.handleIngestText)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	filter, err := domain.SingleFilter(input.Company, input.Period, input.SourceFile)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	results, err := s.ports.Index.Search(ctx, input.Query, domain.SearchOptions{
		TopK:   input.TopK,
		Filter: filter,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	stats, err := s.ports.Index.Stats(ctx)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		Query:       input.Query,
		Results:     results,
		TotalChunks: stats.TotalChunks,
		Companies:   stats.Companies,
	}, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, domain.Stats, error) {
	stats, err := s.ports.Index.Stats(ctx)
	if err != nil {
		return nil, domain.Stats{}, err
	}
	return nil, stats, nil
}

// handleCompanies handles the companies tool invocation.
func (s *Server) handleCompanies(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, CompaniesOutput, error) {
	companies, err := s.ports.Index.Companies(ctx)
	if err != nil {
		return nil, CompaniesOutput{}, err
	}
	return nil, CompaniesOutput{Companies: companies}, nil
}

// handleIngestText handles the ingest_text tool invocation.
func (s *Server) handleIngestText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestTextInput,
) (*mcp.CallToolResult, domain.IngestReport, error) {
	report, err := s.ports.Ingest.IngestText(ctx, input.Name, input.Text, driving.IngestMetadata{
		Company: input.Company,
		Period:  input.Period,
	})
	if err != nil {
		return nil, domain.IngestReport{}, err
	}
	return nil, *report, nil
}
