package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
)

func seedFilings(t *testing.T, s *Services) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Ingest.IngestText(ctx, "aapl-10k", "Services revenue reached a record driven by the App Store and iCloud.",
		driving.IngestMetadata{Company: "Apple Inc", Period: "FY2024"})
	require.NoError(t, err)

	_, err = s.Ingest.IngestText(ctx, "tsla-10k", "Automotive deliveries declined while energy storage deployments doubled.",
		driving.IngestMetadata{Company: "Tesla", Period: "FY2024"})
	require.NoError(t, err)
}

func TestSearchCmd_Table(t *testing.T) {
	s := setupTestServices(t)
	seedFilings(t, s)

	out, err := execute(t, "", "search", "services revenue App Store")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] Apple Inc FY2024")
	assert.Contains(t, out, "Source: aapl-10k, chunk 0")
	assert.Contains(t, out, "Services revenue reached a record")
}

func TestSearchCmd_JSON(t *testing.T) {
	s := setupTestServices(t)
	seedFilings(t, s)

	out, err := execute(t, "", "search", "--json", "-n", "1", "energy storage deployments")
	require.NoError(t, err)

	var envelope searchEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))
	assert.Equal(t, "energy storage deployments", envelope.Query)
	require.Len(t, envelope.Results, 1)
	assert.Equal(t, "Tesla", envelope.Results[0].Company)
	assert.Equal(t, 2, envelope.TotalChunks)
	assert.Equal(t, []string{"Apple Inc", "Tesla"}, envelope.Companies)
}

func TestSearchCmd_JSONEmptyStore(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "search", "--json", "revenue")
	require.NoError(t, err)

	assert.Contains(t, out, `"results": []`)
}

func TestSearchCmd_CompanyFilter(t *testing.T) {
	s := setupTestServices(t)
	seedFilings(t, s)

	out, err := execute(t, "", "search", "--company", "Tesla", "services revenue App Store")

	require.NoError(t, err)
	assert.Contains(t, out, "Tesla")
	assert.NotContains(t, out, "Apple Inc")
}

func TestSearchCmd_CompanyFilterIgnoresCase(t *testing.T) {
	s := setupTestServices(t)
	seedFilings(t, s)

	out, err := execute(t, "", "search", "--company", "apple inc", "energy storage deployments")

	require.NoError(t, err)
	assert.Contains(t, out, "Apple Inc")
	assert.NotContains(t, out, "Tesla")
}

func TestSearchCmd_NoResults(t *testing.T) {
	s := setupTestServices(t)
	seedFilings(t, s)

	out, err := execute(t, "", "search", "--company", "Microsoft", "revenue")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_RejectsTwoFilters(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "search", "--company", "Tesla", "--period", "FY2024", "revenue")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "search")

	assert.Error(t, err)
}

func TestStatsCmd(t *testing.T) {
	s := setupTestServices(t)
	seedFilings(t, s)

	out, err := execute(t, "", "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "Total chunks: 2")
	assert.Contains(t, out, "Companies:    2")
	assert.Contains(t, out, "  - Apple Inc")
	assert.Contains(t, out, "  - Tesla")
}

func TestStatsCmd_JSON(t *testing.T) {
	s := setupTestServices(t)
	seedFilings(t, s)

	out, err := execute(t, "", "stats", "--json")
	require.NoError(t, err)

	var stats domain.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats.TotalChunks)
	assert.Equal(t, 2, stats.CompanyCount)
	assert.Equal(t, domain.DefaultEmbeddingDimensions, stats.Dimensions)
}

func TestCompaniesCmd(t *testing.T) {
	s := setupTestServices(t)

	out, err := execute(t, "", "companies")
	require.NoError(t, err)
	assert.Contains(t, out, "No companies indexed.")

	seedFilings(t, s)
	out, err = execute(t, "", "companies")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc\nTesla\n", out)
}

func TestClearCmd_WithYes(t *testing.T) {
	s := setupTestServices(t)
	seedFilings(t, s)

	out, err := execute(t, "", "clear", "--yes")

	require.NoError(t, err)
	assert.Contains(t, out, "Vector store cleared.")
	stats, err := s.Index.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalChunks)
}

func TestClearCmd_RefusesWithoutTerminal(t *testing.T) {
	if term.IsTerminal(0) {
		t.Skip("stdin is a terminal")
	}
	s := setupTestServices(t)
	seedFilings(t, s)

	_, err := execute(t, "", "clear")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	stats, err := s.Index.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalChunks)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", snippet("a\n  b\tc", 10))
	assert.Equal(t, "abcde...", snippet("abcdefgh", 5))
	assert.Equal(t, "", snippet("   ", 5))
}
