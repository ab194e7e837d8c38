package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/filingvec/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleStatsResource(t *testing.T) {
	ports := newTestPorts(t)
	seed(t, ports)
	server, err := NewServer(ports)
	require.NoError(t, err)

	res, err := server.handleStatsResource(context.Background(), readRequest(statsURI))
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, statsURI, res.Contents[0].URI)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)

	var stats domain.Stats
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &stats))
	assert.Equal(t, 2, stats.TotalChunks)
	assert.Equal(t, []string{"Apple Inc", "Microsoft"}, stats.Companies)
}

func TestServer_handleCompaniesResource(t *testing.T) {
	server, err := NewServer(newTestPorts(t))
	require.NoError(t, err)

	res, err := server.handleCompaniesResource(context.Background(), readRequest(companiesURI))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, res.Contents[0].Text)
}

func TestServer_resourceErrors(t *testing.T) {
	server, err := NewServer(&Ports{Index: &failingIndex{err: errors.New("corrupt")}})
	require.NoError(t, err)

	_, err = server.handleStatsResource(context.Background(), readRequest(statsURI))
	assert.ErrorContains(t, err, "corrupt")

	_, err = server.handleCompaniesResource(context.Background(), readRequest(companiesURI))
	assert.ErrorContains(t, err, "corrupt")
}
