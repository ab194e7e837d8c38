// Package mcp provides an MCP (Model Context Protocol) server adapter for filingvec.
// It lets AI assistants search indexed filings and add text to the index.
package mcp

import "errors"

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("mcp: index service is required")
