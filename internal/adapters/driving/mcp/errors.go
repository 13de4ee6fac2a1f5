// Package mcp provides an MCP (Model Context Protocol) server adapter for Lexica.
// It lets AI assistants search and manage the local legal document index.
package mcp

import "errors"

// ErrMissingRetrieverService is returned when the retriever service is not provided.
var ErrMissingRetrieverService = errors.New("mcp: retriever service is required")
