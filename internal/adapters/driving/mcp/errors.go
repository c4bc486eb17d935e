// Package mcp provides an MCP (Model Context Protocol) server adapter for Askdoc.
// It enables AI assistants like Claude to ask questions over the locally
// ingested document collections.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
