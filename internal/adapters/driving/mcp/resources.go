package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Askdoc resources.
	uriScheme = "askdoc://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing namespaces.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "namespaces",
		Name:        "namespaces",
		Description: "List of all namespaces holding documents",
		MIMEType:    "application/json",
	}, s.handleNamespacesResource)

	// Template for a namespace's document catalog.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "namespaces/{namespace}/documents",
		Name:        "namespace-documents",
		Description: "Document catalog of a specific namespace",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for one catalog entry.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "namespaces/{namespace}/documents/{documentId}",
		Name:        "document-entry",
		Description: "Catalog entry of a specific document",
		MIMEType:    "application/json",
	}, s.handleDocumentEntryResource)

	// Template for a namespace's rolling summary.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "namespaces/{namespace}/summary",
		Name:        "namespace-summary",
		Description: "Rolling summary of a specific namespace",
		MIMEType:    "text/plain",
	}, s.handleSummaryResource)
}

// handleNamespacesResource returns a list of all namespaces.
func (s *Server) handleNamespacesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	names, err := s.ports.Catalog.ListNamespaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing namespaces: %w", err)
	}
	if names == nil {
		names = []string{}
	}

	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling namespaces: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentsResource returns the document catalog of a namespace.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract namespace from URI: askdoc://namespaces/{namespace}/documents
	namespace := extractNamespace(req.Params.URI, "/documents")
	if namespace == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docs, err := s.ports.Catalog.ListDocuments(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]DocumentOutput, len(docs))
	for i := range docs {
		infos[i] = DocumentOutput{
			ID:         docs[i].ID,
			Name:       docs[i].Name,
			Keywords:   docs[i].Keywords,
			Summary:    docs[i].Summary,
			ChunkCount: docs[i].ChunkCount,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentEntryResource returns one catalog entry.
func (s *Server) handleDocumentEntryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract ids from URI: askdoc://namespaces/{namespace}/documents/{documentId}
	namespace, docID := extractDocumentRef(req.Params.URI)
	if namespace == "" || docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Catalog.GetDocument(ctx, namespace, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	entry := struct {
		ID             string   `json:"id"`
		Namespace      string   `json:"namespace"`
		Name           string   `json:"name"`
		Keywords       []string `json:"keywords,omitempty"`
		Summary        string   `json:"summary,omitempty"`
		ChunkCount     int      `json:"chunk_count"`
		AdditionalInfo string   `json:"additional_info,omitempty"`
	}{
		ID:             doc.ID,
		Namespace:      doc.Namespace,
		Name:           doc.Name,
		Keywords:       doc.Keywords,
		Summary:        doc.Summary,
		ChunkCount:     doc.ChunkCount,
		AdditionalInfo: doc.AdditionalInfo,
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSummaryResource returns a namespace's rolling summary.
func (s *Server) handleSummaryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract namespace from URI: askdoc://namespaces/{namespace}/summary
	namespace := extractNamespace(req.Params.URI, "/summary")
	if namespace == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	overview, err := s.ports.Catalog.Overview(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("getting namespace overview: %w", err)
	}

	text := overview.Summary
	if text == "" {
		text = fmt.Sprintf("Namespace %s holds %d document(s); no summary yet.",
			overview.Namespace, len(overview.Documents))
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		}},
	}, nil
}

// extractNamespace extracts the namespace from a URI like
// askdoc://namespaces/{namespace}<suffix>.
func extractNamespace(uri, suffix string) string {
	const prefix = uriScheme + "namespaces/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	rest := strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(rest, suffix) {
		return ""
	}

	namespace := strings.TrimSuffix(rest, suffix)
	if namespace == "" || strings.Contains(namespace, "/") {
		return ""
	}
	return namespace
}

// extractDocumentRef extracts the namespace and document id from a URI like
// askdoc://namespaces/{namespace}/documents/{documentId}.
func extractDocumentRef(uri string) (string, string) {
	const prefix = uriScheme + "namespaces/"

	if !strings.HasPrefix(uri, prefix) {
		return "", ""
	}

	parts := strings.Split(strings.TrimPrefix(uri, prefix), "/")
	if len(parts) != 3 || parts[1] != "documents" || parts[0] == "" || parts[2] == "" {
		return "", ""
	}
	return parts[0], parts[2]
}
