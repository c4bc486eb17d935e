package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func TestExtractNamespace(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		suffix   string
		expected string
	}{
		{
			name:     "valid documents URI",
			uri:      "askdoc://namespaces/team-a/documents",
			suffix:   "/documents",
			expected: "team-a",
		},
		{
			name:     "valid summary URI",
			uri:      "askdoc://namespaces/default/summary",
			suffix:   "/summary",
			expected: "default",
		},
		{
			name:     "invalid prefix",
			uri:      "file://namespaces/team-a/documents",
			suffix:   "/documents",
			expected: "",
		},
		{
			name:     "missing documents suffix",
			uri:      "askdoc://namespaces/team-a",
			suffix:   "/documents",
			expected: "",
		},
		{
			name:     "namespace with embedded slash",
			uri:      "askdoc://namespaces/team-a/extra/documents",
			suffix:   "/documents",
			expected: "",
		},
		{
			name:     "empty namespace",
			uri:      "askdoc://namespaces//documents",
			suffix:   "/documents",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			suffix:   "/documents",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractNamespace(tt.uri, tt.suffix)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExtractDocumentRef(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		expectedNS  string
		expectedDoc string
	}{
		{
			name:        "valid document URI",
			uri:         "askdoc://namespaces/team-a/documents/doc-456",
			expectedNS:  "team-a",
			expectedDoc: "doc-456",
		},
		{
			name:        "invalid prefix",
			uri:         "file://namespaces/team-a/documents/doc-456",
			expectedNS:  "",
			expectedDoc: "",
		},
		{
			name:        "missing document id",
			uri:         "askdoc://namespaces/team-a/documents",
			expectedNS:  "",
			expectedDoc: "",
		},
		{
			name:        "wrong middle segment",
			uri:         "askdoc://namespaces/team-a/jobs/doc-456",
			expectedNS:  "",
			expectedDoc: "",
		},
		{
			name:        "empty URI",
			uri:         "",
			expectedNS:  "",
			expectedDoc: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			namespace, docID := extractDocumentRef(tt.uri)
			assert.Equal(t, tt.expectedNS, namespace)
			assert.Equal(t, tt.expectedDoc, docID)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleNamespacesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil catalog service returns empty list", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces")
		result, err := server.handleNamespacesResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns namespaces successfully", func(t *testing.T) {
		mockCatalog := &mockCatalogService{
			namespaces: []string{"default", "team-a"},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Catalog: mockCatalog}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces")
		result, err := server.handleNamespacesResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "default")
		assert.Contains(t, result.Contents[0].Text, "team-a")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		mockCatalog := &mockCatalogService{
			err: errors.New("database error"),
		}

		ports := &Ports{Answer: &mockAnswerService{}, Catalog: mockCatalog}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces")
		_, err = server.handleNamespacesResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing namespaces")
	})

	t.Run("handles nil namespace list", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}, Catalog: &mockCatalogService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces")
		result, err := server.handleNamespacesResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil catalog service returns not found", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces/default/documents")
		_, err = server.handleDocumentsResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}, Catalog: &mockCatalogService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://invalid/uri")
		_, err = server.handleDocumentsResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns documents successfully", func(t *testing.T) {
		mockCatalog := &mockCatalogService{
			documents: []domain.Document{
				{ID: "doc-1", Name: "Install Guide", ChunkCount: 4},
				{ID: "doc-2", Name: "Release Notes", ChunkCount: 2},
			},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Catalog: mockCatalog}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces/default/documents")
		result, err := server.handleDocumentsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "doc-1")
		assert.Contains(t, result.Contents[0].Text, "Install Guide")
		assert.Contains(t, result.Contents[0].Text, "doc-2")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		mockCatalog := &mockCatalogService{
			err: errors.New("storage error"),
		}

		ports := &Ports{Answer: &mockAnswerService{}, Catalog: mockCatalog}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces/default/documents")
		_, err = server.handleDocumentsResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})

	t.Run("handles empty document list", func(t *testing.T) {
		mockCatalog := &mockCatalogService{
			documents: []domain.Document{},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Catalog: mockCatalog}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces/default/documents")
		result, err := server.handleDocumentsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleDocumentEntryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil catalog service returns not found", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces/default/documents/doc-1")
		_, err = server.handleDocumentEntryResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}, Catalog: &mockCatalogService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces/default/documents")
		_, err = server.handleDocumentEntryResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns entry successfully", func(t *testing.T) {
		mockCatalog := &mockCatalogService{
			document: &domain.Document{
				ID:         "doc-1",
				Namespace:  "default",
				Name:       "Install Guide",
				Keywords:   []string{"setup", "installation"},
				Summary:    "How to install and configure the product.",
				ChunkCount: 4,
			},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Catalog: mockCatalog}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces/default/documents/doc-1")
		result, err := server.handleDocumentEntryResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"id": "doc-1"`)
		assert.Contains(t, result.Contents[0].Text, "Install Guide")
		assert.Contains(t, result.Contents[0].Text, "installation")
		assert.Contains(t, result.Contents[0].Text, `"chunk_count": 4`)
	})

	t.Run("returns error on get failure", func(t *testing.T) {
		mockCatalog := &mockCatalogService{
			err: errors.New("storage error"),
		}

		ports := &Ports{Answer: &mockAnswerService{}, Catalog: mockCatalog}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces/default/documents/doc-1")
		_, err = server.handleDocumentEntryResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting document")
	})
}

func TestServer_handleSummaryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns summary as plain text", func(t *testing.T) {
		mockCatalog := &mockCatalogService{
			overview: &domain.NamespaceOverview{
				Namespace: "default",
				Summary:   "Two documents about product setup.",
			},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Catalog: mockCatalog}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces/default/summary")
		result, err := server.handleSummaryResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t, "Two documents about product setup.", result.Contents[0].Text)
	})

	t.Run("falls back when no summary exists yet", func(t *testing.T) {
		mockCatalog := &mockCatalogService{
			overview: &domain.NamespaceOverview{
				Namespace: "default",
				Documents: []domain.Document{{ID: "doc-1"}, {ID: "doc-2"}},
			},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Catalog: mockCatalog}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces/default/summary")
		result, err := server.handleSummaryResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "Namespace default holds 2 document(s); no summary yet.", result.Contents[0].Text)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}, Catalog: &mockCatalogService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces/default/documents")
		_, err = server.handleSummaryResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns error on overview failure", func(t *testing.T) {
		mockCatalog := &mockCatalogService{
			err: errors.New("storage error"),
		}

		ports := &Ports{Answer: &mockAnswerService{}, Catalog: mockCatalog}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("askdoc://namespaces/default/summary")
		_, err = server.handleSummaryResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting namespace overview")
	})
}
