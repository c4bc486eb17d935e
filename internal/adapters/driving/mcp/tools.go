package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question     string `json:"question" jsonschema:"the question to answer from the ingested documents"`
	Namespace    string `json:"namespace,omitempty" jsonschema:"namespace to ask against (default: default)"`
	TopK         int    `json:"top_k,omitempty" jsonschema:"matches per document (0 = configured default)"`
	MaxDocuments int    `json:"max_documents,omitempty" jsonschema:"how many documents routing may select (0 = configured default)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer         string   `json:"answer"`
	Namespace      string   `json:"namespace"`
	SelectedIDs    []string `json:"selected_documents,omitempty"`
	OptimizedQuery string   `json:"optimized_query,omitempty"`
	Degraded       bool     `json:"degraded,omitempty"`
	Notes          []string `json:"notes,omitempty"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Question     string `json:"question" jsonschema:"the question to retrieve context for"`
	Namespace    string `json:"namespace,omitempty" jsonschema:"namespace to retrieve from (default: default)"`
	TopK         int    `json:"top_k,omitempty" jsonschema:"matches per document (0 = configured default)"`
	MaxDocuments int    `json:"max_documents,omitempty" jsonschema:"how many documents routing may select (0 = configured default)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Context        string   `json:"context"`
	Namespace      string   `json:"namespace"`
	SelectedIDs    []string `json:"selected_documents,omitempty"`
	OptimizedQuery string   `json:"optimized_query,omitempty"`
	Degraded       bool     `json:"degraded,omitempty"`
	Notes          []string `json:"notes,omitempty"`
}

// NamespaceOverviewInput is the input schema for the namespace_overview tool.
type NamespaceOverviewInput struct {
	Namespace string `json:"namespace,omitempty" jsonschema:"namespace to describe (default: default)"`
}

// NamespaceOverviewOutput is the output schema for the namespace_overview tool.
type NamespaceOverviewOutput struct {
	Namespace string           `json:"namespace"`
	Summary   string           `json:"summary,omitempty"`
	Documents []DocumentOutput `json:"documents"`
}

// DocumentOutput describes one catalog entry.
type DocumentOutput struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Keywords   []string `json:"keywords,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	ChunkCount int      `json:"chunk_count"`
}

// IngestTextInput is the input schema for the ingest_text tool.
type IngestTextInput struct {
	Content    string `json:"content" jsonschema:"the text content to ingest"`
	Name       string `json:"name,omitempty" jsonschema:"display name stored with the document"`
	Namespace  string `json:"namespace,omitempty" jsonschema:"namespace to ingest into (default: default)"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"document id; re-using an id replaces the previous upload"`
}

// IngestTextOutput is the output schema for the ingest_text tool.
type IngestTextOutput struct {
	JobID      string `json:"job_id"`
	DocumentID string `json:"document_id"`
	State      string `json:"state"`
}

// JobStatusInput is the input schema for the job_status tool.
type JobStatusInput struct {
	JobID string `json:"job_id" jsonschema:"the job id returned by ingest_text"`
}

// JobStatusOutput is the output schema for the job_status tool.
type JobStatusOutput struct {
	JobID      string `json:"job_id"`
	State      string `json:"state"`
	Progress   int    `json:"progress"`
	Step       string `json:"step,omitempty"`
	Namespace  string `json:"namespace"`
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about the ingested documents and get a grounded answer",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the labeled document context a question would be answered from, without generating an answer",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "namespace_overview",
		Description: "Describe a namespace: its rolling summary and document catalog",
	}, s.handleNamespaceOverview)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_text",
		Description: "Ingest inline text as a document; returns a job id to poll with job_status",
	}, s.handleIngestText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "job_status",
		Description: "Check the state of an ingestion job",
	}, s.handleJobStatus)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	session := domain.NewSession("", input.Namespace)
	opts := domain.RetrieveOptions{
		TopK:         input.TopK,
		MaxDocuments: input.MaxDocuments,
	}

	answer, err := s.ports.Answer.Ask(ctx, session, input.Question, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    answer.Text,
		Namespace: session.Namespace,
		Degraded:  answer.Degraded,
	}
	if answer.Retrieval != nil {
		output.SelectedIDs = answer.Retrieval.SelectedIDs
		output.OptimizedQuery = answer.Retrieval.OptimizedQuery
		output.Notes = append(output.Notes, answer.Retrieval.Notes...)
	}
	output.Notes = append(output.Notes, answer.Notes...)

	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	session := domain.NewSession("", input.Namespace)
	opts := domain.RetrieveOptions{
		TopK:         input.TopK,
		MaxDocuments: input.MaxDocuments,
	}

	result, err := s.ports.Answer.Retrieve(ctx, session, input.Question, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Context:        result.Context,
		Namespace:      session.Namespace,
		SelectedIDs:    result.SelectedIDs,
		OptimizedQuery: result.OptimizedQuery,
		Degraded:       result.Degraded,
		Notes:          result.Notes,
	}

	return nil, output, nil
}

// handleNamespaceOverview handles the namespace_overview tool invocation.
func (s *Server) handleNamespaceOverview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input NamespaceOverviewInput,
) (*mcp.CallToolResult, NamespaceOverviewOutput, error) {
	if s.ports.Catalog == nil {
		return nil, NamespaceOverviewOutput{}, errors.New("catalog service not available")
	}

	overview, err := s.ports.Catalog.Overview(ctx, input.Namespace)
	if err != nil {
		return nil, NamespaceOverviewOutput{}, err
	}

	output := NamespaceOverviewOutput{
		Namespace: overview.Namespace,
		Summary:   overview.Summary,
		Documents: make([]DocumentOutput, len(overview.Documents)),
	}
	for i := range overview.Documents {
		output.Documents[i] = DocumentOutput{
			ID:         overview.Documents[i].ID,
			Name:       overview.Documents[i].Name,
			Keywords:   overview.Documents[i].Keywords,
			Summary:    overview.Documents[i].Summary,
			ChunkCount: overview.Documents[i].ChunkCount,
		}
	}

	return nil, output, nil
}

// handleIngestText handles the ingest_text tool invocation.
func (s *Server) handleIngestText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestTextInput,
) (*mcp.CallToolResult, IngestTextOutput, error) {
	if s.ports.Jobs == nil {
		return nil, IngestTextOutput{}, errors.New("job service not available")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, IngestTextOutput{}, errors.New("content is required")
	}

	name := input.Name
	if name == "" {
		name = "inline-text"
	}

	job, err := s.ports.Jobs.Submit(ctx, driving.IngestRequest{
		Namespace:  input.Namespace,
		DocumentID: input.DocumentID,
		FileName:   name,
		Content:    []byte(input.Content),
		MIMEType:   "text/plain",
	})
	if err != nil {
		return nil, IngestTextOutput{}, err
	}

	return nil, IngestTextOutput{
		JobID:      job.ID,
		DocumentID: job.DocumentID,
		State:      string(job.State),
	}, nil
}

// handleJobStatus handles the job_status tool invocation.
func (s *Server) handleJobStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input JobStatusInput,
) (*mcp.CallToolResult, JobStatusOutput, error) {
	if s.ports.Jobs == nil {
		return nil, JobStatusOutput{}, errors.New("job service not available")
	}

	job, err := s.ports.Jobs.Get(ctx, input.JobID)
	if err != nil {
		return nil, JobStatusOutput{}, err
	}

	output := JobStatusOutput{
		JobID:      job.ID,
		State:      string(job.State),
		Progress:   job.Progress,
		Step:       job.StepLabel,
		Namespace:  job.Namespace,
		DocumentID: job.DocumentID,
	}
	if job.Result != nil {
		output.ChunkCount = job.Result.ChunkCount
	}
	if job.Error != nil {
		output.Error = job.Error.Kind + ": " + job.Error.Message
	}

	return nil, output, nil
}
