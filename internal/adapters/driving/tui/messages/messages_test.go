package messages

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// TestQuestionChanged tests the QuestionChanged message type
func TestQuestionChanged(t *testing.T) {
	t.Run("with valid question", func(t *testing.T) {
		msg := QuestionChanged{Question: "how do I install this"}
		assert.Equal(t, "how do I install this", msg.Question)
	})

	t.Run("with empty question", func(t *testing.T) {
		msg := QuestionChanged{Question: ""}
		assert.Equal(t, "", msg.Question)
	})

	t.Run("with special characters", func(t *testing.T) {
		msg := QuestionChanged{Question: "what does @#$%^&*() mean"}
		assert.Equal(t, "what does @#$%^&*() mean", msg.Question)
	})
}

// TestAskRequested tests the AskRequested message type
func TestAskRequested(t *testing.T) {
	t.Run("with retrieve options", func(t *testing.T) {
		opts := domain.RetrieveOptions{TopK: 10, MaxDocuments: 3}
		msg := AskRequested{Question: "how do backups work", Options: opts}

		assert.Equal(t, "how do backups work", msg.Question)
		assert.Equal(t, 10, msg.Options.TopK)
		assert.Equal(t, 3, msg.Options.MaxDocuments)
	})

	t.Run("with similarity floor", func(t *testing.T) {
		opts := domain.RetrieveOptions{TopK: 5, SimilarityFloor: 0.4}
		msg := AskRequested{Question: "deploy steps", Options: opts}

		assert.Equal(t, 5, msg.Options.TopK)
		assert.InDelta(t, 0.4, msg.Options.SimilarityFloor, 0.001)
	})

	t.Run("with history turns", func(t *testing.T) {
		opts := domain.RetrieveOptions{HistoryTurns: 6}
		msg := AskRequested{Question: "and after that?", Options: opts}

		assert.Equal(t, 6, msg.Options.HistoryTurns)
	})
}

// TestAskCompleted tests the AskCompleted message type
func TestAskCompleted_WithAnswer(t *testing.T) {
	answer := &domain.Answer{
		Text: "Run the installer from the release page.",
		Retrieval: &domain.RetrievalResult{
			SelectedIDs: []string{"doc-1", "doc-2"},
		},
	}
	msg := AskCompleted{Answer: answer, Err: nil}

	require.NotNil(t, msg.Answer)
	assert.Equal(t, "Run the installer from the release page.", msg.Answer.Text)
	assert.Len(t, msg.Answer.Retrieval.SelectedIDs, 2)
	assert.NoError(t, msg.Err)
}

func TestAskCompleted_WithError(t *testing.T) {
	err := errors.New("generation failed")
	msg := AskCompleted{Answer: nil, Err: err}

	assert.Nil(t, msg.Answer)
	assert.Error(t, msg.Err)
	assert.Equal(t, "generation failed", msg.Err.Error())
}

func TestAskCompleted_DegradedAnswer(t *testing.T) {
	answer := &domain.Answer{
		Text:     "",
		Degraded: true,
		Notes:    []string{"no relevant passages found"},
	}
	msg := AskCompleted{Answer: answer, Err: nil}

	require.NotNil(t, msg.Answer)
	assert.True(t, msg.Answer.Degraded)
	assert.NotEmpty(t, msg.Answer.Notes)
	assert.NoError(t, msg.Err)
}

// TestViewChanged tests the ViewChanged message type
func TestViewChanged(t *testing.T) {
	t.Run("to ask view", func(t *testing.T) {
		msg := ViewChanged{View: ViewAsk}
		assert.Equal(t, ViewAsk, msg.View)
	})

	t.Run("to namespaces view", func(t *testing.T) {
		msg := ViewChanged{View: ViewNamespaces}
		assert.Equal(t, ViewNamespaces, msg.View)
	})

	t.Run("to help view", func(t *testing.T) {
		msg := ViewChanged{View: ViewHelp}
		assert.Equal(t, ViewHelp, msg.View)
	})
}

// TestViewType_String tests all ViewType string representations
func TestViewType_String(t *testing.T) {
	tests := []struct {
		name     string
		view     ViewType
		expected string
	}{
		{"ViewMenu", ViewMenu, "menu"},
		{"ViewAsk", ViewAsk, "ask"},
		{"ViewNamespaces", ViewNamespaces, "namespaces"},
		{"ViewHelp", ViewHelp, "help"},
		{"ViewDocuments", ViewDocuments, "documents"},
		{"ViewDocDetails", ViewDocDetails, "doc_details"},
		{"ViewJobs", ViewJobs, "jobs"},
		{"ViewIngest", ViewIngest, "ingest"},
		{"ViewSettings", ViewSettings, "settings"},
		{"UnknownView", ViewType(99), "unknown"},
		{"NegativeView", ViewType(-1), "unknown"},
		{"LargeView", ViewType(1000), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

// TestErrorOccurred tests the ErrorOccurred message type
func TestErrorOccurred(t *testing.T) {
	t.Run("with standard error", func(t *testing.T) {
		err := errors.New("something went wrong")
		msg := ErrorOccurred{Err: err}

		assert.Error(t, msg.Err)
		assert.Equal(t, "something went wrong", msg.Err.Error())
	})

	t.Run("with nil error", func(t *testing.T) {
		msg := ErrorOccurred{Err: nil}
		assert.Nil(t, msg.Err)
	})

	t.Run("with wrapped error", func(t *testing.T) {
		baseErr := errors.New("base error")
		wrappedErr := errors.Join(baseErr, errors.New("additional context"))
		msg := ErrorOccurred{Err: wrappedErr}

		assert.Error(t, msg.Err)
		assert.Contains(t, msg.Err.Error(), "base error")
	})
}

// TestQuit tests the Quit message type
func TestQuit(t *testing.T) {
	msg := Quit{}
	// Quit is an empty struct, just verify it can be created
	assert.NotNil(t, msg)
}

// TestNamespacesLoaded tests the NamespacesLoaded message type
func TestNamespacesLoaded(t *testing.T) {
	t.Run("with namespaces", func(t *testing.T) {
		msg := NamespacesLoaded{
			Namespaces: []string{"default", "team-a"},
			Err:        nil,
		}

		require.Len(t, msg.Namespaces, 2)
		assert.Equal(t, "default", msg.Namespaces[0])
		assert.Equal(t, "team-a", msg.Namespaces[1])
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("failed to list namespaces")
		msg := NamespacesLoaded{Namespaces: nil, Err: err}

		assert.Nil(t, msg.Namespaces)
		assert.Error(t, msg.Err)
		assert.Equal(t, "failed to list namespaces", msg.Err.Error())
	})

	t.Run("with empty list", func(t *testing.T) {
		msg := NamespacesLoaded{Namespaces: []string{}, Err: nil}

		assert.NotNil(t, msg.Namespaces)
		assert.Empty(t, msg.Namespaces)
		assert.NoError(t, msg.Err)
	})
}

// TestNamespaceSelected tests the NamespaceSelected message type
func TestNamespaceSelected(t *testing.T) {
	t.Run("with named namespace", func(t *testing.T) {
		msg := NamespaceSelected{Namespace: "team-a"}
		assert.Equal(t, "team-a", msg.Namespace)
	})

	t.Run("with empty namespace", func(t *testing.T) {
		msg := NamespaceSelected{Namespace: ""}
		assert.Equal(t, "", msg.Namespace)
	})
}

// TestDocumentsLoaded tests the DocumentsLoaded message type
func TestDocumentsLoaded(t *testing.T) {
	t.Run("with documents", func(t *testing.T) {
		docs := []domain.Document{
			{ID: "doc1", Name: "Install Guide", Namespace: "default"},
			{ID: "doc2", Name: "API Reference", Namespace: "default"},
		}
		msg := DocumentsLoaded{
			Namespace: "default",
			Documents: docs,
			Err:       nil,
		}

		assert.Equal(t, "default", msg.Namespace)
		require.Len(t, msg.Documents, 2)
		assert.Equal(t, "doc1", msg.Documents[0].ID)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("failed to load documents")
		msg := DocumentsLoaded{
			Namespace: "team-a",
			Documents: nil,
			Err:       err,
		}

		assert.Equal(t, "team-a", msg.Namespace)
		assert.Nil(t, msg.Documents)
		assert.Error(t, msg.Err)
	})

	t.Run("with empty documents", func(t *testing.T) {
		msg := DocumentsLoaded{
			Namespace: "empty-ns",
			Documents: []domain.Document{},
			Err:       nil,
		}

		assert.NotNil(t, msg.Documents)
		assert.Empty(t, msg.Documents)
	})
}

// TestDocumentSelected tests the DocumentSelected message type
func TestDocumentSelected(t *testing.T) {
	t.Run("with valid document", func(t *testing.T) {
		doc := domain.Document{
			ID:        "doc-123",
			Name:      "Selected Document",
			Namespace: "default",
		}
		msg := DocumentSelected{Document: doc}

		assert.Equal(t, "doc-123", msg.Document.ID)
		assert.Equal(t, "Selected Document", msg.Document.Name)
	})

	t.Run("with empty document", func(t *testing.T) {
		msg := DocumentSelected{Document: domain.Document{}}
		assert.Equal(t, "", msg.Document.ID)
	})
}

// TestDocumentDeleted tests the DocumentDeleted message type
func TestDocumentDeleted(t *testing.T) {
	t.Run("successful deletion", func(t *testing.T) {
		msg := DocumentDeleted{DocumentID: "doc-123", Err: nil}

		assert.Equal(t, "doc-123", msg.DocumentID)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("document not found")
		msg := DocumentDeleted{DocumentID: "doc-456", Err: err}

		assert.Equal(t, "doc-456", msg.DocumentID)
		assert.Error(t, msg.Err)
		assert.Equal(t, "document not found", msg.Err.Error())
	})
}

// TestJobsLoaded tests the JobsLoaded message type
func TestJobsLoaded(t *testing.T) {
	t.Run("with jobs", func(t *testing.T) {
		job := domain.NewIngestJob("job-1", "default", "doc-1", "guide.md", time.Now())
		msg := JobsLoaded{Jobs: []domain.IngestJob{*job}, Err: nil}

		require.Len(t, msg.Jobs, 1)
		assert.Equal(t, "job-1", msg.Jobs[0].ID)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("failed to list jobs")
		msg := JobsLoaded{Jobs: nil, Err: err}

		assert.Nil(t, msg.Jobs)
		assert.Error(t, msg.Err)
	})
}

// TestJobSubmitted tests the JobSubmitted message type
func TestJobSubmitted(t *testing.T) {
	t.Run("successful submission", func(t *testing.T) {
		job := domain.NewIngestJob("job-9", "default", "doc-9", "notes.md", time.Now())
		msg := JobSubmitted{Job: job, Err: nil}

		require.NotNil(t, msg.Job)
		assert.Equal(t, "job-9", msg.Job.ID)
		assert.Equal(t, domain.JobStatePending, msg.Job.State)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("queue is full")
		msg := JobSubmitted{Job: nil, Err: err}

		assert.Nil(t, msg.Job)
		assert.Error(t, msg.Err)
	})
}

// TestJobsPruned tests the JobsPruned message type
func TestJobsPruned(t *testing.T) {
	t.Run("with removals", func(t *testing.T) {
		msg := JobsPruned{Removed: 3, Err: nil}

		assert.Equal(t, 3, msg.Removed)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("prune failed")
		msg := JobsPruned{Removed: 0, Err: err}

		assert.Zero(t, msg.Removed)
		assert.Error(t, msg.Err)
	})
}

// TestIngestCompleted tests the IngestCompleted message type
func TestIngestCompleted(t *testing.T) {
	t.Run("with result", func(t *testing.T) {
		result := &domain.IngestResult{
			DocumentID: "doc-1",
			Namespace:  "default",
			ChunkCount: 12,
		}
		msg := IngestCompleted{Result: result, Err: nil}

		require.NotNil(t, msg.Result)
		assert.Equal(t, "doc-1", msg.Result.DocumentID)
		assert.Equal(t, 12, msg.Result.ChunkCount)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("parse failed")
		msg := IngestCompleted{Result: nil, Err: err}

		assert.Nil(t, msg.Result)
		assert.Error(t, msg.Err)
	})
}

// TestSettingsLoaded tests the SettingsLoaded message type
func TestSettingsLoaded(t *testing.T) {
	t.Run("with settings", func(t *testing.T) {
		settings := &domain.AppSettings{
			VectorStore: domain.VectorStoreSettings{
				Backend: domain.VectorBackendQdrant,
			},
		}
		msg := SettingsLoaded{
			Settings: settings,
			Err:      nil,
		}

		assert.NotNil(t, msg.Settings)
		assert.Equal(t, domain.VectorBackendQdrant, msg.Settings.VectorStore.Backend)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("failed to load settings")
		msg := SettingsLoaded{
			Settings: nil,
			Err:      err,
		}

		assert.Nil(t, msg.Settings)
		assert.Error(t, msg.Err)
		assert.Equal(t, "failed to load settings", msg.Err.Error())
	})

	t.Run("with nil settings", func(t *testing.T) {
		msg := SettingsLoaded{
			Settings: nil,
			Err:      nil,
		}

		assert.Nil(t, msg.Settings)
		assert.NoError(t, msg.Err)
	})
}

// TestSettingsSaved tests the SettingsSaved message type
func TestSettingsSaved(t *testing.T) {
	t.Run("successful save", func(t *testing.T) {
		msg := SettingsSaved{Err: nil}
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("save failed")
		msg := SettingsSaved{Err: err}

		assert.Error(t, msg.Err)
		assert.Equal(t, "save failed", msg.Err.Error())
	})
}
