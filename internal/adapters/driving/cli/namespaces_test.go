package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespacesCmd_Use(t *testing.T) {
	assert.Equal(t, "namespaces", namespacesCmd.Use)
}

func TestNamespacesCmd_Short(t *testing.T) {
	assert.Equal(t, "List namespaces", namespacesCmd.Short)
}

func TestNamespacesCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"namespaces"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Namespaces (2):")
	assert.Contains(t, buf.String(), "default")
	assert.Contains(t, buf.String(), "team-a")
}

func TestNamespacesCmd_EmptyList(t *testing.T) {
	oldService := catalogService
	catalogService = &mockCatalogServiceEmpty{}
	defer func() {
		catalogService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"namespaces"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No namespaces yet. Ingest a document to create one.")
}

func TestNamespacesCmd_ServiceNotConfigured(t *testing.T) {
	oldService := catalogService
	catalogService = nil
	defer func() {
		catalogService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"namespaces"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "catalog service not configured")
}

func TestNamespacesCmd_ServiceError(t *testing.T) {
	oldService := catalogService
	catalogService = &mockCatalogServiceError{}
	defer func() {
		catalogService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"namespaces"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list namespaces")
}

// Namespaces Summary Tests

func TestNamespacesSummaryCmd_Use(t *testing.T) {
	assert.Equal(t, "summary [namespace]", namespacesSummaryCmd.Use)
}

func TestNamespacesSummaryCmd_AcceptsMaxOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"namespaces", "summary", "team-a", "extra-arg"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg(s)")
}

func TestNamespacesSummaryCmd_DefaultsNamespace(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"namespaces", "summary"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Namespace: default")
	assert.Contains(t, buf.String(), "Documents: 2")
	assert.Contains(t, buf.String(), "Summary:")
	assert.Contains(t, buf.String(), "Two documents about product setup.")
}

func TestNamespacesSummaryCmd_ExecutesWithArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"namespaces", "summary", "team-a"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Namespace: team-a")
	assert.Contains(t, buf.String(), "doc-1 (Test Document 1)")
}

func TestNamespacesSummaryCmd_WithoutSummary(t *testing.T) {
	oldService := catalogService
	catalogService = &mockCatalogServiceEmpty{}
	defer func() {
		catalogService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"namespaces", "summary"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Documents: 0")
	assert.NotContains(t, buf.String(), "Summary:")
}

func TestNamespacesSummaryCmd_ServiceError(t *testing.T) {
	oldService := catalogService
	catalogService = &mockCatalogServiceError{}
	defer func() {
		catalogService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"namespaces", "summary"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get namespace overview")
}
