package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var namespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "List namespaces",
	Long:  `Lists every namespace that holds at least one document.`,
	Args:  cobra.NoArgs,
	RunE:  runNamespaces,
}

var namespacesSummaryCmd = &cobra.Command{
	Use:   "summary [namespace]",
	Short: "Show a namespace overview",
	Long:  `Shows a namespace's rolling summary and its document catalog.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNamespacesSummary,
}

func init() {
	namespacesCmd.AddCommand(namespacesSummaryCmd)
	rootCmd.AddCommand(namespacesCmd)
}

func runNamespaces(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	ctx := context.Background()
	names, err := catalogService.ListNamespaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to list namespaces: %w", err)
	}

	if len(names) == 0 {
		cmd.Println("No namespaces yet. Ingest a document to create one.")
		return nil
	}

	cmd.Printf("Namespaces (%d):\n", len(names))
	for _, name := range names {
		cmd.Printf("  %s\n", name)
	}
	return nil
}

func runNamespacesSummary(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	namespace := ""
	if len(args) > 0 {
		namespace = args[0]
	}

	ctx := context.Background()
	overview, err := catalogService.Overview(ctx, namespace)
	if err != nil {
		return fmt.Errorf("failed to get namespace overview: %w", err)
	}

	cmd.Printf("Namespace: %s\n", overview.Namespace)
	cmd.Printf("Documents: %d\n", len(overview.Documents))
	for i := range overview.Documents {
		cmd.Printf("  %s (%s)\n", overview.Documents[i].ID, overview.Documents[i].Name)
	}
	if overview.Summary != "" {
		cmd.Println("\nSummary:")
		cmd.Println(overview.Summary)
	}
	return nil
}
