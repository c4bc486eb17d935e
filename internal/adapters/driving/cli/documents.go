package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var documentsNamespace string

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage ingested documents",
	Long:  `List, inspect and delete documents in a namespace.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in a namespace",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a document's catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its vectors",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

func init() {
	documentsCmd.PersistentFlags().StringVarP(&documentsNamespace, "namespace", "n", "", "namespace (default \"default\")")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	ctx := context.Background()
	docs, err := catalogService.ListDocuments(ctx, documentsNamespace)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents in this namespace.")
		return nil
	}

	cmd.Printf("Documents (%d):\n\n", len(docs))
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Name: %s\n", docs[i].Name)
		cmd.Printf("    Chunks: %d\n", docs[i].ChunkCount)
		if len(docs[i].Keywords) > 0 {
			cmd.Printf("    Keywords: %s\n", strings.Join(docs[i].Keywords, ", "))
		}
		cmd.Println()
	}
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	ctx := context.Background()
	doc, err := catalogService.GetDocument(ctx, documentsNamespace, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n", doc.ID)
	cmd.Printf("  Namespace: %s\n", doc.Namespace)
	cmd.Printf("  Name: %s\n", doc.Name)
	cmd.Printf("  Chunks: %d\n", doc.ChunkCount)
	if len(doc.Keywords) > 0 {
		cmd.Printf("  Keywords: %s\n", strings.Join(doc.Keywords, ", "))
	}
	if doc.Summary != "" {
		cmd.Printf("  Summary: %s\n", doc.Summary)
	}
	if doc.AdditionalInfo != "" {
		cmd.Printf("  Additional info: %s\n", doc.AdditionalInfo)
	}
	cmd.Printf("  Created: %s\n", doc.CreatedAt.Format(time.RFC3339))
	cmd.Printf("  Updated: %s\n", doc.UpdatedAt.Format(time.RFC3339))
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	ctx := context.Background()
	if err := catalogService.DeleteDocument(ctx, documentsNamespace, args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document: %s\n", args[0])
	return nil
}
