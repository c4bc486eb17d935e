package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var (
	askNamespace   string
	askShowContext bool
	askJSON        bool
	askTopK        int
	askMaxDocs     int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Asks a one-shot question against a namespace.

The question is routed to the most relevant documents, condensed into a
search phrase, and answered from the retrieved passages. Use
--show-context to see the passages the answer was grounded on.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askNamespace, "namespace", "n", "", "namespace to ask against (default \"default\")")
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "print the retrieved context before the answer")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "matches per document (0 = configured default)")
	askCmd.Flags().IntVar(&askMaxDocs, "max-documents", 0, "documents routing may select (0 = configured default)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	ctx := context.Background()
	session := domain.NewSession("", askNamespace)
	opts := domain.RetrieveOptions{
		TopK:         askTopK,
		MaxDocuments: askMaxDocs,
	}

	answer, err := answerService.Ask(ctx, session, args[0], opts)
	if err != nil {
		return fmt.Errorf("failed to answer question: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, session.Namespace, answer)
	}

	outputAnswerText(cmd, answer)
	return nil
}

// answerOutput is the JSON shape of an answer.
type answerOutput struct {
	Answer         string   `json:"answer"`
	Namespace      string   `json:"namespace"`
	SelectedIDs    []string `json:"selected_documents,omitempty"`
	OptimizedQuery string   `json:"optimized_query,omitempty"`
	Context        string   `json:"context,omitempty"`
	Degraded       bool     `json:"degraded,omitempty"`
	Notes          []string `json:"notes,omitempty"`
}

func outputAnswerJSON(cmd *cobra.Command, namespace string, answer *domain.Answer) error {
	out := answerOutput{
		Answer:    answer.Text,
		Namespace: namespace,
		Degraded:  answer.Degraded,
	}
	if answer.Retrieval != nil {
		out.SelectedIDs = answer.Retrieval.SelectedIDs
		out.OptimizedQuery = answer.Retrieval.OptimizedQuery
		out.Notes = append(out.Notes, answer.Retrieval.Notes...)
		if askShowContext {
			out.Context = answer.Retrieval.Context
		}
	}
	out.Notes = append(out.Notes, answer.Notes...)

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) {
	if askShowContext && answer.Retrieval != nil && answer.Retrieval.Context != "" {
		cmd.Println("Context:")
		cmd.Println(answer.Retrieval.Context)
		cmd.Println()
	}

	if answer.Retrieval != nil && len(answer.Retrieval.SelectedIDs) > 0 {
		cmd.Printf("Sources: %v\n\n", answer.Retrieval.SelectedIDs)
	}

	if answer.Text == "" {
		cmd.Println("No answer could be generated.")
	} else {
		cmd.Println(answer.Text)
	}

	if answer.Degraded {
		for _, note := range answer.Notes {
			cmd.Printf("Note: %s\n", note)
		}
		if answer.Retrieval != nil {
			for _, note := range answer.Retrieval.Notes {
				cmd.Printf("Note: %s\n", note)
			}
		}
	}
}
