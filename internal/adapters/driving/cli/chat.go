package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var chatNamespace string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question-answering session",
	Long: `Starts an interactive session against a namespace. Conversation
history carries across questions, so follow-ups can refer to earlier
answers.

Type 'exit' or press Ctrl+D to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatNamespace, "namespace", "n", "", "namespace to chat against (default \"default\")")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	ctx := context.Background()
	session := domain.NewSession(uuid.New().String(), chatNamespace)

	cmd.Printf("Chatting against namespace %s. Type 'exit' to leave.\n\n", session.Namespace)

	reader := bufio.NewReader(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF ends the session.
			cmd.Println()
			return nil
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		answer, err := answerService.Ask(ctx, session, question, domain.RetrieveOptions{})
		if err != nil {
			cmd.Printf("Error: %v\n\n", err)
			continue
		}

		if answer.Text == "" {
			cmd.Println("No answer could be generated.")
		} else {
			cmd.Println(answer.Text)
		}
		if answer.Retrieval != nil && len(answer.Retrieval.SelectedIDs) > 0 {
			cmd.Printf("(sources: %s)\n", strings.Join(answer.Retrieval.SelectedIDs, ", "))
		}
		cmd.Println()
	}
}
