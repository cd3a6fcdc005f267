package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Answer a question about the indexed document",
	Long: `Embeds the question, retrieves the closest chunks from the vector store and
asks the LLM to answer from that context only.

Words after the command are joined into one question, so quoting is optional.
Use --context-only to print the retrieved context without calling the LLM.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolP("context-only", "c", false, "print retrieved context instead of an answer")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("question must not be empty")
	}

	contextOnly, err := cmd.Flags().GetBool("context-only")
	if err != nil {
		return fmt.Errorf("getting context-only flag: %w", err)
	}

	a, err := openOneShotApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if contextOnly {
		retrieved, err := a.agent.Context(cmd.Context(), question)
		if err != nil {
			return fmt.Errorf("retrieval failed: %w", err)
		}
		if retrieved == "" {
			cmd.Println("No context found. Run 'qa-agent index' first.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), retrieved)
		return nil
	}

	answer, err := a.agent.Query(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
