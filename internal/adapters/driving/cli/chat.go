package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/qa-agent/internal/adapters/driving/tui"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
)

// isTerminal reports whether stdin is interactive. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: `Opens an interactive session over the indexed document.

On a terminal this launches the full-screen UI:
  Enter       - Ask
  Ctrl+T      - Toggle answer / context-only mode
  PgUp/PgDn   - Scroll the transcript
  Esc, Ctrl+C - Quit

When stdin is not a terminal, questions are read one per line and each
answer is printed followed by a blank line.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if !isTerminal() {
		return chatLines(cmd, a.agent, cmd.InOrStdin())
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(&tui.Ports{Agent: a.agent})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// chatLines answers one question per input line until EOF.
func chatLines(cmd *cobra.Command, agent driving.Agent, in io.Reader) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		answer, err := agent.Query(cmd.Context(), question)
		if err != nil {
			// One bad question does not end the session.
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "%s\n\n", answer)
	}
	return scanner.Err()
}
