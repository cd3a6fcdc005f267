package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/qa-agent/internal/core/services"
)

// readSecret reads a value without echo. Replaced in tests.
var readSecret = func() (string, error) {
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, edit and check configuration",
	Long: `Configuration is assembled from built-in defaults, the config file and
environment variables, in that order. Keys use dot notation, for example
index.chunk_size or llm.provider.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a configuration value in the config file",
	Long: `Writes one key to the config file. When the value of a secret such as
llm.api_key is omitted it is read from the terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and ping providers",
	Args:  cobra.NoArgs,
	RunE:  runConfigCheck,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config file: %s\n\n", settingsService.Path())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
	for _, s := range settings {
		value := s.Value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Key, value, s.Source)
	}
	return w.Flush()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case services.IsSecretKey(key):
		cmd.Printf("%s: ", key)
		secret, err := readSecret()
		cmd.Println()
		if err != nil {
			return fmt.Errorf("reading %s: %w", key, err)
		}
		value = strings.TrimSpace(secret)
	default:
		return fmt.Errorf("missing value for %s", key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s in %s\n", key, settingsService.Path())
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cmd.Println("Configuration is valid.")

	if err := serviceChecker(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("provider check failed: %w", err)
	}
	cmd.Printf("Embedding %s/%s, LLM %s/%s and %s vector store are reachable.\n",
		cfg.Embedding.Provider, cfg.Embedding.Model,
		cfg.LLM.Provider, cfg.LLM.Model,
		cfg.VectorStore.Backend)
	return nil
}
