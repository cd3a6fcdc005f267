// Package cli implements the qa-agent command line on cobra.
package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qa-agent/internal/adapters/driven/config/file"
	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
	"github.com/custodia-labs/qa-agent/internal/core/services"
	"github.com/custodia-labs/qa-agent/internal/logger"
)

// EnvConfigPath names the config file when --config is not given.
const EnvConfigPath = "QA_AGENT_CONFIG"

// version is set at build time via SetVersion.
var version = "dev"

var (
	configPath  string
	verbose     bool
	backendFlag string
)

// settingsService resolves configuration. Built in PersistentPreRunE unless
// injected with SetSettingsService.
var (
	settingsService  driving.SettingsService
	settingsInjected bool
)

var rootCmd = &cobra.Command{
	Use:   "qa-agent",
	Short: "Ask questions about a web document",
	Long: `qa-agent indexes a supported web document into a vector store and answers
questions about it with retrieval-augmented generation.

Typical use:
  qa-agent index https://lilianweng.github.io/posts/2023-06-23-agent/
  qa-agent query "What are the components of an LLM-powered agent?"

Configuration is read from ./qa-agent.toml (or --config, or $QA_AGENT_CONFIG),
then overridden by environment variables such as OPENAI_API_KEY. A .env file
in the working directory is loaded first.`,
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default $"+EnvConfigPath+" or ./"+file.DefaultFileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace pipeline stages on stderr")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "",
		"vector store backend override (memory, sqlite, qdrant, chroma)")
}

// Execute runs the root command. Interrupt and SIGTERM cancel the command
// context, which stops servers and watchers cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsService injects a settings service, bypassing the config file.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
	settingsInjected = s != nil
}

func initRuntime(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	if settingsInjected {
		return nil
	}

	store, err := file.NewConfigStore(resolveConfigPath())
	if err != nil {
		return err
	}
	settingsService = services.NewSettingsService(store, nil)
	return nil
}

// resolveConfigPath applies --config, then $QA_AGENT_CONFIG, then the default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return file.DefaultFileName
}

// loadConfig resolves settings, applies flag overrides and validates once.
func loadConfig() (domain.Config, error) {
	if settingsService == nil {
		return domain.Config{}, errors.New("settings service not configured")
	}

	cfg, err := settingsService.Get()
	if err != nil {
		return domain.Config{}, err
	}
	if backendFlag != "" {
		cfg.VectorStore.Backend = domain.VectorStoreBackend(backendFlag)
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}
