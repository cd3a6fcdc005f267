package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qa-agent/internal/adapters/driven/config/file"
	"github.com/custodia-labs/qa-agent/internal/core/domain"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "qa-agent", rootCmd.Use)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	require.NotNil(t, flags.Lookup("config"))
	require.NotNil(t, flags.Lookup("backend"))

	v := flags.Lookup("verbose")
	require.NotNil(t, v)
	assert.Equal(t, "v", v.Shorthand)
	assert.Equal(t, "false", v.DefValue)
}

func TestRootCmd_Subcommands(t *testing.T) {
	want := []string{"index", "query", "count", "cache", "config", "chat", "serve", "mcp", "version"}
	for _, name := range want {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	orig := configPath
	defer func() { configPath = orig }()

	t.Run("default", func(t *testing.T) {
		configPath = ""
		t.Setenv(EnvConfigPath, "")
		assert.Equal(t, file.DefaultFileName, resolveConfigPath())
	})

	t.Run("env", func(t *testing.T) {
		configPath = ""
		t.Setenv(EnvConfigPath, "/etc/qa-agent.yaml")
		assert.Equal(t, "/etc/qa-agent.yaml", resolveConfigPath())
	})

	t.Run("flag wins", func(t *testing.T) {
		configPath = "custom.toml"
		t.Setenv(EnvConfigPath, "/etc/qa-agent.yaml")
		assert.Equal(t, "custom.toml", resolveConfigPath())
	})
}

func TestLoadConfig(t *testing.T) {
	env := setupTestServices(t)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.BackendSQLite, cfg.VectorStore.Backend)
	assert.Equal(t, domain.DefaultChunkSize, cfg.Index.ChunkSize)

	t.Run("backend flag overrides", func(t *testing.T) {
		backendFlag = "memory"
		defer func() { backendFlag = "" }()

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, domain.BackendMemory, cfg.VectorStore.Backend)
	})

	t.Run("invalid config", func(t *testing.T) {
		require.NoError(t, env.settings.Set("index.overlap", "500"))
		defer func() { require.NoError(t, env.settings.Set("index.overlap", "25")) }()

		_, err := loadConfig()
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing settings", func(t *testing.T) {
		SetSettingsService(nil)
		defer SetSettingsService(env.settings)

		_, err := loadConfig()
		assert.Error(t, err)
	})
}

func TestInitRuntime_FileSettings(t *testing.T) {
	setupTestServices(t)
	SetSettingsService(nil)

	path := t.TempDir() + "/qa-agent.toml"
	out, _, err := execute(t, "--config", path, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "index.chunk_size")
}

func TestBackendFlag_Invalid(t *testing.T) {
	env := setupTestServices(t)

	_, _, err := execute(t, "--backend", "bogus", "count")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, env.configs)
}
