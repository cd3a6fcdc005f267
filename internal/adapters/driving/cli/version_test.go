package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Short(t *testing.T) {
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_Executes(t *testing.T) {
	setupTestServices(t)

	originalVersion := version
	SetVersion("test-version-1.0.0")
	defer func() { version = originalVersion }()

	out, _, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "qa-agent version test-version-1.0.0")
}

func TestVersionCmd_RunsWithoutSettings(t *testing.T) {
	setupTestServices(t)
	SetSettingsService(nil)

	out, _, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "qa-agent version")
}
