package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCmd_Use(t *testing.T) {
	assert.Equal(t, "chat", chatCmd.Use)
	assert.Contains(t, chatCmd.Long, "Ctrl+T")
}

func TestChatCmd_LineMode(t *testing.T) {
	env := setupTestServices(t)
	env.agent.answer = "Tool use."
	rootCmd.SetIn(strings.NewReader("first question\n\n  second question  \n"))

	out, _, err := execute(t, "chat")

	require.NoError(t, err)
	assert.Equal(t, []string{"first question", "second question"}, env.agent.questions)
	assert.Equal(t, "Tool use.\n\nTool use.\n\n", out)
	assert.Equal(t, 1, env.closed)
}

func TestChatCmd_LineModeContinuesAfterError(t *testing.T) {
	env := setupTestServices(t)
	env.agent.err = errBoom
	rootCmd.SetIn(strings.NewReader("a\nb\n"))

	out, errOut, err := execute(t, "chat")

	require.NoError(t, err)
	assert.Len(t, env.agent.questions, 2)
	assert.Empty(t, out)
	assert.Equal(t, 2, strings.Count(errOut, "error: boom"))
}
