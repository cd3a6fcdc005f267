package status

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qa-agent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/qa-agent/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, -1, bar.RecordCount())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*Bar)
		contains []string
	}{
		{
			name:     "ready without count",
			setup:    func(*Bar) {},
			contains: []string{"mode: answer", "enter: ask", "esc: quit"},
		},
		{
			name: "ready with count and mode",
			setup: func(b *Bar) {
				b.SetRecordCount(12)
				b.SetMode("context")
			},
			contains: []string{"12 records", "mode: context"},
		},
		{
			name:     "thinking",
			setup:    func(b *Bar) { b.SetState(StateThinking) },
			contains: []string{"Thinking..."},
		},
		{
			name: "error with message",
			setup: func(b *Bar) {
				b.SetState(StateError)
				b.SetMessage("backend down")
			},
			contains: []string{"Error: backend down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			tt.setup(bar)

			view := bar.View()
			for _, want := range tt.contains {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestBar_View_FitsOnOneLine(t *testing.T) {
	for _, width := range []int{80, 100, 120} {
		t.Run(fmt.Sprintf("width %d", width), func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(width)
			bar.SetRecordCount(48)

			view := bar.View()

			assert.NotContains(t, view, "\n")
			assert.Equal(t, width, lipgloss.Width(view))
			assert.Contains(t, view, "esc: quit")
		})
	}
}
