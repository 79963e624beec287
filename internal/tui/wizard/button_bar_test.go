package wizard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mobilkita/tradein/internal/tui/theme"
)

func TestCreateBackNextButtons(t *testing.T) {
	tests := []struct {
		name      string
		back      bool
		busy      bool
		wantBack  ButtonState
		wantNext  ButtonState
		nextLabel string
	}{
		{"first step", false, false, ButtonDisabled, ButtonFocused, "Next →"},
		{"middle step", true, false, ButtonNormal, ButtonFocused, "Next →"},
		{"submitting", true, true, ButtonDisabled, ButtonDisabled, "Submit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buttons := CreateBackNextButtons(tt.back, tt.busy, tt.nextLabel)
			require.Len(t, buttons, 2)
			require.Equal(t, tt.wantBack, buttons[0].State)
			require.Equal(t, tt.wantNext, buttons[1].State)
			require.Equal(t, tt.nextLabel, buttons[1].Label)
		})
	}
}

func TestButtonBarRender(t *testing.T) {
	th := theme.NewCatppuccinMocha()
	bar := NewButtonBar(th, CreateBackNextButtons(true, false, "Submit"))
	bar.SetWidth(40)
	out := bar.Render()
	require.Contains(t, out, "← Back")
	require.Contains(t, out, "Submit")

	require.Empty(t, NewButtonBar(th, nil).Render())
}

func TestRenderHintBar(t *testing.T) {
	th := theme.NewCatppuccinMocha()
	out := renderHintBar(th, "tab", "next", "esc", "back")
	for _, part := range []string{"tab", "next", "•", "esc", "back"} {
		require.Contains(t, out, part)
	}
	require.Empty(t, renderHintBar(th, "tab"))
}
