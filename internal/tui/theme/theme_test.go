package theme

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.Writer.Profile = colorprofile.Ascii
}

func TestParseAndFormatHexColor(t *testing.T) {
	r, g, b := ParseHexColor("#cba6f7")
	require.Equal(t, [3]uint8{0xcb, 0xa6, 0xf7}, [3]uint8{r, g, b})
	require.Equal(t, "#cba6f7", FormatHexColor(r, g, b))

	r, g, b = ParseHexColor("nope")
	require.Zero(t, r)
	require.Zero(t, g)
	require.Zero(t, b)
}

func TestInterpolateColor(t *testing.T) {
	require.Equal(t, "#000000", InterpolateColor("#000000", "#ffffff", 0))
	require.Equal(t, "#ffffff", InterpolateColor("#000000", "#ffffff", 1))
	require.Equal(t, "#7f7f7f", InterpolateColor("#000000", "#ffffff", 0.5))
}

func TestValidHex(t *testing.T) {
	require.True(t, ValidHex("#9E9E9E"))
	require.False(t, ValidHex("9e9e9e"))
	require.False(t, ValidHex("#9e9e9"))
	require.False(t, ValidHex("#zzzzzz"))
}

func TestSwatchAndProgress(t *testing.T) {
	th := NewCatppuccinMocha()
	require.Contains(t, th.Swatch("#ffffff"), "●")
	require.Contains(t, th.Swatch("not-a-color"), "●")

	bar := th.Progress(2, 4, 8)
	require.Equal(t, 8, strings.Count(bar, "━"))
	require.Empty(t, th.Progress(1, 0, 8))
}

func TestStylesAreBuiltOnce(t *testing.T) {
	th := NewCatppuccinMocha()
	require.Same(t, th.S(), th.S())
}

func TestApplyGradient(t *testing.T) {
	require.Empty(t, ApplyGradient("", "#000000", "#ffffff"))
	out := ApplyGradient("a b", "#000000", "#ffffff")
	require.Contains(t, out, "a")
	require.Contains(t, out, " ")
	require.Contains(t, out, "b")
}
