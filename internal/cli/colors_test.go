package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanner(t *testing.T) {
	prev := disableColor
	t.Cleanup(func() { disableColor = prev })

	disableColor = true
	assert.Equal(t, "gateway v1.2.0", Banner("gateway", "v1.2.0"))
	assert.Equal(t, "✔", CheckMark())

	disableColor = false
	out := Banner("ab", "dev")
	// first rune takes the start color, last rune the end color
	assert.Contains(t, out, "\033[38;2;0;120;255ma"+ResetCode)
	assert.Contains(t, out, "\033[38;2;189;52;235mb"+ResetCode)
	assert.Contains(t, out, DimCode+"dev"+ResetCode)
	assert.Equal(t, Red+"✘"+ResetCode, CrossMark())
}
