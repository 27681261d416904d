package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightJSON(t *testing.T) {
	prev := disableColor
	t.Cleanup(func() { disableColor = prev })

	disableColor = false
	out := HighlightJSON(`{"status":200,"ok":true,"err":null}`)
	assert.Contains(t, out, Blue+`"status"`+ResetCode+":")
	assert.Contains(t, out, Purple+"200"+ResetCode)
	assert.Contains(t, out, Yellow+"true"+ResetCode)
	assert.Contains(t, out, DimCode+"null"+ResetCode)

	disableColor = true
	assert.Equal(t, `{"a":1}`, HighlightJSON(`{"a":1}`))
}

func TestPrettyFormat_Struct(t *testing.T) {
	prev := disableColor
	t.Cleanup(func() { disableColor = prev })
	disableColor = true

	out := PrettyFormat(map[string]int{"a": 1})
	assert.Equal(t, "{\n  \"a\": 1\n}", out)
}
