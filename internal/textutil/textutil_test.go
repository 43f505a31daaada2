package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"the", "reset", "button"}, Tokens("The RESET button!"))
	assert.Equal(t, []string{"don't", "stop"}, Tokens("Don't stop."))
	assert.Empty(t, Tokens("123 456"))
}

func TestContentTokenSet_FiltersShortTokens(t *testing.T) {
	set := ContentTokenSet("it is on the reset button", 3)
	assert.Contains(t, set, "reset")
	assert.Contains(t, set, "button")
	assert.Contains(t, set, "the")
	assert.NotContains(t, set, "it")
	assert.NotContains(t, set, "is")
	assert.NotContains(t, set, "on")
}

func TestSentences(t *testing.T) {
	got := Sentences("First one. Second one! Third one?")
	assert.Equal(t, []string{"First one.", "Second one!", "Third one?"}, got)
}

func TestSentences_NoTerminalPunctuation(t *testing.T) {
	assert.Equal(t, []string{"just a fragment"}, Sentences("  just a fragment  "))
	assert.Empty(t, Sentences("   "))
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("the"))
	assert.True(t, IsStopword("with"))
	assert.False(t, IsStopword("reset"))
}
