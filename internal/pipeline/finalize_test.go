package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cristinamerisoiu/cv-chatbot/pkg/textx"
)

func TestFinalize_ThirdPersonRewrite(t *testing.T) {
	got := Finalize("I am a QA engineer and I have tested my own frameworks.", 50)
	assert.Equal(t, "Cristina is a QA engineer and she has tested her own frameworks.", got)
}

func TestFinalize_WordCapWithMarker(t *testing.T) {
	long := strings.Repeat("word ", 200)
	got := Finalize(long, 120)
	assert.LessOrEqual(t, textx.WordCount(strings.TrimSuffix(got, TruncationMarker)), 120)
	assert.True(t, strings.HasSuffix(got, TruncationMarker))
}

func TestFinalize_ShortTextUnchanged(t *testing.T) {
	in := "She worked on payment systems."
	assert.Equal(t, in, Finalize("  "+in+"  ", 120))
}

func TestFinalize_NeverExceedsMaxWords(t *testing.T) {
	for _, n := range []int{1, 5, 119, 120, 121, 400} {
		got := Finalize(strings.Repeat("x ", n), 120)
		words := textx.WordCount(strings.TrimSuffix(got, TruncationMarker))
		assert.LessOrEqual(t, words, 120, "n=%d", n)
	}
}

func TestFinalize_BareIOnlyWhenCapitalized(t *testing.T) {
	// Lowercase "i" inside words must survive; the standalone pronoun is
	// rewritten.
	got := Finalize("I think testing is vital.", 50)
	assert.Equal(t, "she think testing is vital.", got)
}
