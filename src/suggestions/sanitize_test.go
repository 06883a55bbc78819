package suggestions

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Add a music channel", SanitizeText("  Add a <b>music</b> channel  "))
	assert.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
	assert.Equal(t, "", SanitizeText("   \n\t"))
	assert.Equal(t, "rock & roll > jazz", SanitizeText("rock & roll > jazz"))
	assert.Equal(t, "it's fine", SanitizeText("it's fine"))
}

func TestSanitizeTextTruncates(t *testing.T) {
	long := strings.Repeat("é", MaxTextRunes+50)
	got := SanitizeText(long)
	assert.Equal(t, MaxTextRunes, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
}
