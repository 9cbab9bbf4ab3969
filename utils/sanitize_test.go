package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", Sanitize(`<script>alert(1)</script>hello`))
	// UGC markup survives in bodies.
	assert.Equal(t, "<p>para</p>", Sanitize("<p>para</p>"))
	assert.Equal(t, "<b>bold</b>", Sanitize(`<b onclick="x()">bold</b>`))
}

func TestSanitizeTitle(t *testing.T) {
	// Titles are plain text: all markup goes, text content stays.
	assert.Equal(t, "bold title", SanitizeTitle("<b>bold</b> title"))
	assert.Equal(t, "plain", SanitizeTitle("plain"))
	assert.Equal(t, "x", SanitizeTitle(`<a href="http://e.com">x</a>`))
}
