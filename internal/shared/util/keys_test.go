package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashUserKey(t *testing.T) {
	got := HashUserKey("guest:device-1")

	assert.Equal(t, got, HashUserKey(" guest:device-1 "))
	assert.NotEqual(t, got, HashUserKey("user:device-1"))
	assert.Len(t, got, 2*userKeyBytes)
	assert.Regexp(t, `^[0-9a-f]+$`, got)
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "reply.txt", want: "reply.txt"},
		{in: "  coach/reply.pdf ", want: "coach_reply.pdf"},
		{in: `win\path.docx`, want: "win_path.docx"},
		{in: "tab\there.md", want: "tabhere.md"},
		{in: ".hidden", want: "hidden"},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestSanitizeFileNameRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "../etc/passwd", "a/../b", "/", "..."} {
		_, err := SanitizeFileName(in)
		assert.ErrorIs(t, err, ErrInvalidFileName, in)
	}
}

func TestSanitizeFileNameCapsLength(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("é", 300) + ".pdf")
	require.NoError(t, err)

	assert.Equal(t, maxFileNameLen, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}
