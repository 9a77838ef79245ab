package buildspec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseExtensions(t *testing.T) {
	tests := []struct {
		pattern  string
		expected []string
	}{
		{pattern: `\.css$`, expected: []string{".css"}},
		{pattern: `\.(svg|png|jpg|gif)`, expected: []string{".svg", ".png", ".jpg", ".gif"}},
		{pattern: `\.jsx?$`, expected: []string{".jsx", ".js"}},
		{pattern: `\.(png|jpe?g|gif)$`, expected: []string{".png", ".jpeg", ".jpg", ".gif"}},
		{pattern: `\.s[ac]ss$`, expected: []string{".sass", ".scss"}},
		{pattern: `\.(?:woff2?|ttf)$`, expected: []string{".woff2", ".woff", ".ttf"}},
		{pattern: `\.mp[3-4]$`, expected: []string{".mp3", ".mp4"}},
		{pattern: `/\.css$/`, expected: []string{".css"}},
		{pattern: `/\.(PNG|png)$/i`, expected: []string{".png"}},
		{pattern: `.css`, expected: []string{".css"}},
		{pattern: `txt`, expected: []string{".txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			exts, ok := parseExtensions(tt.pattern)
			require.True(t, ok)
			require.Equal(t, tt.expected, exts)
		})
	}
}

func TestParseExtensions_Rejected(t *testing.T) {
	for _, pattern := range []string{
		"",
		`^src/.*`,
		`\.`,
		`\.(js`,
		`\.js)`,
		`\.(js)?$`,
		`\.[]css`,
		`\.[z-a]`,
		`\.css|\.scss`,
		`\.[a-z][a-z][a-z]`,
		`//`,
	} {
		t.Run(pattern, func(t *testing.T) {
			_, ok := parseExtensions(pattern)
			require.False(t, ok)
		})
	}
}
