package urlhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "adds https scheme",
			input:    "example.com/page",
			expected: "https://example.com/page",
		},
		{
			name:     "keeps existing scheme",
			input:    "http://example.com",
			expected: "http://example.com",
		},
		{
			name:     "lowercases host",
			input:    "https://EXAMPLE.com/Page",
			expected: "https://example.com/Page",
		},
		{
			name:    "empty URL",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSameURL(t *testing.T) {
	assert.True(t, SameURL("https://s/page", "https://s/page/"))
	assert.True(t, SameURL("https://s/page/", "https://s/page"))
	assert.True(t, SameURL("https://s/page", "https://s/page"))
	assert.False(t, SameURL("https://s/page", "https://s/other"))
	assert.False(t, SameURL("https://s/page//", "https://s/page"))
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "https://s/product/ABC", JoinPath("https://s", "product", "ABC"))
	assert.Equal(t, "https://s/product/ABC", JoinPath("https://s/", "product", "ABC"))
	assert.Equal(t, "https://s/catalog/x", JoinPath("https://s", "catalog", "x/"))
}
