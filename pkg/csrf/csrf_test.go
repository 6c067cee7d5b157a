package csrf

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Regexp(t, `^[0-9a-f]{64}$`, a)
	assert.NotEqual(t, a, b)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken()
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		expected string
		want     bool
	}{
		{"identical", token, token, true},
		{"empty token", "", token, false},
		{"empty expected", token, "", false},
		{"both empty", "", "", false},
		{"length mismatch", token[:63], token, false},
		{"last byte differs", token[:63] + flip(token[63]), token, false},
		{"first byte differs", flip(token[0]) + token[1:], token, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateToken(tt.token, tt.expected))
		})
	}
}

func flip(c byte) string {
	if c == 'a' {
		return "b"
	}
	return "a"
}

func TestNewIdentifier(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000123)
	id := newIdentifier(now)
	assert.Regexp(t, regexp.MustCompile(`^user_1700000000123_[0-9a-f]{9}$`), id)

	assert.True(t, strings.HasPrefix(NewIdentifier(), "user_"))
	assert.NotEqual(t, NewIdentifier(), NewIdentifier())
}
