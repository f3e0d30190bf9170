package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateCheck(t *testing.T) {
	gate := NewGate(150, DefaultDenylist)

	tests := []struct {
		name string
		text string
		want error
	}{
		{"plain", "Hi! Kape tayo sa AS steps?", nil},
		{"exactly 150", strings.Repeat("a", 150), nil},
		{"151", strings.Repeat("a", 151), ErrMessageTooLong},
		{"150 runes of multibyte", strings.Repeat("ñ", 150), nil},
		{"emoji over limit", strings.Repeat("💘", 151), ErrMessageTooLong},
		{"empty", "", ErrEmptyMessage},
		{"whitespace", "   \n", ErrEmptyMessage},
		{"profane", "what the FUCK", ErrProfanity},
		{"profane filipino", "Tangina ang init", ErrProfanity},
		{"substring match", "shitake mushrooms", ErrProfanity},
		{"too long wins over profanity", strings.Repeat("shit ", 40), ErrMessageTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Check(tt.text))
		})
	}
}

func TestNewGateNormalizesDenylist(t *testing.T) {
	gate := NewGate(10, []string{"  BAD ", ""})
	assert.True(t, gate.Profane("so bad"))
	assert.False(t, gate.Profane("fine"))
}
