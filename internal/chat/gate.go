// internal/chat/gate.go

package chat

import (
	"strings"
	"unicode/utf8"
)

// Gate holds the content checks that need no database
type Gate struct {
	maxLength int
	denylist  []string
}

// NewGate creates a gate over a lowercase denylist
func NewGate(maxLength int, denylist []string) *Gate {
	lowered := make([]string, 0, len(denylist))
	for _, w := range denylist {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			lowered = append(lowered, w)
		}
	}
	return &Gate{maxLength: maxLength, denylist: lowered}
}

// Check applies length, emptiness and profanity in that order
func (g *Gate) Check(text string) error {
	if utf8.RuneCountInString(text) > g.maxLength {
		return ErrMessageTooLong
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if g.Profane(text) {
		return ErrProfanity
	}
	return nil
}

// Profane is a case-insensitive substring match against the denylist
func (g *Gate) Profane(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range g.denylist {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
