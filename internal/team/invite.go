package team

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// inviteCodeLength is the canonical invite code length after normalization.
const inviteCodeLength = 6

// inviteAlphabet excludes characters that read ambiguously (I, L, O, 0, 1).
const inviteAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NormalizeInviteCode uppercases the input and strips every non-alphanumeric
// character, so "x7-y2z9" and "X7Y2Z9" are the same code. Results that are
// not exactly six characters fail with ErrInvalidInviteCode.
func NormalizeInviteCode(code string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	normalized := b.String()
	if len(normalized) != inviteCodeLength {
		return "", ErrInvalidInviteCode
	}
	return normalized, nil
}

// generateInviteCode produces a random six-character code from the
// unambiguous alphabet.
func generateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating invite code: %w", err)
	}

	out := make([]byte, inviteCodeLength)
	for i, b := range buf {
		out[i] = inviteAlphabet[int(b)%len(inviteAlphabet)]
	}
	return string(out), nil
}
