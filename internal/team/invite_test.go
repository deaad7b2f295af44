package team

import (
	"strings"
	"testing"
)

func TestNormalizeInviteCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"already normalized", "X7Y2Z9", "X7Y2Z9", nil},
		{"lowercase with dash", "x7-y2z9", "X7Y2Z9", nil},
		{"surrounding whitespace", "  x7y2z9  ", "X7Y2Z9", nil},
		{"punctuation stripped", "x7.y2!z9", "X7Y2Z9", nil},
		{"too short after stripping", "x7-y2z", "", ErrInvalidInviteCode},
		{"too long", "X7Y2Z9A", "", ErrInvalidInviteCode},
		{"empty", "", "", ErrInvalidInviteCode},
		{"only punctuation", "---", "", ErrInvalidInviteCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeInviteCode(tt.input)
			if err != tt.wantErr {
				t.Fatalf("NormalizeInviteCode(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeInviteCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateInviteCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := generateInviteCode()
		if err != nil {
			t.Fatalf("generateInviteCode() error = %v", err)
		}
		if len(code) != inviteCodeLength {
			t.Fatalf("expected %d-character code, got %q", inviteCodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(inviteAlphabet, r) {
				t.Fatalf("code %q contains character outside alphabet", code)
			}
		}
		// Generated codes survive their own normalization unchanged.
		normalized, err := NormalizeInviteCode(code)
		if err != nil || normalized != code {
			t.Fatalf("code %q did not round-trip normalization: %v", code, err)
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Errorf("expected mostly unique codes, got %d distinct of 100", len(seen))
	}
}
