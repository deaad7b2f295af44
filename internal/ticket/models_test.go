package ticket

import (
	"testing"
)

func strPtr(s string) *string { return &s }

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateInput
		wantErr error
	}{
		{
			name:    "valid input",
			input:   CreateInput{ProjectID: "p1", Title: "Fix login", AssignedToUserID: "u1", Priority: "high"},
			wantErr: nil,
		},
		{
			name:    "defaults applied",
			input:   CreateInput{ProjectID: "p1", Title: "Fix login", AssignedToUserID: "u1"},
			wantErr: nil,
		},
		{
			name:    "missing project",
			input:   CreateInput{Title: "Fix login", AssignedToUserID: "u1"},
			wantErr: ErrProjectRequired,
		},
		{
			name:    "whitespace-only title",
			input:   CreateInput{ProjectID: "p1", Title: "   ", AssignedToUserID: "u1"},
			wantErr: ErrTitleRequired,
		},
		{
			name:    "missing assignee",
			input:   CreateInput{ProjectID: "p1", Title: "Fix login"},
			wantErr: ErrAssigneeRequired,
		},
		{
			name:    "invalid priority",
			input:   CreateInput{ProjectID: "p1", Title: "Fix login", AssignedToUserID: "u1", Priority: "urgent"},
			wantErr: ErrPriorityInvalid,
		},
		{
			name:    "invalid status",
			input:   CreateInput{ProjectID: "p1", Title: "Fix login", AssignedToUserID: "u1", Status: "done"},
			wantErr: ErrStatusInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreate(&tt.input)
			if err != tt.wantErr {
				t.Errorf("ValidateCreate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCreate_Defaults(t *testing.T) {
	in := CreateInput{ProjectID: "p1", Title: "  Fix login  ", AssignedToUserID: "u1"}
	if err := ValidateCreate(&in); err != nil {
		t.Fatalf("ValidateCreate() error = %v", err)
	}
	if in.Title != "Fix login" {
		t.Errorf("expected trimmed title, got %q", in.Title)
	}
	if in.Priority != "medium" {
		t.Errorf("expected default priority medium, got %q", in.Priority)
	}
	if in.Status != "open" {
		t.Errorf("expected default status open, got %q", in.Status)
	}
}

func TestValidateUpdate(t *testing.T) {
	tests := []struct {
		name    string
		input   UpdateInput
		wantErr error
	}{
		{"empty update", UpdateInput{}, nil},
		{"valid status", UpdateInput{Status: strPtr("close")}, nil},
		{"blank title", UpdateInput{Title: strPtr("  ")}, ErrTitleRequired},
		{"bad priority", UpdateInput{Priority: strPtr("asap")}, ErrPriorityInvalid},
		{"bad status", UpdateInput{Status: strPtr("archived")}, ErrStatusInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpdate(&tt.input)
			if err != tt.wantErr {
				t.Errorf("ValidateUpdate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
