package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
		{"Mixed.Case@Domain.ORG", "mixed.case@domain.org"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Doe", "John Doe"},
		{"  John Doe  ", "John Doe"},
		{"", ""},
		{"   ", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
		{"lowercase name", "lowercase name"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUsername(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"jdoe", "jdoe"},
		{"JDoe", "jdoe"},
		{"  JDOE  ", "jdoe"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Username(tt.input)
			if got != tt.want {
				t.Errorf("Username(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnrollment(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"en2024-015", "EN2024-015"},
		{"  EN2024-015 ", "EN2024-015"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Enrollment(tt.input)
			if got != tt.want {
				t.Errorf("Enrollment(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
