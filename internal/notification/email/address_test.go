package email

import "testing"

func TestFormatFrom(t *testing.T) {
	tests := []struct {
		name        string
		coupleNames string
		fromAddress string
		fromDomain  string
		want        string
	}{
		{
			name:        "explicit address",
			coupleNames: "Ana & Ben",
			fromAddress: "rsvp@anaben.com",
			want:        "Wedding of Ana & Ben <rsvp@anaben.com>",
		},
		{
			name:        "derived from domain",
			coupleNames: "Ana & Ben",
			fromDomain:  "anaben.com",
			want:        "Wedding of Ana & Ben <noreply@anaben.com>",
		},
		{
			name:        "no configuration",
			coupleNames: "Ana & Ben",
			want:        "Wedding of Ana & Ben <noreply@example.com>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatFrom(tt.coupleNames, tt.fromAddress, tt.fromDomain)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSplitAddress(t *testing.T) {
	name, addr := SplitAddress("Wedding of Ana & Ben <rsvp@anaben.com>")
	if name != "Wedding of Ana & Ben" {
		t.Fatalf("unexpected name %q", name)
	}
	if addr != "rsvp@anaben.com" {
		t.Fatalf("unexpected address %q", addr)
	}

	name, addr = SplitAddress("rsvp@anaben.com")
	if name != "" {
		t.Fatalf("expected empty name, got %q", name)
	}
	if addr != "rsvp@anaben.com" {
		t.Fatalf("unexpected address %q", addr)
	}
}
