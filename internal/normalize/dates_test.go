package normalize

import "testing"

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"abbrev month two digit year", "13-Nov-24", "13/11/2024", true},
		{"slash format passes through", "13/11/2024", "13/11/2024", true},
		{"iso format", "2024-11-13", "13/11/2024", true},
		{"unpadded slash", "5/1/2024", "05/01/2024", true},
		{"garbage", "sometime last week", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatDate(tt.in)
			if ok != tt.ok {
				t.Fatalf("FormatDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDueDate(t *testing.T) {
	tests := []struct {
		name    string
		invoice string
		want    string
	}{
		{"leap year february", "15/01/2024", "29/02/2024"},
		{"december rolls into next year", "05/12/2024", "31/01/2025"},
		{"thirty day month", "10/03/2024", "30/04/2024"},
		{"end of month invoice", "31/01/2024", "29/02/2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DueDate(tt.invoice)
			if !ok {
				t.Fatalf("DueDate(%q) not ok", tt.invoice)
			}
			if got != tt.want {
				t.Errorf("DueDate(%q) = %q, want %q", tt.invoice, got, tt.want)
			}
		})
	}

	if _, ok := DueDate("Invalid Date"); ok {
		t.Error("DueDate on sentinel input should not be ok")
	}
}
