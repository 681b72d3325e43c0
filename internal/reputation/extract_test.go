package reputation

import (
	"reflect"
	"testing"
)

// TestExtractAccountNumbers tests NUBAN extraction.
func TestExtractAccountNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single account",
			text: "Pay to account 0123456789 please",
			want: []string{"0123456789"},
		},
		{
			name: "duplicates removed in first-seen order",
			text: "acct 0123456789 and 9876543210 then 0123456789 again",
			want: []string{"0123456789", "9876543210"},
		},
		{
			name: "eleven digits do not match",
			text: "ref 01234567891",
			want: []string{},
		},
		{
			name: "nine digits do not match",
			text: "ref 012345678",
			want: []string{},
		},
		{
			name: "no digits",
			text: "cash payment only",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractAccountNumbers(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestExtractPhoneNumbers tests Nigerian phone-number extraction.
func TestExtractPhoneNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "local form",
			text: "call 08012345678 for inquiries",
			want: []string{"08012345678"},
		},
		{
			name: "international form",
			text: "call +2348012345678",
			want: []string{"+2348012345678"},
		},
		{
			name: "wrong network prefix does not match",
			text: "call 06012345678",
			want: []string{},
		},
		{
			name: "duplicates removed",
			text: "08012345678 or 08012345678",
			want: []string{"08012345678"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractPhoneNumbers(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestHashAccountNumber tests account-number hashing.
func TestHashAccountNumber(t *testing.T) {
	t.Parallel()

	h1 := HashAccountNumber("0123456789")
	h2 := HashAccountNumber("0123456789")
	h3 := HashAccountNumber("9876543210")

	if h1 != h2 {
		t.Error("hashing must be deterministic")
	}
	if h1 == h3 {
		t.Error("distinct accounts must hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex characters", len(h1))
	}
	if h1 == "0123456789" {
		t.Error("hash must not be the clear account number")
	}
}

// TestMaskAccountNumber tests report-safe masking.
func TestMaskAccountNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		account string
		want    string
	}{
		{name: "full NUBAN", account: "0123456789", want: "012****89"},
		{name: "five characters", account: "12345", want: "123****45"},
		{name: "four characters fully masked", account: "1234", want: "****"},
		{name: "empty", account: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MaskAccountNumber(tt.account); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestMerchantCandidates tests the sliding word window.
func TestMerchantCandidates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "sliding windows over long text",
			text: "ACME Stores Lagos branch",
			want: []string{"ACME Stores Lagos", "Stores Lagos branch"},
		},
		{
			name: "short text is one candidate",
			text: "ACME Stores",
			want: []string{"ACME Stores"},
		},
		{
			name: "empty text has no candidates",
			text: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := merchantCandidates(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
