package reputation

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// accountNumberPattern matches NUBAN account numbers: exactly 10 digits.
var accountNumberPattern = regexp.MustCompile(`\b\d{10}\b`)

// phoneNumberPattern matches Nigerian phone numbers in international
// (+234) or local (0-prefixed) form.
var phoneNumberPattern = regexp.MustCompile(`(?:\+234|\b0)[789]\d{9}\b`)

// merchantWindowSize is the number of consecutive words tried as a
// candidate business name. Registered names are overwhelmingly 1-3
// words; a 3-word sliding window covers them without exploding the
// number of store lookups.
const merchantWindowSize = 3

// ExtractAccountNumbers returns the unique account numbers found in the
// text, in first-seen order.
func ExtractAccountNumbers(text string) []string {
	return dedupe(accountNumberPattern.FindAllString(text, -1))
}

// ExtractPhoneNumbers returns the unique phone numbers found in the
// text, in first-seen order.
func ExtractPhoneNumbers(text string) []string {
	return dedupe(phoneNumberPattern.FindAllString(text, -1))
}

// HashAccountNumber returns the SHA-256 hex digest of the account number.
// Store lookups and inserts always use the hash; the clear number stays
// inside this package.
func HashAccountNumber(accountNumber string) string {
	sum := sha256.Sum256([]byte(accountNumber))
	return hex.EncodeToString(sum[:])
}

// MaskAccountNumber renders an account number safe for reports and logs:
// first three digits, four asterisks, last two digits.
func MaskAccountNumber(accountNumber string) string {
	if len(accountNumber) < 5 {
		return strings.Repeat("*", len(accountNumber))
	}
	return accountNumber[:3] + "****" + accountNumber[len(accountNumber)-2:]
}

// merchantCandidates returns every sliding window of merchantWindowSize
// consecutive words in the text, in order of appearance.
func merchantCandidates(text string) []string {
	words := strings.Fields(text)
	if len(words) < merchantWindowSize {
		if len(words) == 0 {
			return nil
		}
		return []string{strings.Join(words, " ")}
	}

	candidates := make([]string, 0, len(words)-merchantWindowSize+1)
	for i := 0; i+merchantWindowSize <= len(words); i++ {
		candidates = append(candidates, strings.Join(words[i:i+merchantWindowSize], " "))
	}
	return candidates
}

// dedupe removes duplicates while preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
