// Package vin validates and extracts vehicle identification numbers.
package vin

import "strings"

// Alphabet holds every character that may appear in a VIN. The letters
// I, O and Q are excluded because they are too easily confused with
// 1 and 0 on a stamped plate.
const Alphabet = "ABCDEFGHJKLMNPRSTUVWXYZ0123456789"

// Validate reports whether s is a plausible 17-character VIN.
// Matching is case-insensitive; no check digit is computed.
func Validate(s string) bool {
	if len(s) != 17 {
		return false
	}
	for _, r := range strings.ToUpper(s) {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}
