package validation

import (
	"fmt"
)

// nipWeights are the positional weights applied to the first nine digits
// of a Polish NIP.
var nipWeights = [9]int{6, 5, 7, 2, 3, 4, 5, 6, 7}

// FormatError rejects a tax identifier whose shape does not match the
// country rule (wrong length or non-digit characters).
type FormatError struct {
	Country string
	Digits  int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("tax ID for %s must consist of exactly %d digits", e.Country, e.Digits)
}

// ChecksumError rejects a well-formed NIP whose control digit does not
// match the weighted sum.
type ChecksumError struct{}

func (e *ChecksumError) Error() string {
	return "invalid NIP checksum"
}

// validateNIPChecksum verifies the control digit of a cleaned 10-digit NIP.
// The weighted sum of the first nine digits mod 11 must equal the tenth
// digit; a remainder of 10 is treated as 0.
func validateNIPChecksum(nip string) error {
	// Some repeated-digit strings satisfy the arithmetic (1111111111 sums
	// to 45, 45 mod 11 = 1) but no such NIP is ever issued.
	if allSameDigit(nip) {
		return &ChecksumError{}
	}

	sum := 0
	for i, w := range nipWeights {
		sum += w * int(nip[i]-'0')
	}
	checksum := sum % 11
	if checksum == 10 {
		checksum = 0
	}
	if checksum != int(nip[9]-'0') {
		return &ChecksumError{}
	}
	return nil
}

func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
