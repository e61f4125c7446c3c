package vpnapi

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// AccountIDLength is the number of digits in an account ID, check digit included.
const AccountIDLength = 20

// Static errors for err113 compliance.
var (
	ErrAccountIDLength   = errors.New("account ID has wrong length")
	ErrAccountIDNotDigit = errors.New("account ID must contain only digits")
	ErrAccountIDChecksum = errors.New("account ID checksum mismatch")
)

var verhoeffMultiplication = [10][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
	{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
	{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
	{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
	{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
	{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
	{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
	{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
	{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
}

var verhoeffPermutation = [8][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
	{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
	{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
	{9, 4, 5, 3, 1, 2, 6, 8, 7, 0},
	{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
	{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
	{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
}

var verhoeffInverse = [10]int{0, 4, 3, 2, 1, 5, 6, 7, 8, 9}

// verhoeffChecksum folds digits right to left. offset is 1 when computing a
// check digit that will be appended, 0 when validating a complete number.
func verhoeffChecksum(digits string, offset int) int {
	c := 0

	for i := range len(digits) {
		d := int(digits[len(digits)-1-i] - '0')
		c = verhoeffMultiplication[c][verhoeffPermutation[(i+offset)%8][d]]
	}

	return c
}

// VerhoeffCheckDigit returns the check digit for a string of decimal digits.
func VerhoeffCheckDigit(digits string) byte {
	return byte('0' + verhoeffInverse[verhoeffChecksum(digits, 1)])
}

// GenerateAccountID returns a random account ID: 19 digits followed by a
// Verhoeff check digit.
func GenerateAccountID() (string, error) {
	n, err := rand.Int(rand.Reader, new(big.Int).SetUint64(math.MaxInt64+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate account ID: %w", err)
	}

	digits := fmt.Sprintf("%019d", n.Uint64())

	return digits + string(VerhoeffCheckDigit(digits)), nil
}

// ValidateAccountID checks the length, alphabet and check digit of id.
// Surrounding whitespace is ignored.
func ValidateAccountID(id string) error {
	id = strings.TrimSpace(id)

	if len(id) != AccountIDLength {
		return fmt.Errorf("%w: expected %d digits, found %d", ErrAccountIDLength, AccountIDLength, len(id))
	}

	for _, r := range id {
		if r < '0' || r > '9' {
			return ErrAccountIDNotDigit
		}
	}

	if verhoeffChecksum(id, 0) != 0 {
		return ErrAccountIDChecksum
	}

	return nil
}
