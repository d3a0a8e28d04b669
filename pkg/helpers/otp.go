package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

// OTPLength is the number of digits in a password reset code.
const OTPLength = 4

// GenOTPCode generates a random numeric code of the given length.
// Leading zeros are kept.
func GenOTPCode(length int) (string, error) {
	var sb strings.Builder
	sb.Grow(length)
	ten := big.NewInt(10)
	for i := 0; i < length; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String(), nil
}

// GenVerificationToken returns n random bytes as a hex string.
func GenVerificationToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
