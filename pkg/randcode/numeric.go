package randcode

import (
	"crypto/rand"
	"math/big"
)

var digits = []rune("0123456789")

// GenerateNumericCode returns a fixed-width decimal string drawn from
// crypto/rand. Leading zeros are allowed, every digit is independent.
func GenerateNumericCode(length int) (string, error) {
	b := make([]rune, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}

		b[i] = digits[n.Int64()]
	}

	return string(b), nil
}
