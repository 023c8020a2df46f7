package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeSpan = 900000

// Generate returns a 6-digit numeric code uniformly sampled from
// [100000, 999999].
func Generate() string {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		// crypto/rand only fails when the platform source is broken.
		panic(fmt.Sprintf("otp: read random source: %v", err))
	}
	return fmt.Sprintf("%d", n.Int64()+100000)
}
