package utils

import (
	"crypto/rand"
	"math/big"
	"os"
	"strings"
)

const referenceAlphabet = "0123456789ABCDEFGHJKMNPQRSTUVWXYZ" // no I/L/O

// NewReferenceCode returns a short human-readable reservation reference like
// "MR-7K2Q9XF4". Uniqueness is probabilistic; the column is indexed but not
// unique, lookups always go by primary key.
func NewReferenceCode() string {
	var b strings.Builder
	b.WriteString("MR-")
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := 0; i < 8; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the process is in serious trouble;
			// fall back to a fixed character rather than panic in a request.
			b.WriteByte('0')
			continue
		}
		b.WriteByte(referenceAlphabet[n.Int64()])
	}
	return b.String()
}

// EnvOrDefault returns the value of key or fallback when unset/blank.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
