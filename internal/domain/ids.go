package domain

import (
	"crypto/rand"
	"regexp"
	"strconv"
	"time"
)

const orderIDPrefix = "ORD-"
const orderIDSuffixLen = 5

const suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var orderIDPattern = regexp.MustCompile(`^ORD-[0-9a-z]+[0-9A-Z]{5}$`)

// NewOrderID builds an order identifier from the given instant: a fixed
// prefix, the millisecond timestamp in base 36, and a short random
// uppercase suffix. Generated once per draft and reused across retries.
func NewOrderID(now time.Time) string {
	return orderIDPrefix + strconv.FormatInt(now.UnixMilli(), 36) + RandomSuffix(orderIDSuffixLen)
}

// ValidOrderID reports whether the identifier matches the generated format.
func ValidOrderID(id string) bool {
	return orderIDPattern.MatchString(id)
}

// RandomSuffix returns n random characters drawn from the uppercase
// alphanumeric alphabet. Also used for storage path de-duplication.
func RandomSuffix(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	for i := range b {
		b[i] = suffixAlphabet[int(b[i])%len(suffixAlphabet)]
	}
	return string(b)
}
