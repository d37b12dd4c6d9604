// internal/serial/serial.go

// Package serial derives the public serial number and the authentication
// fingerprint for a QR code record. Both functions are pure: no I/O, no
// blocking, no store access.
package serial

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Length of a generated serial number.
const Length = 8

// Generate produces an 8-character uppercase serial by truncating the hex
// form of a random 128-bit identifier. Uniqueness is not guaranteed here;
// the lifecycle service retries when the store reports a duplicate.
func Generate() string {
	return strings.ToUpper(uuid.NewString()[:Length])
}

// Fingerprint derives the one-way authentication hash from the auth type and
// data supplied at creation. Values are concatenated in sorted-key order so
// that logically identical payloads always produce the same fingerprint,
// regardless of map iteration order.
func Fingerprint(authType string, authData map[string]string) string {
	keys := make([]string, 0, len(authData))
	for k := range authData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(authType)
	for _, k := range keys {
		sb.WriteString(authData[k])
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
