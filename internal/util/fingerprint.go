package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Fingerprint computes a stable hash identifying one finding site, used for
// baseline suppression across runs.
func Fingerprint(detector, file string, line, column int, context string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%d|%s", detector, file, line, column, context)
	return hex.EncodeToString(h.Sum(nil))
}
