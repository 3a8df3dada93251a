package payment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// newReference builds the account reference the gateway echoes back in
// its callback: truncated venue and tab identifiers for human
// readability, plus a random suffix so two attempts against the same
// tab can never collide.
func newReference(venueID, tabID string) string {
	b := make([]byte, 4)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err)
	}
	return fmt.Sprintf("V%s-T%s-%s", trunc(venueID, 6), trunc(tabID, 6), hex.EncodeToString(b))
}

func trunc(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
