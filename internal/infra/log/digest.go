package log

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

func digest(s string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(s)))))[:16]
}
