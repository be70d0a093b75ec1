// Package payload turns command-line arguments into payload bytes and
// renders recovered payloads for display.
package payload

import (
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"
)

// Load returns the contents of the file named by arg when it names an
// existing regular file, and the bytes of arg itself otherwise.
func Load(arg string) ([]byte, error) {
	info, err := os.Stat(arg)
	if err != nil || !info.Mode().IsRegular() {
		return []byte(arg), nil
	}
	b, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read payload %s: %w", arg, err)
	}
	return b, nil
}

// IsText reports whether b is valid UTF-8.
func IsText(b []byte) bool {
	return utf8.Valid(b)
}

// Describe returns b as text when it is valid UTF-8 and as a quoted Go
// string literal otherwise.
func Describe(b []byte) string {
	if IsText(b) {
		return string(b)
	}
	return strconv.Quote(string(b))
}
