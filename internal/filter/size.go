package filter

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseSize parses a human-readable size string into bytes.
// A bare K/M/G/T/P suffix uses powers of 1024 (matching rsync), so "1M" is
// 1048576. Explicit units are passed through: "10MB" is 10000000 and
// "10MiB" is 10485760.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	normalized := s
	last := s[len(s)-1]
	if strings.ContainsRune("kKmMgGtTpP", rune(last)) {
		if len(s) == 1 {
			return 0, fmt.Errorf("invalid size: %q", s)
		}
		normalized = s[:len(s)-1] + strings.ToUpper(string(last)) + "iB"
	}

	n, err := humanize.ParseBytes(normalized)
	if err != nil {
		return 0, fmt.Errorf("invalid size: %q", s)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("size too large: %q", s)
	}
	return int64(n), nil //nolint:gosec // G115: bounded above
}
