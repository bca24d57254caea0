package disk

import (
	"fmt"
	"strings"
)

// TrimLineEnding drops one trailing "\n" or "\r\n", as left by reading a
// disk map from a file or stdin. Parse itself accepts digits only.
func TrimLineEnding(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}

// Parse expands a run-length encoded disk map. Digits alternate between a
// file run and a free run, starting with a file run. File ids count file runs
// from 0, including empty ones. Any character outside 0-9 is rejected.
func Parse(input string) (Map, error) {
	size := 0
	for idx, c := range input {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrMalformedInput, c, idx)
		}
		size += int(c - '0')
	}

	m := make(Map, 0, size)
	fileID := 0
	for idx := 0; idx < len(input); idx++ {
		n := int(input[idx] - '0')
		if idx%2 == 0 {
			for k := 0; k < n; k++ {
				m = append(m, Occupied(fileID))
			}
			fileID++
			continue
		}
		for k := 0; k < n; k++ {
			m = append(m, Free())
		}
	}
	return m, nil
}
