package defrag

import (
	"time"

	"diskmap/internal/hasher"
)

// Result describes one defragmentation run of a disk map.
type Result struct {
	RunID      string
	Digest     hasher.Digest
	Input      string
	Blocks     int
	Occupied   int
	Free       int
	Files      int
	Swaps      int64
	Checksum   int
	ComputedAt time.Time
}
