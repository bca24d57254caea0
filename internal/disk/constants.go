package disk

const (
	// SampleInput is the reference disk map; its checksum is 1928.
	SampleInput = "2333133121414131402"

	FreeRune = '.'
)
