package disk

// Checksum sums position*fileID from the start of the map and stops at the
// first free block. It equals FullChecksum only for a compacted map.
func Checksum(m Map) int {
	total := 0
	for pos, b := range m {
		id, ok := b.FileID()
		if !ok {
			return total
		}
		total += pos * id
	}
	return total
}

// FullChecksum sums position*fileID over every file block of the map.
func FullChecksum(m Map) int {
	total := 0
	for pos, b := range m {
		if id, ok := b.FileID(); ok {
			total += pos * id
		}
	}
	return total
}
