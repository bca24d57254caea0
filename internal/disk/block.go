package disk

import (
	"strconv"
	"strings"
)

type blockKind uint8

const (
	kindFree blockKind = iota
	kindOccupied
)

// Block is one storage unit of the disk: either owned by a file or free.
// The zero value is a free block.
type Block struct {
	kind   blockKind
	fileID int
}

// Occupied returns a block owned by the file with the given id.
func Occupied(fileID int) Block {
	return Block{kind: kindOccupied, fileID: fileID}
}

// Free returns an empty block.
func Free() Block {
	return Block{kind: kindFree}
}

func (b Block) IsFree() bool {
	return b.kind == kindFree
}

// FileID returns the owning file id. ok is false for a free block.
func (b Block) FileID() (id int, ok bool) {
	if b.kind != kindOccupied {
		return 0, false
	}
	return b.fileID, true
}

func (b Block) String() string {
	if b.IsFree() {
		return string(FreeRune)
	}
	if b.fileID < 10 {
		return strconv.Itoa(b.fileID)
	}
	return "[" + strconv.Itoa(b.fileID) + "]"
}

// Map is the block sequence of a disk. Index is the physical offset.
type Map []Block

type Stats struct {
	Blocks   int
	Occupied int
	Free     int
	Files    int
}

func (m Map) Stats() Stats {
	st := Stats{Blocks: len(m)}
	files := make(map[int]struct{})
	for _, b := range m {
		if id, ok := b.FileID(); ok {
			st.Occupied++
			files[id] = struct{}{}
			continue
		}
		st.Free++
	}
	st.Files = len(files)
	return st
}

// FileIDs returns how many blocks each file owns.
func (m Map) FileIDs() map[int]int {
	counts := make(map[int]int)
	for _, b := range m {
		if id, ok := b.FileID(); ok {
			counts[id]++
		}
	}
	return counts
}

func (m Map) Clone() Map {
	out := make(Map, len(m))
	copy(out, m)
	return out
}

func (m Map) String() string {
	var sb strings.Builder
	sb.Grow(len(m))
	for _, b := range m {
		sb.WriteString(b.String())
	}
	return sb.String()
}
