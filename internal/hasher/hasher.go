package hasher

import (
	"encoding/hex"

	"diskmap/internal/disk"

	"golang.org/x/crypto/blake2b"
)

type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest decodes the hex form produced by Digest.String.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, err
	}
	if len(b) != len(d) {
		return d, ErrInvalidDigest
	}
	copy(d[:], b)
	return d, nil
}

// InputHasher identifies disk maps by content. Line endings are ignored, so
// a map typed on the command line and the same map read from a file share a
// digest.
type InputHasher struct{}

func NewInputHasher() *InputHasher {
	return &InputHasher{}
}

func (h *InputHasher) Hash(input string) Digest {
	return blake2b.Sum256([]byte(disk.TrimLineEnding(input)))
}
