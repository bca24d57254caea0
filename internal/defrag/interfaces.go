package defrag

import "diskmap/internal/hasher"

type ResultStore interface {
	SaveResult(res *Result) error
	GetResult(digest hasher.Digest) (*Result, error)
	GetAllResults() ([]*Result, error)
	Close() error
}

type InputHasher interface {
	Hash(input string) hasher.Digest
}
