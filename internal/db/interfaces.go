package db

import (
	"diskmap/internal/defrag"
	"diskmap/internal/hasher"
)

// ResultStorage is the full store surface, including deletion, which the
// runner itself never needs.
type ResultStorage interface {
	defrag.ResultStore
	DeleteResult(digest hasher.Digest) error
}

var _ ResultStorage = (*ResultDB)(nil)
