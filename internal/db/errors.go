package db

import (
	"errors"

	"diskmap/internal/defrag"
)

var (
	ErrResultNotFound = defrag.ErrResultNotFound
	ErrBucketNotFound = errors.New("bucket not found")
	ErrNilDB          = errors.New("database connection is nil")
	ErrNilResult      = errors.New("result is nil")
)
