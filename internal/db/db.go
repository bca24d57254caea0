package db

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"diskmap/internal/defrag"
	"diskmap/internal/hasher"

	"go.etcd.io/bbolt"
)

const (
	ResultsBucket = "results"
)

// ResultDB stores defragmentation results keyed by input digest.
type ResultDB struct {
	db         *bbolt.DB
	mu         sync.RWMutex
	serializer Serializer
}

type Config struct {
	Path       string
	FileMode   os.FileMode
	Options    *bbolt.Options
	Serializer Serializer
}

func NewResultDB(cfg Config) (*ResultDB, error) {
	if cfg.Serializer == nil {
		cfg.Serializer = &GobSerializer{}
	}

	if cfg.FileMode == 0 {
		cfg.FileMode = 0666
	}

	db, err := bbolt.Open(cfg.Path, cfg.FileMode, cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to open result db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(ResultsBucket))
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &ResultDB{
		db:         db,
		serializer: cfg.Serializer,
	}, nil
}

func (rdb *ResultDB) Close() error {
	if rdb.db == nil {
		return ErrNilDB
	}
	return rdb.db.Close()
}

// SaveResult replaces any result stored for the same digest.
func (rdb *ResultDB) SaveResult(res *defrag.Result) error {
	if res == nil {
		return ErrNilResult
	}

	data, err := rdb.serializer.Serialize(res)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	rdb.mu.Lock()
	defer rdb.mu.Unlock()

	return rdb.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(ResultsBucket))
		if err != nil {
			return err
		}
		return bucket.Put(res.Digest[:], data)
	})
}

func (rdb *ResultDB) GetResult(digest hasher.Digest) (*defrag.Result, error) {
	var res defrag.Result

	rdb.mu.RLock()
	defer rdb.mu.RUnlock()

	err := rdb.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(ResultsBucket))
		if bucket == nil {
			return ErrBucketNotFound
		}

		data := bucket.Get(digest[:])
		if data == nil {
			return ErrResultNotFound
		}

		return rdb.serializer.Deserialize(data, &res)
	})

	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetAllResults returns stored results, oldest first.
func (rdb *ResultDB) GetAllResults() ([]*defrag.Result, error) {
	var results []*defrag.Result

	rdb.mu.RLock()
	defer rdb.mu.RUnlock()

	err := rdb.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(ResultsBucket))
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var res defrag.Result
			if err := rdb.serializer.Deserialize(v, &res); err != nil {
				return fmt.Errorf("failed to decode result %x: %w", k, err)
			}
			results = append(results, &res)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ComputedAt.Before(results[j].ComputedAt)
	})
	return results, nil
}

func (rdb *ResultDB) DeleteResult(digest hasher.Digest) error {
	rdb.mu.Lock()
	defer rdb.mu.Unlock()

	return rdb.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(ResultsBucket))
		if bucket == nil {
			return nil
		}
		return bucket.Delete(digest[:])
	})
}
