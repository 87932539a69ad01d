package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketEntities     = []byte("entities")
	bucketIdxStatus    = []byte("entities_idx_status")
	bucketIdxModified  = []byte("entities_idx_modified")
	bucketQueue        = []byte("queue")
	bucketIdxQueueTime = []byte("queue_idx_time")
	bucketSession      = []byte("session")
)

// Storage represents BoltDB-backed local store implementation.
// Снапшоты сущностей и очередь мутаций живут в одном файле,
// каждая операция выполняется в одной bolt-транзакции.
type Storage struct {
	db       *bbolt.DB
	initOnce sync.Once
	initErr  error
}

// New opens the BoltDB file and initializes the schema.
// dbPath is the path to the BoltDB database file.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}

	if err := storage.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

// Init creates the buckets if they don't exist yet.
// Идемпотентен и безопасен при конкурентных вызовах: схему создает только
// первый вызов, остальные получают тот же результат.
func (s *Storage) Init(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.db.Update(func(tx *bbolt.Tx) error {
			buckets := [][]byte{
				bucketEntities,
				bucketIdxStatus,
				bucketIdxModified,
				bucketQueue,
				bucketIdxQueueTime,
				bucketSession,
			}
			for _, name := range buckets {
				if _, err := tx.CreateBucketIfNotExists(name); err != nil {
					return fmt.Errorf("failed to create bucket %s: %w", name, err)
				}
			}
			return nil
		})
	})
	return s.initErr
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// i64ToBytes конвертирует int64 в big-endian байты для сортируемых ключей.
func i64ToBytes(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

// indexKey строит составной ключ вторичного индекса: prefix + 0x00 + id.
func indexKey(prefix []byte, id string) []byte {
	key := make([]byte, 0, len(prefix)+1+len(id))
	key = append(key, prefix...)
	key = append(key, 0)
	key = append(key, id...)
	return key
}
