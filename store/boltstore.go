// Package store persists a local log of submitted transfers in bbolt.
// The chain itself is the source of truth; the log is an audit trail for
// operators running repeated funding rounds.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var bucketTransfers = []byte("transfers")

// Record is one submitted transfer.
type Record struct {
	TxHash     string    // 0x-prefixed transaction hash
	Asset      string    // "native" or "token"
	Total      string    // decimal amount moved to recipients
	Recipients int       // recipient count
	Network    string    // network name from the engine config
	SubmitAt   time.Time // local submission time
}

// TransferLog wraps a bbolt database holding submitted transfer records
// in submission order.
type TransferLog struct {
	db *bbolt.DB
}

// OpenTransferLog opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenTransferLog(dbPath string) (*TransferLog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(bucketTransfers)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}

	return &TransferLog{db: db}, nil
}

// Close closes the underlying database.
func (l *TransferLog) Close() error { return l.db.Close() }

// Append stores a record under the next sequence number.
func (l *TransferLog) Append(rec Record) error {
	if rec.TxHash == "" {
		return fmt.Errorf("%w: tx hash", ErrEmptyField)
	}
	data, err := encodeGob(rec)
	if err != nil {
		return fmt.Errorf("store: encode record: %w", err)
	}
	err = l.db.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(bucketTransfers)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), data)
	})
	if err != nil {
		return fmt.Errorf("store: append record: %w", err)
	}
	return nil
}

// List returns all records in submission order.
func (l *TransferLog) List() ([]Record, error) {
	var records []Record
	err := l.db.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(bucketTransfers).ForEach(func(_, v []byte) error {
			var rec Record
			if err := decodeGob(v, &rec); err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store: list records: %w", err)
	}
	return records, nil
}

// seqKey encodes a sequence number as an 8-byte big-endian key for
// sorted iteration.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
