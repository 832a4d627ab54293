package intake

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cmercer/camdeck/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketIntakes = []byte("intakes")

// Ledger keeps a durable, append-only record of completed intake
// cycles in a local BoltDB file.
type Ledger struct {
	db *bolt.DB
}

// OpenLedger opens (or creates) the ledger database at path.
func OpenLedger(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketIntakes)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Ledger{db: db}, nil
}

// Close releases the database file.
func (l *Ledger) Close() error { return l.db.Close() }

// Record appends one intake record.
func (l *Ledger) Record(rec domain.IntakeRecord) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketIntakes)

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put(itob(seq), data)
	})
}

// Recent returns up to n most recent records, newest first.
func (l *Ledger) Recent(n int) ([]domain.IntakeRecord, error) {
	var records []domain.IntakeRecord

	err := l.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketIntakes).Cursor()
		for k, v := c.Last(); k != nil && len(records) < n; k, v = c.Prev() {
			var rec domain.IntakeRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue // tolerate a corrupt row rather than losing the history
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
