package database

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/amaumene/animesearch/internal/constants"
)

const (
	// Default database file permissions
	dbFileMode = 0600
	dbDirMode  = 0755

	// Default database filename
	defaultDBFile = "animesearch.db"

	openTimeout = time.Second
)

var probesBucket = []byte("probes")

// BoltDB implements the Database interface using BoltDB.
// Probes live in one sub-bucket per provider, keyed by a big-endian
// sequence so cursor order is insertion order.
type BoltDB struct {
	db         *bolt.DB
	maxHistory int
}

// NewBolt creates a new BoltDB database instance.
// If dbPath is empty, uses the default database file in current directory.
func NewBolt(dbPath string) (*BoltDB, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", defaultDBFile)
	}

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirMode); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	db, err := bolt.Open(dbPath, dbFileMode, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open bolt database")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(probesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create probes bucket")
	}

	return &BoltDB{db: db, maxHistory: constants.MaxProbeHistory}, nil
}

// Close closes the database connection.
func (b *BoltDB) Close() error {
	return b.db.Close()
}

// RecordProbe appends a probe result and drops the oldest entries beyond
// the history limit.
func (b *BoltDB) RecordProbe(provider string, ok bool, at time.Time) error {
	if provider == "" {
		return errors.New("provider name is required")
	}
	data, err := json.Marshal(ProbeRecord{Provider: provider, OK: ok, At: at.UTC()})
	if err != nil {
		return errors.Wrap(err, "failed to encode probe")
	}

	err = b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.Bucket(probesBucket).CreateBucketIfNotExists([]byte(provider))
		if err != nil {
			return err
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		if err := bucket.Put(itob(seq), data); err != nil {
			return err
		}
		return trim(bucket, b.maxHistory)
	})
	return errors.Wrapf(err, "failed to record probe for %s", provider)
}

// LastProbes returns up to n probes for provider, newest first.
// An unknown provider yields an empty slice.
func (b *BoltDB) LastProbes(provider string, n int) ([]ProbeRecord, error) {
	records := []ProbeRecord{}
	if n <= 0 {
		return records, nil
	}

	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(probesBucket).Bucket([]byte(provider))
		if bucket == nil {
			return nil
		}
		c := bucket.Cursor()
		for k, v := c.Last(); k != nil && len(records) < n; k, v = c.Prev() {
			var rec ProbeRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return errors.Wrapf(err, "corrupt probe %d", binary.BigEndian.Uint64(k))
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read probes for %s", provider)
	}
	return records, nil
}

// Providers lists providers with at least one recorded probe, sorted by name.
func (b *BoltDB) Providers() ([]string, error) {
	var names []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(probesBucket).ForEachBucket(func(k []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list providers")
	}
	sort.Strings(names)
	return names, nil
}

func trim(bucket *bolt.Bucket, limit int) error {
	if limit <= 0 {
		return nil
	}
	c := bucket.Cursor()
	count := 0
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		count++
	}
	excess := count - limit
	if excess <= 0 {
		return nil
	}
	var stale [][]byte
	for k, _ := c.First(); k != nil && len(stale) < excess; k, _ = c.Next() {
		stale = append(stale, append([]byte(nil), k...))
	}
	for _, k := range stale {
		if err := bucket.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
