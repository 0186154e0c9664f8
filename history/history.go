// Package history keeps the lines entered in the REPL across sessions.
package history

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/fasthash/fnv1a"
	bolt "go.etcd.io/bbolt"
)

var (
	linesBucket = []byte("lines")
	metaBucket  = []byte("meta")
	lastKey     = []byte("last")
)

type Store struct {
	db   *bolt.DB
	size int
}

// Open opens or creates the store at path. At most size lines are kept, zero
// meaning no limit.
func Open(path string, size int) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{linesBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	s := Store{
		db:   db,
		size: size,
	}
	return &s, nil
}

// Load gives back the stored lines, oldest first.
func (s *Store) Load() ([]string, error) {
	var list []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(linesBucket).ForEach(func(_, v []byte) error {
			list = append(list, string(v))
			return nil
		})
	})
	return list, err
}

// Append records line unless it is blank or equal to the previous one.
func (s *Store) Append(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	sum := make([]byte, 8)
	binary.BigEndian.PutUint64(sum, fnv1a.HashString64(line))

	return s.db.Update(func(tx *bolt.Tx) error {
		var (
			lines = tx.Bucket(linesBucket)
			meta  = tx.Bucket(metaBucket)
		)
		if last := meta.Get(lastKey); last != nil && string(last) == string(sum) {
			return nil
		}
		seq, err := lines.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		if err := lines.Put(key, []byte(line)); err != nil {
			return err
		}
		if err := meta.Put(lastKey, sum); err != nil {
			return err
		}
		return s.trim(lines)
	})
}

func (s *Store) trim(b *bolt.Bucket) error {
	if s.size <= 0 {
		return nil
	}
	var (
		c     = b.Cursor()
		extra = -s.size
	)
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		extra++
	}
	for k, _ := c.First(); k != nil && extra > 0; k, _ = c.First() {
		if err := c.Delete(); err != nil {
			return err
		}
		extra--
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
