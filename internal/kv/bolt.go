package kv

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	stringsBucket = []byte("strings")
	listsBucket   = []byte("lists")
)

// Bolt is a Backend persisted in a single bbolt file.
// Scalar values live in the "strings" bucket; every list is a nested bucket
// under "lists" keyed by a big-endian sequence number, so cursor order is
// append order. Every operation runs in its own transaction.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt initializes or opens a Bolt backend at the given path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(createBuckets); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Bolt{db: db}, nil
}

func createBuckets(tx *bolt.Tx) error {
	for _, name := range [][]byte{stringsBucket, listsBucket} {
		if _, err := tx.CreateBucketIfNotExists(name); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (b *Bolt) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *Bolt) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stringsBucket).Put([]byte(key), value)
	})
}

func (b *Bolt) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	if err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(stringsBucket).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid for the life of the transaction.
		out = append([]byte{}, v...)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Bolt) Incr(ctx context.Context, key string, amount int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	err := b.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket(stringsBucket)
		if v := bk.Get([]byte(key)); v != nil {
			cur, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return fmt.Errorf("kv: value at %q is not an integer", key)
			}
			n = cur
		}
		n += amount
		return bk.Put([]byte(key), strconv.AppendInt(nil, n, 10))
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (b *Bolt) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var length int64
	err := b.db.Update(func(tx *bolt.Tx) error {
		list, err := tx.Bucket(listsBucket).CreateBucketIfNotExists([]byte(key))
		if err != nil {
			return err
		}
		seq, err := list.NextSequence()
		if err != nil {
			return err
		}
		var k [8]byte
		binary.BigEndian.PutUint64(k[:], seq)
		if err := list.Put(k[:], value); err != nil {
			return err
		}
		// Items are never removed individually, so the sequence is the length.
		length = int64(seq)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return length, nil
}

func (b *Bolt) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out [][]byte
	err := b.db.View(func(tx *bolt.Tx) error {
		list := tx.Bucket(listsBucket).Bucket([]byte(key))
		if list == nil {
			return nil
		}
		var all [][]byte
		if err := list.ForEach(func(_, v []byte) error {
			all = append(all, append([]byte{}, v...))
			return nil
		}); err != nil {
			return err
		}
		lo, hi, ok := rangeBounds(int64(len(all)), start, stop)
		if ok {
			out = all[lo:hi]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FlushDB drops every key and list.
func (b *Bolt) FlushDB(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{stringsBucket, listsBucket} {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		return createBuckets(tx)
	})
}
