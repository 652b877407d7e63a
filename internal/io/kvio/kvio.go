package kvio

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v2"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
	"github.com/gnames/screenload/internal/ent/kv"
)

type kvio struct {
	dir string
	kv  *badger.DB
	enc gnfmt.Encoder
}

// New returns a new instance of grade overrides store.
func New(dir string) (kv.Overrides, error) {
	res := kvio{
		dir: dir,
		enc: gnfmt.GNgob{},
	}

	err := gnsys.MakeDir(dir)
	if err != nil {
		slog.Error("Cannot create directory", "error", err, "dir", dir)
		return nil, err
	}

	return &res, nil
}

// Open opens a key-value store.
func (k *kvio) Open() error {
	if k.kv != nil {
		slog.Warn("Key-value store is already open")
		return nil
	}
	options := badger.DefaultOptions(k.dir)
	options.Logger = nil

	bdb, err := badger.Open(options)
	if err != nil {
		return err
	}
	k.kv = bdb
	return nil
}

// Close closes a key-value store.
func (k *kvio) Close() error {
	if k.kv == nil {
		return nil
	}
	err := k.kv.Close()
	k.kv = nil
	return err
}

// Reset removes all overrides.
func (k *kvio) Reset() error {
	if k.kv != nil {
		return errors.New("cannot reset open key-value store")
	}
	return gnsys.CleanDir(k.dir)
}

// SetGrades saves grades, splitting the work into several transactions
// when one gets too big.
func (k *kvio) SetGrades(grades map[int]int) error {
	if k.kv == nil {
		return errors.New("key-value store is not open")
	}
	txn := k.kv.NewTransaction(true)
	defer func() { txn.Discard() }()

	for id, gr := range grades {
		key := []byte(strconv.Itoa(id))
		val, err := k.enc.Encode(gr)
		if err != nil {
			slog.Error("Cannot encode value", "error", err)
			return err
		}

		err = txn.Set(key, val)
		if err == badger.ErrTxnTooBig {
			if err = txn.Commit(); err != nil {
				slog.Error("Cannot commit key/value transaction", "error", err)
				return err
			}
			txn = k.kv.NewTransaction(true)
			err = txn.Set(key, val)
		}
		if err != nil {
			slog.Error("Cannot set key/value", "error", err)
			return err
		}
	}

	return txn.Commit()
}

// Grade returns an override for a student.
func (k *kvio) Grade(_ context.Context, studentID int) (int, bool, error) {
	var res int
	if k.kv == nil {
		return res, false, errors.New("key-value store is not open")
	}
	txn := k.kv.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get([]byte(strconv.Itoa(studentID)))
	if err == badger.ErrKeyNotFound {
		return res, false, nil
	} else if err != nil {
		return res, false, err
	}

	val, err := item.ValueCopy(nil)
	if err != nil {
		return res, false, err
	}
	if err = k.enc.Decode(val, &res); err != nil {
		return res, false, err
	}
	return res, true, nil
}
