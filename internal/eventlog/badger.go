package eventlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const keyPrefix = "evt:"

// BadgerStore keeps entries in BadgerDB under "evt:{unix_nano padded}:{uuid}"
// so a prefix scan returns them in chronological order.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens or creates the database at path. Badger's own diagnostics
// go to log.
func OpenBadger(path string, log *zap.Logger) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path).
		WithLogger(badgerLogger{log: log.Named("badger").Sugar()}))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Append(e Entry) error {
	key := fmt.Sprintf("%s%019d:%s", keyPrefix, e.At.UnixNano(), uuid.NewString())
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(e.Text))
	})
}

// Recent returns at most limit entries, oldest first.
func (s *BadgerStore) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek([]byte(keyPrefix + "9999999999999999999")); it.ValidForPrefix(prefix); it.Next() {
			if len(entries) == limit {
				break
			}
			item := it.Item()
			at, err := parseKeyTime(string(item.Key()))
			if err != nil {
				return err
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			entries = append(entries, Entry{At: at, Text: string(value)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lo.Reverse(entries), nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger adapts zap to badger.Logger. Badger is chatty at info level,
// so that is demoted to debug.
type badgerLogger struct {
	log *zap.SugaredLogger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Errorf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warnf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debugf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debugf(strings.TrimSpace(format), args...)
}

func parseKeyTime(key string) (time.Time, error) {
	stamp, _, ok := strings.Cut(strings.TrimPrefix(key, keyPrefix), ":")
	if !ok {
		return time.Time{}, fmt.Errorf("malformed history key %q", key)
	}
	nanos, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed history key %q: %w", key, err)
	}
	return time.Unix(0, nanos), nil
}
