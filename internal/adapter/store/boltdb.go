package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"docseek/internal/domain"
	"docseek/internal/logging"
)

var (
	bucketMeta   = []byte("meta")
	bucketDocs   = []byte("docs")
	bucketTotals = []byte("totals")
)

// BoltStore persists an Index as a single bbolt file. Each document is a
// nested bucket of term -> count; totals keeps each document's token count.
type BoltStore struct {
	timeout time.Duration
	logger  *slog.Logger
}

func NewBoltStore() *BoltStore {
	return &BoltStore{
		timeout: time.Second,
		logger:  logging.WithComponent("store").With("format", "bolt"),
	}
}

func (s *BoltStore) Save(path string, idx *domain.Index) error {
	tmp, err := tempPath(path)
	if err != nil {
		return domain.NewIOError("save", path, err)
	}
	defer os.Remove(tmp)

	db, err := bbolt.Open(tmp, 0644, &bbolt.Options{Timeout: s.timeout})
	if err != nil {
		return domain.NewIOError("save", path, fmt.Errorf("failed to open bolt db: %w", err))
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if err := writeSchemaInfo(tx, &SchemaInfo{Version: CurrentSchemaVersion}); err != nil {
			return err
		}
		docs, err := tx.CreateBucketIfNotExists(bucketDocs)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketDocs, err)
		}
		totals, err := tx.CreateBucketIfNotExists(bucketTotals)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketTotals, err)
		}
		if idx == nil {
			return nil
		}

		for path, doc := range idx.Docs {
			b, err := docs.CreateBucket([]byte(path))
			if err != nil {
				return fmt.Errorf("failed to create bucket for %s: %w", path, err)
			}
			for term, count := range doc.Terms {
				if err := b.Put([]byte(term), strconv.AppendInt(nil, int64(count), 10)); err != nil {
					return err
				}
			}
			if err := totals.Put([]byte(path), strconv.AppendInt(nil, int64(doc.TotalTokens), 10)); err != nil {
				return err
			}
		}
		return nil
	})
	if closeErr := db.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return domain.NewIOError("save", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return domain.NewIOError("save", path, err)
	}
	s.logger.Debug("index saved", "path", path, "documents", idx.Len())
	return nil
}

func (s *BoltStore) Load(path string) (*domain.Index, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, domain.NewIOError("load", path, err)
	}

	db, err := bbolt.Open(path, 0444, &bbolt.Options{ReadOnly: true, Timeout: s.timeout})
	if err != nil {
		// The file exists, so a failure here means it is not a bolt index.
		return nil, domain.NewFormatError("load", path, err)
	}
	defer db.Close()

	var idx *domain.Index
	err = db.View(func(tx *bbolt.Tx) error {
		info, err := readSchemaInfo(tx)
		if err != nil {
			return err
		}
		if err := checkVersion(info.Version); err != nil {
			return err
		}

		docs := tx.Bucket(bucketDocs)
		totals := tx.Bucket(bucketTotals)
		if docs == nil || totals == nil {
			return fmt.Errorf("%w: missing docs or totals bucket", domain.ErrFormat)
		}

		idx = domain.NewIndex()
		return docs.ForEach(func(k, v []byte) error {
			if v != nil {
				return fmt.Errorf("%w: unexpected value at document key %q", domain.ErrFormat, k)
			}
			docPath := string(k)
			total, err := parseCount(totals.Get(k))
			if err != nil {
				return fmt.Errorf("%w: total for %s: %v", domain.ErrFormat, docPath, err)
			}

			terms := make(map[string]int)
			err = docs.Bucket(k).ForEach(func(term, count []byte) error {
				n, err := parseCount(count)
				if err != nil {
					return fmt.Errorf("%w: term %q in %s: %v", domain.ErrFormat, term, docPath, err)
				}
				terms[string(term)] = n
				return nil
			})
			if err != nil {
				return err
			}

			doc, err := toDocument(docPath, total, terms)
			if err != nil {
				return err
			}
			idx.Docs[docPath] = doc
			return nil
		})
	})
	if err != nil {
		return nil, domain.NewFormatError("load", path, err)
	}

	s.logger.Debug("index loaded", "path", path, "documents", idx.Len())
	return idx, nil
}

func parseCount(data []byte) (int, error) {
	if data == nil {
		return 0, fmt.Errorf("missing")
	}
	return strconv.Atoi(string(data))
}

// tempPath reserves a file next to path so the final rename stays on one
// filesystem.
func tempPath(path string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(name, 0644); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
