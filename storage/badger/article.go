package badger

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
)

const batchGetChunkSize = 100

// articleRepository implements storage.ArticleRepository on BadgerDB.
type articleRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.ArticleRepository = (*articleRepository)(nil)

// NewRepository opens a BadgerDB-backed article repository at path.
//
// Returns storage.ArticleRepository interface to enforce abstraction.
func NewRepository(path string) (storage.ArticleRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newArticleRepository(backend), nil
}

// NewMemoryRepository creates an in-memory repository for tests.
func NewMemoryRepository() (storage.ArticleRepository, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newArticleRepository(backend), nil
}

func newArticleRepository(backend *Backend) *articleRepository {
	return &articleRepository{
		backend: backend,
		logger:  slog.Default().With("component", "badger-articles"),
	}
}

// PutArticle writes the record and its title-index entry in one
// transaction, both carrying the record's TTL so the index entry is
// reclaimed together with the record.
func (r *articleRepository) PutArticle(ctx context.Context, record *core.ArticleRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil || record.URLHash == "" {
		return storage.ErrInvalidQuery
	}

	data, err := storage.MarshalArticleRecord(record)
	if err != nil {
		return err
	}

	ttl := ttlFromExpiry(record.ExpiresAt)

	return r.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeArticleKey(record.URLHash), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		if err := tx.SetEntry(entry); err != nil {
			return err
		}

		if record.TitleHash != "" {
			idx := badger.NewEntry(makeTitleIndexKey(record.TitleHash, record.URLHash), nil)
			if ttl > 0 {
				idx = idx.WithTTL(ttl)
			}
			if err := tx.SetEntry(idx); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetArticle retrieves a record by URL hash.
func (r *articleRepository) GetArticle(ctx context.Context, urlHash string) (*core.ArticleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record *core.ArticleRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeArticleKey(urlHash))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			record, err = storage.UnmarshalArticleRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetArticles retrieves multiple records by URL hash. Missing records are
// omitted; result order matches the order of found keys.
func (r *articleRepository) GetArticles(ctx context.Context, urlHashes []string) ([]*core.ArticleRecord, error) {
	records := make([]*core.ArticleRecord, 0, len(urlHashes))

	for start := 0; start < len(urlHashes); start += batchGetChunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + batchGetChunkSize
		if end > len(urlHashes) {
			end = len(urlHashes)
		}
		chunk := urlHashes[start:end]

		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for _, urlHash := range chunk {
				item, err := tx.Get(makeArticleKey(urlHash))
				if err != nil {
					if err == badger.ErrKeyNotFound {
						continue
					}
					return err
				}
				err = item.Value(func(val []byte) error {
					record, err := storage.UnmarshalArticleRecord(val)
					if err != nil {
						return err
					}
					records = append(records, record)
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		}, false)
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

// FindByTitleHash returns the URL hashes indexed under titleHash.
func (r *articleRepository) FindByTitleHash(ctx context.Context, titleHash string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var urlHashes []string
	prefix := makePartialTitleIndexKey(titleHash)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			urlHashes = append(urlHashes, string(key[len(prefix):]))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return urlHashes, nil
}

// ScanArticles pages through records in key order. The cursor is the URL
// hash of the last examined record; iteration resumes just past it.
func (r *articleRepository) ScanArticles(ctx context.Context, category, cursor string, limit int) (*storage.ScanPage, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := &storage.ScanPage{}
	prefix := articleKeyPrefix()

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		if cursor == "" {
			iter.Rewind()
		} else {
			// Seek to the cursor key, then step past it.
			iter.Seek(makeArticleKey(cursor))
			if iter.Valid() && urlHashFromArticleKey(iter.Item().Key()) == cursor {
				iter.Next()
			}
		}

		for ; iter.Valid(); iter.Next() {
			item := iter.Item()
			lastExamined := urlHashFromArticleKey(item.Key())

			err := item.Value(func(val []byte) error {
				record, err := storage.UnmarshalArticleRecord(val)
				if err != nil {
					return err
				}
				if category == "" || record.Category == category {
					page.Articles = append(page.Articles, record)
				}
				return nil
			})
			if err != nil {
				return err
			}

			if len(page.Articles) >= limit {
				iter.Next()
				if iter.Valid() {
					page.Cursor = lastExamined
				}
				return nil
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Close closes the underlying backend.
func (r *articleRepository) Close() error {
	return r.backend.Close()
}

// ttlFromExpiry converts an absolute expiry epoch into a TTL duration.
// Zero means no expiry; an already elapsed expiry yields the minimum TTL
// so the store reclaims the record promptly.
func ttlFromExpiry(expiresAt int64) time.Duration {
	if expiresAt == 0 {
		return 0
	}
	ttl := time.Until(time.Unix(expiresAt, 0))
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}
