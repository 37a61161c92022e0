package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"
	"github.com/poiesic/newswire/storage"
)

// Subscribe delivers change-feed events for the article keyspace until
// ctx is cancelled. Badger reports deletions and TTL reclamations as
// updates with an empty value; those surface as OpRemove with only the
// key populated. Inserts and overwrites are indistinguishable at this
// layer and both surface as OpInsert.
func (r *articleRepository) Subscribe(ctx context.Context, fn func(storage.ChangeEvent)) error {
	matches := []pb.Match{{Prefix: articleKeyPrefix()}}

	err := r.backend.db.Subscribe(ctx, func(kvs *badger.KVList) error {
		for _, kv := range kvs.GetKv() {
			urlHash := urlHashFromArticleKey(kv.GetKey())
			if urlHash == "" {
				continue
			}

			if len(kv.GetValue()) == 0 {
				fn(storage.ChangeEvent{Op: storage.OpRemove, URLHash: urlHash})
				continue
			}

			record, err := storage.UnmarshalArticleRecord(kv.GetValue())
			if err != nil {
				r.logger.Error("failed to decode change-feed record", "urlHash", urlHash, "err", err)
				continue
			}
			fn(storage.ChangeEvent{Op: storage.OpInsert, URLHash: urlHash, Article: record})
		}
		return nil
	}, matches)

	if err == context.Canceled {
		return nil
	}
	return err
}
