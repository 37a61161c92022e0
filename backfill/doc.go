// Package backfill rebuilds the vector index from the primary store.
// The reconciler walks every article, re-derives its embedding through
// the same transform the stream path uses, and upserts in batches, so a
// run over an already-indexed store is a no-op apart from provider
// cost. Used after embedding model changes and index loss.
package backfill
