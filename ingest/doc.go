// Package ingest implements the write side of the pipeline: the dedup
// writer that turns raw feed items into durable article records, and the
// stream ingestor that turns change-feed events into vector index
// upserts. Every invocation leaves one audit entry behind.
package ingest
