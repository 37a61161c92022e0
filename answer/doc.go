// Package answer implements the question-answering read path: query
// rewriting, vector retrieval with optional multi-query fan-out,
// hydration against the primary store, content-aware reranking, and
// streamed answer generation with cited sources.
package answer
