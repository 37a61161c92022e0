// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage provides the primary-store abstraction layer for newswire.
//
// This package defines the repository interface that decouples the
// ingestion and retrieval pipelines from the storage implementation. It
// allows different backends (BadgerDB, in-memory, etc.) to be used
// interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to enforce abstraction and enable
// alternate backend implementations:
//
//	repo, err := badger.NewRepository(path)  // returns storage.ArticleRepository
//
// Internal package constructors may return concrete types since they are
// only used within the implementation package.
//
// # Identity Model
//
// The URL identity hash is the primary key; the title identity hash is a
// secondary index used for deduplication. Records carry a TTL after which
// the store may reclaim them; reclamation is not observed downstream.
//
// # Change Feed
//
// Subscribe exposes an ordered stream of insert/modify/remove events used
// by the stream ingestor to keep the vector index eventually consistent
// with the primary store.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
