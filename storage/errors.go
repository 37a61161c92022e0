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

package storage

import "errors"

var (
	// ErrNotFound is returned when no article record exists for the key.
	ErrNotFound = errors.New("article not found")

	// ErrInvalidQuery is returned for malformed lookup parameters, such
	// as an empty hash or a non-positive page limit.
	ErrInvalidQuery = errors.New("invalid query parameters")

	// ErrSerializationFailed wraps record encode and decode failures.
	ErrSerializationFailed = errors.New("serialization failed")
)
