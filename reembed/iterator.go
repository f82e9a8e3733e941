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

package reembed

import (
	"context"
)

const (
	// DefaultBatchSize is the default number of records to process in each batch
	DefaultBatchSize = 100
)

// Iterator walks a record listing in batches.
type Iterator[T any] struct {
	list      func(ctx context.Context) ([]T, error)
	batchSize int
}

// NewIterator creates an iterator over the records returned by list.
// batchSize: number of records per batch (<= 0 selects DefaultBatchSize)
func NewIterator[T any](list func(ctx context.Context) ([]T, error), batchSize int) *Iterator[T] {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Iterator[T]{list: list, batchSize: batchSize}
}

// Count returns the number of records the listing currently yields.
func (it *Iterator[T]) Count(ctx context.Context) (int, error) {
	records, err := it.list(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// ForEach calls fn for each batch of records.
// Iteration stops on first error from fn or when all records are processed.
// Context cancellation is checked between batches.
func (it *Iterator[T]) ForEach(ctx context.Context, fn func([]T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records, err := it.list(ctx)
	if err != nil {
		return err
	}

	for i := 0; i < len(records); i += it.batchSize {
		if err := fn(records[i:min(i+it.batchSize, len(records))]); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
