// Package domain defines the core business entities for paygrade.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawPost: A harvested discussion post, immutable once collected
//   - Corpus: The deduplicated, ordered collection of posts
//   - Chunk: A bounded slice of a rendered post used for retrieval
//   - CompensationRecord: One structured compensation data point
//   - QueryResult: The validated answer to a compensation question
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
