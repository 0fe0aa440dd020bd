// Package domain defines the core business entities for jobmatch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - JobRecord: A raw job posting read from a source feed
//   - DocumentID: The content-addressed identity of a posting
//   - IndexedDocument: The unit stored in the vector collection
//   - Metadata: The fixed set of retrievable fields returned by search
//
// It also holds the pure helpers that turn a JobRecord into an
// IndexedDocument (Normalize, Identity, BuildText, BuildMetadata).
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
