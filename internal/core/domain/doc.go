// Package domain defines the core entities of the Orson Vision asset pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - AssetSlot: A named logical placement for one media item
//   - FetchResult: The outcome of a remote stock-media lookup
//   - ManifestEntry: The durable resolution record for a slot
//   - RunReport: The per-run summary handed to presentation code
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
