// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - FileSystem: Directory listing, copies and atomic writes under the asset root
//   - PlaceholderGenerator: Synthesises stand-in assets
//   - ManifestStore: Persists and reads the asset manifest
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - RemoteFetcher: Stock-media search and download. Without it every unresolved slot becomes a placeholder.
//   - RunLocker: Guards the asset root against concurrent runs.
//   - RunStore: Run history persistence.
//   - MetricsRecorder: Counters and timings for a run.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
