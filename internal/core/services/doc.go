// Package services implements the driving port interfaces.
// Services contain the core pipeline logic and orchestrate
// calls to driven ports (adapters).
//
// The CatalogBuilder resolves each slot in strict order: existing local file,
// local fallback copy, remote fetch, generated placeholder. Only a write
// failure at the placeholder stage marks a slot Failed.
package services
