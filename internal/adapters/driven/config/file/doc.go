// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML settings file (orson-assets.toml)
//   - LoadSettings: overlays the settings file onto the built-in defaults
package file
