package domain

import "time"

// Origin is the provenance tag recorded for a resolved slot.
type Origin string

const (
	// OriginPreexistingLocal means the file was already on disk (or copied from a local fallback).
	OriginPreexistingLocal Origin = "PreexistingLocal"
	// OriginDownloaded means the file was fetched from the remote provider.
	OriginDownloaded Origin = "Downloaded"
	// OriginPlaceholder means the file was synthesised.
	OriginPlaceholder Origin = "Placeholder"
)

// AllOrigins returns every origin in reporting order.
func AllOrigins() []Origin {
	return []Origin{OriginPreexistingLocal, OriginDownloaded, OriginPlaceholder}
}

// ManifestEntry is the durable resolution record for a slot.
type ManifestEntry struct {
	SlotID       string         `json:"slotId"`
	ResolvedPath string         `json:"resolvedPath"`
	Origin       Origin         `json:"origin"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ManifestFailure records a slot that ended in the Failed state.
type ManifestFailure struct {
	SlotID string `json:"slotId"`
	Error  string `json:"error"`
}

// Manifest is the document consumed by the UI layer at render time.
// It is regenerated wholesale on every run.
type Manifest struct {
	Version     int               `json:"version"`
	RunID       string            `json:"runId"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Entries     []ManifestEntry   `json:"entries"`
	Failed      []ManifestFailure `json:"failed"`
}

// ManifestVersion is the current manifest document version.
const ManifestVersion = 1

// Entry returns the entry for a slot ID.
func (m *Manifest) Entry(slotID string) (ManifestEntry, bool) {
	for _, e := range m.Entries {
		if e.SlotID == slotID {
			return e, true
		}
	}
	return ManifestEntry{}, false
}
