package domain

import (
	"fmt"
	"strings"
)

// Kind is the media type a slot expects.
type Kind string

const (
	// KindImage is a still image slot.
	KindImage Kind = "image"
	// KindVideo is a video slot.
	KindVideo Kind = "video"
)

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindImage, "photo":
		return KindImage, nil
	case KindVideo:
		return KindVideo, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidSlot, s)
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindImage || k == KindVideo
}

// Dimensions is a width/height hint in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// DefaultDimensions is used for placeholders when a slot declares no size.
var DefaultDimensions = Dimensions{Width: 400, Height: 300}

// Valid reports whether both sides are positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// String formats the dimensions as WxH.
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// AssetSlot is a named logical placement for one media item.
// Slots are declared once per run and never mutated.
type AssetSlot struct {
	// ID is the unique key, e.g. "homepage.hero.background".
	ID string

	// Kind is the media type.
	Kind Kind

	// SearchQuery is used only if a remote fetch is attempted.
	SearchQuery string

	// TargetPath is the path downstream code expects, relative to the asset root.
	TargetPath string

	// Dimensions is an optional size hint for placeholders.
	Dimensions *Dimensions

	// Label overrides the placeholder label derived from the ID.
	Label string

	// Fallbacks are local candidate files copied to TargetPath when it is absent.
	Fallbacks []string
}

// Category returns the first dotted segment of the slot ID.
func (s AssetSlot) Category() string {
	id := strings.TrimSpace(s.ID)
	if i := strings.IndexByte(id, '.'); i >= 0 {
		return id[:i]
	}
	return id
}

// PlaceholderLabel returns the human-readable label for a generated placeholder.
func (s AssetSlot) PlaceholderLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return HumanizeID(s.ID)
}

// PlaceholderDimensions returns the declared dimensions or the given default.
func (s AssetSlot) PlaceholderDimensions(def Dimensions) Dimensions {
	if s.Dimensions != nil {
		return *s.Dimensions
	}
	return def
}

// HumanizeID replaces underscores and hyphens with spaces.
func HumanizeID(id string) string {
	return strings.NewReplacer("_", " ", "-", " ").Replace(id)
}

// SidecarPath returns the attribution record path written next to a downloaded asset.
func SidecarPath(targetPath string) string {
	return targetPath + ".json"
}
