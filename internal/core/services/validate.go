package services

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

// ValidateSlots checks a slot configuration without touching the filesystem
// or the network. reserved lists bookkeeping paths (manifest, lock file) that
// no slot may target. Every problem found is returned in one ConfigError.
func ValidateSlots(slots []domain.AssetSlot, reserved []string) error {
	var problems []error
	addf := func(sentinel error, format string, args ...any) {
		problems = append(problems, fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
	}

	ids := make(map[string]int, len(slots))
	targets := make(map[string]string, len(slots))
	sidecars := make(map[string]string, len(slots))
	reservedSet := make(map[string]bool, len(reserved))
	for _, r := range reserved {
		if r != "" {
			reservedSet[path.Clean(filepath.ToSlash(r))] = true
		}
	}

	for i, slot := range slots {
		name := slot.ID
		if strings.TrimSpace(slot.ID) == "" {
			name = fmt.Sprintf("#%d", i+1)
			addf(domain.ErrInvalidSlot, "slot %s: empty id", name)
		} else if prev, ok := ids[slot.ID]; ok {
			addf(domain.ErrInvalidSlot, "slot %s: duplicate id (first declared as #%d)", name, prev+1)
		} else {
			ids[slot.ID] = i
		}

		if !slot.Kind.Valid() {
			addf(domain.ErrInvalidSlot, "slot %s: unknown kind %q", name, slot.Kind)
		}

		if slot.Dimensions != nil && !slot.Dimensions.Valid() {
			addf(domain.ErrInvalidDimensions, "slot %s: %s", name, slot.Dimensions)
		}

		for _, fb := range slot.Fallbacks {
			if _, err := CleanRelPath(fb); err != nil {
				addf(domain.ErrInvalidSlot, "slot %s: fallback %v", name, err)
			}
		}

		target, err := CleanRelPath(slot.TargetPath)
		if err != nil {
			addf(domain.ErrInvalidSlot, "slot %s: target %v", name, err)
			continue
		}
		if reservedSet[target] {
			addf(domain.ErrInvalidSlot, "slot %s: target %s is reserved for pipeline bookkeeping", name, target)
		}
		if other, ok := targets[target]; ok {
			addf(domain.ErrDuplicateTarget, "slots %s and %s both target %s", other, name, target)
			continue
		}
		targets[target] = name
		sidecars[domain.SidecarPath(target)] = name
	}

	for _, slot := range slots {
		target, err := CleanRelPath(slot.TargetPath)
		if err != nil || targets[target] != slot.ID {
			continue
		}
		if owner, ok := sidecars[target]; ok {
			name := slot.ID
			addf(domain.ErrDuplicateTarget, "slot %s: target %s collides with the attribution sidecar of slot %s", name, target, owner)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &domain.ConfigError{Problems: problems}
}

// CleanRelPath normalises a slash-separated path relative to the asset root.
// It rejects empty, absolute and root-escaping paths.
func CleanRelPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", fmt.Errorf("path is empty")
	}
	slashed := filepath.ToSlash(p)
	if path.IsAbs(slashed) || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return "", fmt.Errorf("%s must be relative to the asset root", p)
	}
	cleaned := path.Clean(slashed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%s escapes the asset root", p)
	}
	return cleaned, nil
}
