package services

import (
	"context"
	"fmt"
	"path"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
	"github.com/orson-vision/orson-assets/internal/core/ports/driving"
)

// Verification problem reasons.
const (
	ReasonNotInManifest = "missing from manifest"
	ReasonFailed        = "failed in last run"
	ReasonUnknownSlot   = "manifest entry for unknown slot"
	ReasonFileMissing   = "file missing"
	ReasonFileEmpty     = "file empty"
	ReasonPathChanged   = "target path changed since last run"
)

// Ensure VerifyService implements the interface.
var _ driving.Verifier = (*VerifyService)(nil)

// VerifyService checks the last written manifest against slots and disk.
type VerifyService struct {
	fs        driven.FileSystem
	manifests driven.ManifestStore
}

// NewVerifyService creates a verify service.
func NewVerifyService(fs driven.FileSystem, manifests driven.ManifestStore) *VerifyService {
	return &VerifyService{fs: fs, manifests: manifests}
}

// Verify reports every inconsistency between slots, manifest and asset root.
func (s *VerifyService) Verify(ctx context.Context, slots []domain.AssetSlot) (*domain.VerifyReport, error) {
	m, err := s.manifests.Read()
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	report := &domain.VerifyReport{ManifestPath: s.manifests.Path()}
	failed := make(map[string]string, len(m.Failed))
	for _, f := range m.Failed {
		failed[f.SlotID] = f.Error
	}
	known := make(map[string]bool, len(slots))

	for _, slot := range slots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		known[slot.ID] = true
		report.Checked++

		entry, ok := m.Entry(slot.ID)
		if !ok {
			reason := ReasonNotInManifest
			if cause, wasFailed := failed[slot.ID]; wasFailed {
				reason = ReasonFailed + ": " + cause
			}
			report.Problems = append(report.Problems, domain.VerifyProblem{SlotID: slot.ID, Path: slot.TargetPath, Reason: reason})
			continue
		}
		if path.Clean(entry.ResolvedPath) != path.Clean(slot.TargetPath) {
			report.Problems = append(report.Problems, domain.VerifyProblem{SlotID: slot.ID, Path: entry.ResolvedPath, Reason: ReasonPathChanged})
		}
		if problem, bad := s.checkFile(slot.ID, entry.ResolvedPath); bad {
			report.Problems = append(report.Problems, problem)
		}
	}

	for _, e := range m.Entries {
		if !known[e.SlotID] {
			report.Problems = append(report.Problems, domain.VerifyProblem{SlotID: e.SlotID, Path: e.ResolvedPath, Reason: ReasonUnknownSlot})
		}
	}
	return report, nil
}

func (s *VerifyService) checkFile(slotID, p string) (domain.VerifyProblem, bool) {
	ok, size, err := s.fs.NonEmptyFile(p)
	switch {
	case err != nil:
		return domain.VerifyProblem{SlotID: slotID, Path: p, Reason: err.Error()}, true
	case ok:
		return domain.VerifyProblem{}, false
	case size == 0 && s.exists(p):
		return domain.VerifyProblem{SlotID: slotID, Path: p, Reason: ReasonFileEmpty}, true
	}
	return domain.VerifyProblem{SlotID: slotID, Path: p, Reason: ReasonFileMissing}, true
}

// exists distinguishes an empty file from a missing one.
func (s *VerifyService) exists(p string) bool {
	rc, err := s.fs.Open(p)
	if err != nil {
		return false
	}
	_ = rc.Close()
	return true
}
