package domain

import "time"

// SlotState is a node of the per-slot resolution state machine.
type SlotState string

const (
	StateUnresolved   SlotState = "Unresolved"
	StateFetching     SlotState = "Fetching"
	StateDownloading  SlotState = "Downloading"
	StatePlaceholding SlotState = "Placeholding"
	StateResolved     SlotState = "Resolved"
	StateFailed       SlotState = "Failed"
)

// Terminal reports whether no further transition is possible.
func (s SlotState) Terminal() bool {
	return s == StateResolved || s == StateFailed
}

// SlotOutcome is the terminal result of processing one slot.
type SlotOutcome struct {
	SlotID string
	State  SlotState

	// Entry is set when State is Resolved.
	Entry *ManifestEntry

	// FetchStatus is empty when no remote lookup was attempted.
	FetchStatus FetchStatus

	// FetchErr is the recovered remote cause, if any.
	FetchErr error

	// Err is set when State is Failed.
	Err error
}

// RunReport summarises one pipeline run for presentation.
type RunReport struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	ManifestPath string

	// RemoteEnabled is false when no credential was configured.
	RemoteEnabled bool

	// Outcomes are in slot declaration order.
	Outcomes []SlotOutcome
}

// Duration returns the wall-clock duration of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Counts returns the number of resolved slots per origin.
func (r *RunReport) Counts() map[Origin]int {
	counts := make(map[Origin]int, 3)
	for _, o := range AllOrigins() {
		counts[o] = 0
	}
	for _, out := range r.Outcomes {
		if out.State == StateResolved && out.Entry != nil {
			counts[out.Entry.Origin]++
		}
	}
	return counts
}

// Failures returns every Failed slot with its cause.
func (r *RunReport) Failures() []SlotError {
	var failed []SlotError
	for _, out := range r.Outcomes {
		if out.State == StateFailed {
			failed = append(failed, SlotError{SlotID: out.SlotID, Err: out.Err})
		}
	}
	return failed
}

// HasFailures reports whether any slot ended Failed.
func (r *RunReport) HasFailures() bool {
	for _, out := range r.Outcomes {
		if out.State == StateFailed {
			return true
		}
	}
	return false
}

// FetchCount returns how many lookups ended with the given status.
func (r *RunReport) FetchCount(status FetchStatus) int {
	n := 0
	for _, out := range r.Outcomes {
		if out.FetchStatus == status {
			n++
		}
	}
	return n
}

// BytesDownloaded sums the sizes of downloaded files.
func (r *RunReport) BytesDownloaded() int64 {
	var total int64
	for _, out := range r.Outcomes {
		if out.Entry == nil || out.Entry.Origin != OriginDownloaded {
			continue
		}
		switch v := out.Entry.Metadata["bytes"].(type) {
		case int64:
			total += v
		case int:
			total += int64(v)
		}
	}
	return total
}

// Entries returns the manifest entries of resolved slots in declaration order.
func (r *RunReport) Entries() []ManifestEntry {
	entries := make([]ManifestEntry, 0, len(r.Outcomes))
	for _, out := range r.Outcomes {
		if out.State == StateResolved && out.Entry != nil {
			entries = append(entries, *out.Entry)
		}
	}
	return entries
}

// RunRecord is the persisted history row for a run.
type RunRecord struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	Total         int
	Preexisting   int
	Downloaded    int
	Placeholder   int
	Failed        int
	NetworkErrors int
	NotFound      int
	Failures      []ManifestFailure
}

// NewRunRecord folds a report into a history record.
func NewRunRecord(r *RunReport) RunRecord {
	counts := r.Counts()
	rec := RunRecord{
		ID:            r.RunID,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		Total:         len(r.Outcomes),
		Preexisting:   counts[OriginPreexistingLocal],
		Downloaded:    counts[OriginDownloaded],
		Placeholder:   counts[OriginPlaceholder],
		NetworkErrors: r.FetchCount(FetchNetworkError),
		NotFound:      r.FetchCount(FetchNotFound),
	}
	for _, f := range r.Failures() {
		rec.Failed++
		rec.Failures = append(rec.Failures, ManifestFailure{SlotID: f.SlotID, Error: errString(f.Err)})
	}
	return rec
}

// VerifyProblem describes one inconsistency between catalog, manifest and disk.
type VerifyProblem struct {
	SlotID string
	Path   string
	Reason string
}

// VerifyReport is the result of checking a manifest against the catalog.
type VerifyReport struct {
	ManifestPath string
	Checked      int
	Problems     []VerifyProblem
}

// OK reports whether verification found no problems.
func (r *VerifyReport) OK() bool {
	return len(r.Problems) == 0
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
