package ssp

import (
	"slices"
	"time"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
)

// HistoryEntry is one evidence-fetch record for a requirement.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Evidence  []string  `json:"evidence,omitempty"`
}

// day is the UTC calendar day the entry belongs to.
func (e HistoryEntry) day() string {
	return e.Timestamp.UTC().Format(constants.DateFormat)
}

// History is the ordered, oldest-first evidence history of a requirement.
type History []HistoryEntry

// Append returns the history with entry added. At most one entry is kept per
// UTC calendar day (the most recent one) and only the newest
// constants.MaxHistoryEntries entries survive. The receiver is not modified.
func (h History) Append(entry HistoryEntry) History {
	all := append(h.Clone(), entry)
	slices.SortStableFunc(all, func(a, b HistoryEntry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	// Walk newest first so the latest record of each day is the one kept.
	seen := make(map[string]bool, len(all))
	out := make(History, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		day := all[i].day()
		if seen[day] {
			continue
		}
		seen[day] = true
		out = append(out, all[i])
		if len(out) == constants.MaxHistoryEntries {
			break
		}
	}
	slices.Reverse(out)
	return out
}

// Latest returns the most recent entry.
func (h History) Latest() (HistoryEntry, bool) {
	if len(h) == 0 {
		return HistoryEntry{}, false
	}
	return h[len(h)-1], true
}

// Clone returns a deep copy, preserving nil.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	for i, e := range h {
		e.Evidence = slices.Clone(e.Evidence)
		out[i] = e
	}
	return out
}
