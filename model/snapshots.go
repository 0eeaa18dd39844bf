package model

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Snapshots is an immutable, name-ordered sequence of snapshots.
// Unlike a set, it keeps duplicate names.
type Snapshots struct {
	snaps []Snapshot
}

func NewSnapshots(snapshots ...Snapshot) *Snapshots {
	snaps := slices.Clone(snapshots)
	slices.SortStableFunc(snaps, func(a, b Snapshot) int {
		return strings.Compare(a.Name, b.Name)
	})
	return &Snapshots{snaps: snaps}
}

func (snaps *Snapshots) String() string {
	if snaps == nil {
		return "<no snaps>"
	}
	if newest := snaps.Newest(); newest != nil {
		return fmt.Sprintf("%d → %s", snaps.Len(), newest.Name)
	}
	return fmt.Sprintf("%d snaps", snaps.Len())
}

func (snaps *Snapshots) All() iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		if snaps == nil {
			return
		}
		for _, snap := range snaps.snaps {
			if !yield(snap) {
				return
			}
		}
	}
}

func (snaps *Snapshots) AllDesc() iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		if snaps == nil {
			return
		}
		for i := len(snaps.snaps) - 1; i >= 0; i-- {
			if !yield(snaps.snaps[i]) {
				return
			}
		}
	}
}

// Filter returns the snapshots matching pred, preserving order.
func (snaps *Snapshots) Filter(pred func(Snapshot) bool) *Snapshots {
	out := &Snapshots{}
	for snap := range snaps.All() {
		if pred(snap) {
			out.snaps = append(out.snaps, snap)
		}
	}
	return out
}

func (snaps *Snapshots) Names() []string {
	var names []string
	for snap := range snaps.All() {
		names = append(names, snap.Name)
	}
	return names
}

func (snaps *Snapshots) Len() int {
	if snaps == nil {
		return 0
	}
	return len(snaps.snaps)
}

// Oldest returns the first Snapshot by name.
// It returns nil if there are no snapshots.
func (snaps *Snapshots) Oldest() *Snapshot {
	if snaps.Len() == 0 {
		return nil
	}
	snap := snaps.snaps[0]
	return &snap
}

// Newest returns the last Snapshot by name.
// It returns nil if there are no snapshots.
func (snaps *Snapshots) Newest() *Snapshot {
	if snaps.Len() == 0 {
		return nil
	}
	snap := snaps.snaps[len(snaps.snaps)-1]
	return &snap
}
