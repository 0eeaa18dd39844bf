package model

import (
	"fmt"
	"strings"

	"monks.co/zreplicate/set"
)

// Reconciliation is what's known about one dataset's source and backup
// sides, derived from a snapshot listing.
type Reconciliation struct {
	Coordinates

	SourceLabeled  *Snapshots
	BackupLabeled  *Snapshots
	BackupAnyLabel *Snapshots

	// CommonAncestor is the newest source snapshot that also exists on
	// the backup side. Nil if there is none.
	CommonAncestor *Snapshot
}

// Reconcile partitions the population for one dataset and finds its
// common ancestor. The population is only read.
func Reconcile(population *Snapshots, coords Coordinates) *Reconciliation {
	backup := coords.BackupDataset()

	rec := &Reconciliation{
		Coordinates:    coords,
		SourceLabeled:  SelectByDataset(population, coords.Source, coords.Label, true),
		BackupLabeled:  SelectByDataset(population, backup, coords.Label, true),
		BackupAnyLabel: SelectByDataset(population, backup, coords.Label, false),
	}
	rec.CommonAncestor = CommonAncestor(rec.SourceLabeled, rec.BackupLabeled, coords.BackupPool)
	return rec
}

// SelectByDataset returns the snapshots whose name starts with
// "<dataset>@", and, if useLabel is set, ends with "-<label>".
//
// Both checks are plain string matches on the full name. The "@" anchor
// is all that keeps sibling datasets like tank/var and tank/var2 apart,
// and the label check is a suffix match, so "-TEST" also accepts a
// snapshot labelled "PRE-TEST".
func SelectByDataset(population *Snapshots, dataset DatasetName, label string, useLabel bool) *Snapshots {
	prefix := dataset.Path() + datasetSeparator
	return population.Filter(func(snap Snapshot) bool {
		if !strings.HasPrefix(snap.Name, prefix) {
			return false
		}
		return !useLabel || snap.HasLabel(label)
	})
}

// CommonAncestor scans source from newest to oldest and returns the
// first snapshot whose backup-pool form is present in backup.
func CommonAncestor(source, backup *Snapshots, backupPool string) *Snapshot {
	received := set.New[string]()
	for snap := range backup.All() {
		received.Add(snap.Name)
	}

	for snap := range source.AllDesc() {
		if received.Has(snap.InPool(backupPool)) {
			return &snap
		}
	}
	return nil
}

// Latest returns the newest labelled source snapshot.
func (rec *Reconciliation) Latest() (Snapshot, error) {
	latest := rec.SourceLabeled.Newest()
	if latest == nil {
		return Snapshot{}, fmt.Errorf("%s: %w", rec.Source, ErrEmptySourceSet)
	}
	return *latest, nil
}

func (rec *Reconciliation) String() string {
	return fmt.Sprintf("<%s: %d source, %d backup, %d backup (any label)>",
		rec.Source, rec.SourceLabeled.Len(), rec.BackupLabeled.Len(), rec.BackupAnyLabel.Len())
}
